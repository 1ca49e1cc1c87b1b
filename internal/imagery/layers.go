// Package imagery serves map layer and basemap configuration for the
// monitoring dashboard.
package imagery

import (
	"time"

	"github.com/marinewatch/marinewatch-go/internal/errors"
)

// Layer describes one tiled ocean data layer in Web Mercator XYZ format.
// The {date} placeholder in the tile URL is substituted client-side.
type Layer struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	TileURL     string  `json:"tile_url"`
	Attribution string  `json:"attribution"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Units       string  `json:"units"`
	Palette     string  `json:"palette"`
}

// Basemap describes the satellite basemap tile template. The API key is
// substituted server-side by the tile proxy, never exposed to clients.
type Basemap struct {
	URLTemplate string `json:"url_template"`
	MinZoom     int    `json:"min_zoom"`
	MaxZoom     int    `json:"max_zoom"`
}

// MapConfig is the dashboard's initial map configuration.
type MapConfig struct {
	Basemap      Basemap `json:"basemap"`
	CurrentYear  int     `json:"current_year"`
	CurrentMonth string  `json:"current_month"`
	CenterLat    float64 `json:"center_lat"`
	CenterLng    float64 `json:"center_lng"`
	Zoom         int     `json:"zoom"`
}

// LayerConfig returns the tile configuration for a named ocean data
// layer, with the layer date resolved daysAgo days before now.
func LayerConfig(layer string, daysAgo int, now time.Time) (*Layer, error) {
	if daysAgo < 0 {
		daysAgo = 0
	}
	dateStr := now.UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")

	switch layer {
	case "chlorophyll":
		return &Layer{
			ID:          "chlorophyll",
			Title:       "Chlorophyll Concentration",
			Date:        dateStr,
			TileURL:     "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/MODIS_Aqua_Chlorophyll_A/default/{date}/GoogleMapsCompatible_Level9/{z}/{y}/{x}.png",
			Attribution: "Imagery: NASA EOSDIS GIBS (chlorophyll)",
			Min:         0,
			Max:         20,
			Units:       "mg m^-3",
			Palette:     "blue-green-yellow",
		}, nil
	case "sst":
		return &Layer{
			ID:          "sst",
			Title:       "Sea Surface Temperature",
			Date:        dateStr,
			TileURL:     "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/MODIS_Aqua_L3_SST_MidIR/default/{date}/GoogleMapsCompatible_Level9/{z}/{y}/{x}.png",
			Attribution: "Imagery: NASA / NOAA SST visualization",
			Min:         -2,
			Max:         35,
			Units:       "°C",
			Palette:     "blue-yellow-red",
		}, nil
	default:
		return nil, errors.Newf("unknown map layer: %s", layer).
			Component("imagery").
			Category(errors.CategoryValidation).
			Context("layer", layer).
			Build()
	}
}

// DefaultMapConfig returns the dashboard map configuration, centered on
// the Bay of Bengal monitoring region.
func DefaultMapConfig(now time.Time) *MapConfig {
	utc := now.UTC()
	return &MapConfig{
		Basemap: Basemap{
			URLTemplate: "https://tiles.planet.com/basemaps/v1/planet-tiles/global_monthly_{year}_{month}_mosaic/gmap/{z}/{x}/{y}.png?api_key={apiKey}",
			MinZoom:     2,
			MaxZoom:     18,
		},
		CurrentYear:  utc.Year(),
		CurrentMonth: utc.Format("01"),
		CenterLat:    11.0,
		CenterLng:    79.0,
		Zoom:         6,
	}
}
