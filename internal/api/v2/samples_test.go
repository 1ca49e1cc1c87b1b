package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/errors"
)

func TestMeasurementUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want *float64
	}{
		{name: "number", json: `7.8`, want: floatPtr(7.8)},
		{name: "integer", json: `28`, want: floatPtr(28)},
		{name: "numeric string", json: `"6.2"`, want: floatPtr(6.2)},
		{name: "non-numeric string", json: `"high"`, want: nil},
		{name: "empty string", json: `""`, want: nil},
		{name: "null", json: `null`, want: nil},
		{name: "bool", json: `true`, want: nil},
		{name: "object", json: `{"v":1}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Measurement
			require.NoError(t, json.Unmarshal([]byte(tt.json), &m), "coercion never errors")
			if tt.want == nil {
				assert.Nil(t, m.Value, "uncoercible value reads as absent")
				return
			}
			require.NotNil(t, m.Value)
			assert.InDelta(t, *tt.want, *m.Value, 1e-9)
		})
	}
}

func TestSampleRequestToSample(t *testing.T) {
	t.Run("alias field is canonicalized", func(t *testing.T) {
		var req SampleRequest
		require.NoError(t, json.Unmarshal([]byte(`{"ph": 7.8, "dissolvedOxygen": "6.5"}`), &req))

		sample := req.ToSample()
		require.NotNil(t, sample.DissolvedOxygen, "camelCase alias must populate the canonical field")
		assert.InDelta(t, 6.5, *sample.DissolvedOxygen, 1e-9)
	})

	t.Run("canonical field wins over alias", func(t *testing.T) {
		var req SampleRequest
		require.NoError(t, json.Unmarshal([]byte(`{"dissolved_oxygen": 5.0, "dissolvedOxygen": 9.0}`), &req))

		sample := req.ToSample()
		require.NotNil(t, sample.DissolvedOxygen)
		assert.InDelta(t, 5.0, *sample.DissolvedOxygen, 1e-9)
	})

	t.Run("defaults applied", func(t *testing.T) {
		req := SampleRequest{}
		sample := req.ToSample()

		assert.Equal(t, "unknown", sample.Location)
		assert.Equal(t, "{}", sample.Meta)
		assert.True(t, sample.RecordedAt.IsZero(), "timestamp defaulting is the store's job")
	})
}

func TestCreateSample(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	var saved *datastore.Sample
	mockDS.On("SaveSample", mock.AnythingOfType("*datastore.Sample")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*datastore.Sample)
			saved.ID = 7
		}).
		Return(nil)

	body := `{"id": 999, "location": "reef-3", "ph": "7.9", "temperature": 28.4, "dissolvedOxygen": 6.1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v2/samples", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, controller.CreateSample(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, saved)
	assert.Equal(t, "reef-3", saved.Location)
	require.NotNil(t, saved.PH, "string pH must be coerced")
	assert.InDelta(t, 7.9, *saved.PH, 1e-9)
	require.NotNil(t, saved.DissolvedOxygen, "alias field must be stored")
	assert.InDelta(t, 6.1, *saved.DissolvedOxygen, 1e-9)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])

	stored, ok := response["stored"].(map[string]any)
	require.True(t, ok, "stored should be an object")
	assert.InDelta(t, 7, stored["id"], 0, "client-supplied IDs are ignored, the store assigns them")
}

func TestCreateSample_StoreFailure(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("SaveSample", mock.Anything).Return(errors.NewStd("insert failed"))

	req := httptest.NewRequest(http.MethodPost, "/api/v2/samples", strings.NewReader(`{"ph": 7.0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, controller.CreateSample(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to store sample", resp.Message)
}

func TestGetLatestSamples(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		e, mockDS, controller := setupTestEnvironment(t)
		mockDS.On("GetLatestSamples", defaultLatestLimit).Return([]datastore.Sample{{ID: 1}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v2/samples/latest", http.NoBody)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, controller.GetLatestSamples(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockDS.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		e, mockDS, controller := setupTestEnvironment(t)
		mockDS.On("GetLatestSamples", 5).Return([]datastore.Sample{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v2/samples/latest?limit=5", http.NoBody)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, controller.GetLatestSamples(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockDS.AssertExpectations(t)
	})

	t.Run("oversized limit is clamped", func(t *testing.T) {
		e, mockDS, controller := setupTestEnvironment(t)
		mockDS.On("GetLatestSamples", maxLatestLimit).Return([]datastore.Sample{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v2/samples/latest?limit=99999", http.NoBody)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, controller.GetLatestSamples(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockDS.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		e, mockDS, controller := setupTestEnvironment(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v2/samples/latest?limit=-3", http.NoBody)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, controller.GetLatestSamples(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockDS.AssertNotCalled(t, "GetLatestSamples", mock.Anything)
	})
}

func floatPtr(v float64) *float64 { return &v }
