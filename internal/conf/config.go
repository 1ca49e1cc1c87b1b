// Package conf loads and validates application configuration.
package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LogConfig holds log file settings shared by services.
type LogConfig struct {
	Enabled bool   // true to enable file logging
	Path    string // path to log file
}

// OracleConfig holds settings for the external AI completion provider.
type OracleConfig struct {
	Provider    string        // completion provider, "perplexity" is currently the only implementation
	Endpoint    string        // chat completions endpoint URL
	APIKey      string        // bearer token for the provider
	Model       string        // default model identifier, used when the provider response omits one
	MaxTokens   int           // output length hint passed to the provider
	QuotaPerDay int           // maximum successful completions per provider per UTC day
	SummaryCap  int           // stored summary is truncated to this many characters
	Timeout     time.Duration // hard timeout for one completion call
}

// CameraConfig holds camera event aggregation settings.
type CameraConfig struct {
	WindowHours int // default look-back window for event summaries
	RecentLimit int // maximum recent events returned with a summary
}

// Settings contains all runtime configuration.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version string `yaml:"-"` // Version from build

	Main struct {
		Name string    // name of this MarineWatch node
		Log  LogConfig // logging configuration
	}

	WebServer struct {
		Enabled bool      // true to enable web server
		Port    string    // port for web server
		Log     LogConfig // logging configuration for web server
	}

	Oracle OracleConfig // AI completion provider configuration

	Camera CameraConfig // camera event aggregation configuration

	Output struct {
		SQLite struct {
			Enabled bool   // true to enable sqlite output
			Path    string // path to sqlite database
		}

		MySQL struct {
			Enabled  bool   // true to enable mysql output
			Username string // username for mysql database
			Password string // password for mysql database
			Database string // database name for mysql database
			Host     string // host for mysql database
			Port     string // port for mysql database
		}
	}
}

// Load reads the configuration into a Settings struct.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// initViper sets up viper with config file locations and defaults.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	viper.SetEnvPrefix("MARINEWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errorsAs(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Missing config file is fine, defaults and env vars apply.
	}

	return nil
}
