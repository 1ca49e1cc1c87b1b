package conf

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// errorsAs is a small indirection so config.go does not import errors twice.
func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

// setDefaultConfig registers default values for all recognized options.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "MarineWatch")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/marinewatch.log")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "logs/webserver.log")

	viper.SetDefault("oracle.provider", "perplexity")
	viper.SetDefault("oracle.endpoint", "https://api.perplexity.ai/chat/completions")
	viper.SetDefault("oracle.apikey", "")
	viper.SetDefault("oracle.model", "sonar")
	viper.SetDefault("oracle.maxtokens", 250)
	viper.SetDefault("oracle.quotaperday", 10)
	viper.SetDefault("oracle.summarycap", 4000)
	viper.SetDefault("oracle.timeout", 30*time.Second)

	viper.SetDefault("camera.windowhours", 24)
	viper.SetDefault("camera.recentlimit", 20)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "marinewatch.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "marinewatch")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "marinewatch")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
}

// GetDefaultConfigPaths returns the list of directories searched for config.yaml.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory only
		return []string{"."}, nil
	}

	return []string{
		".",
		filepath.Join(homeDir, ".config", "marinewatch"),
		"/etc/marinewatch",
	}, nil
}
