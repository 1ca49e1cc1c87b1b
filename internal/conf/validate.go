package conf

import (
	"fmt"

	"github.com/marinewatch/marinewatch-go/internal/errors"
)

// Validate checks the loaded settings for values that would make the
// service unable to start or behave incorrectly at runtime.
func (s *Settings) Validate() error {
	if s.Oracle.QuotaPerDay < 0 {
		return errors.Newf("oracle.quotaperday must not be negative, got %d", s.Oracle.QuotaPerDay).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if s.Oracle.MaxTokens <= 0 {
		return errors.Newf("oracle.maxtokens must be positive, got %d", s.Oracle.MaxTokens).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if s.Oracle.SummaryCap <= 0 {
		return errors.Newf("oracle.summarycap must be positive, got %d", s.Oracle.SummaryCap).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if s.Camera.WindowHours <= 0 {
		return errors.Newf("camera.windowhours must be positive, got %d", s.Camera.WindowHours).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if !s.Output.SQLite.Enabled && !s.Output.MySQL.Enabled {
		return errors.New(fmt.Errorf("no database output enabled, enable output.sqlite or output.mysql")).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if s.Output.SQLite.Enabled && s.Output.MySQL.Enabled {
		return errors.New(fmt.Errorf("only one database output may be enabled at a time")).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return nil
}
