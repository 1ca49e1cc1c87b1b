// Package oracle integrates external AI text-completion providers.
package oracle

import (
	"context"
	"fmt"

	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/errors"
	"github.com/marinewatch/marinewatch-go/internal/httpclient"
)

// Completion is the provider-independent result of one completion call.
type Completion struct {
	Provider string // provider name, e.g. "perplexity"
	Model    string // model reported by the provider, else the configured default
	Text     string // extracted assessment text
	Raw      string // verbatim response body, kept for audit
}

// Provider converts a text prompt into natural-language output.
//
// A call either succeeds with usable text or fails; providers never
// retry silently. A transport error, non-success status, or timeout is a
// hard failure carrying the raw status and body for diagnostics.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error)
}

// NewProvider selects a completion provider based on configuration.
func NewProvider(settings *conf.Settings, client *httpclient.Client) (Provider, error) {
	switch settings.Oracle.Provider {
	case "perplexity":
		return NewPerplexityProvider(settings, client), nil
	default:
		return nil, errors.New(fmt.Errorf("invalid completion provider: %s", settings.Oracle.Provider)).
			Component("oracle").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Oracle.Provider).
			Build()
	}
}
