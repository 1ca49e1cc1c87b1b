package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/errors"
	"github.com/marinewatch/marinewatch-go/internal/httpclient"
)

// maxDiagnosticBody bounds how much of an error response body is carried
// in error context.
const maxDiagnosticBody = 2000

// perplexityRequest is the chat-completions request envelope.
type perplexityRequest struct {
	Model     string              `json:"model"`
	Messages  []perplexityMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// perplexityResponse represents the structure of the chat-completions
// response. Only the fields used for text extraction are declared.
type perplexityResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// PerplexityProvider implements Provider against the Perplexity
// chat-completions API.
type PerplexityProvider struct {
	endpoint     string
	apiKey       string
	defaultModel string
	client       *httpclient.Client
}

// NewPerplexityProvider creates a Perplexity-backed completion provider.
func NewPerplexityProvider(settings *conf.Settings, client *httpclient.Client) *PerplexityProvider {
	return &PerplexityProvider{
		endpoint:     settings.Oracle.Endpoint,
		apiKey:       settings.Oracle.APIKey,
		defaultModel: settings.Oracle.Model,
		client:       client,
	}
}

// Name implements the Provider interface.
func (p *PerplexityProvider) Name() string {
	return "perplexity"
}

// Complete implements the Provider interface for PerplexityProvider.
func (p *PerplexityProvider) Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error) {
	if p.apiKey == "" {
		return nil, errors.New(fmt.Errorf("perplexity API key not configured")).
			Component("oracle").
			Category(errors.CategoryConfiguration).
			Build()
	}

	payload := perplexityRequest{
		Model:     p.defaultModel,
		Messages:  []perplexityMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New(fmt.Errorf("error marshaling completion request: %w", err)).
			Component("oracle").
			Category(errors.CategoryOracle).
			Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(fmt.Errorf("error creating completion request: %w", err)).
			Component("oracle").
			Category(errors.CategoryOracle).
			Build()
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, errors.New(fmt.Errorf("error calling completion endpoint: %w", err)).
			Component("oracle").
			Category(errors.CategoryOracle).
			NetworkContext(p.endpoint, 0).
			Context("provider", p.Name()).
			Build()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(fmt.Errorf("error reading completion response: %w", err)).
			Component("oracle").
			Category(errors.CategoryOracle).
			Context("provider", p.Name()).
			Build()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)).
			Component("oracle").
			Category(errors.CategoryOracle).
			Context("provider", p.Name()).
			Context("status", resp.StatusCode).
			Context("body", truncate(string(raw), maxDiagnosticBody)).
			Build()
	}

	return p.extract(raw), nil
}

// extract pulls the assessment text out of a successful response.
// Extraction rules, in order: choices[0].message.content, then
// choices[0].text, then the verbatim raw body. A 200 response whose body
// fails to parse as the expected envelope still yields usable text.
func (p *PerplexityProvider) extract(raw []byte) *Completion {
	completion := &Completion{
		Provider: p.Name(),
		Model:    p.defaultModel,
		Raw:      string(raw),
	}

	var parsed perplexityResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		completion.Text = string(raw)
		return completion
	}

	if parsed.Model != "" {
		completion.Model = parsed.Model
	}

	switch {
	case len(parsed.Choices) > 0 && parsed.Choices[0].Message.Content != "":
		completion.Text = parsed.Choices[0].Message.Content
	case len(parsed.Choices) > 0 && parsed.Choices[0].Text != "":
		completion.Text = parsed.Choices[0].Text
	default:
		completion.Text = string(raw)
	}

	return completion
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
