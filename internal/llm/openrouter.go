package llm

import (
	"cmp"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "deepseek/deepseek-chat"
	defaultOpenRouterTitle   = "drill"
	openRouterReferer        = "https://github.com/abhisek/drillsergeant"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Every
// request carries the HTTP-Referer and X-Title headers OpenRouter uses for
// app attribution.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// Model IDs are "vendor/model" and pass through unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cmp.Or(cfg.BaseURL, defaultOpenRouterBaseURL)
	config.HTTPClient = &http.Client{Transport: &attributionTransport{
		base:    http.DefaultTransport,
		referer: openRouterReferer,
		title:   cmp.Or(cfg.AppTitle, defaultOpenRouterTitle),
	}}

	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cmp.Or(cfg.Model, defaultOpenRouterModel),
	}}, nil
}

type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", t.referer)
	req.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(req)
}
