package llm

import "fmt"

const defaultDeepSeekBaseURL = "https://api.deepseek.com"

// NewDeepSeekProvider creates a provider targeting the DeepSeek chat API.
// DeepSeek accepts OpenAI-format requests but only supports JSON object
// output, so structured requests run in json_object mode.
func NewDeepSeekProvider(cfg DeepSeekConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}

	p, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   model,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}
	p.jsonObjectMode = true
	return p, nil
}
