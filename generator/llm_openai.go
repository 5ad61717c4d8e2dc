package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"linkedin_post_automation/remote"
)

// OpenAILLM completes prompts through the chat completions API of OpenAI or
// any OpenAI-compatible provider such as DeepSeek.
type OpenAILLM struct {
	provider string
	model    string
	client   openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s api key missing; provide generator.llm.api_key", providerName(cfg.Provider))
	}
	if cfg.Model == "" {
		return nil, errors.New("generator.llm.model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{
		provider: providerName(cfg.Provider),
		model:    cfg.Model,
		client:   openai.NewClient(opts...),
	}, nil
}

func providerName(p string) string {
	if p == "" {
		return "openai"
	}
	return p
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if prompt.MaxTokens > 0 {
		params.MaxTokens = openai.Int(prompt.MaxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &remote.StatusError{StatusCode: apiErr.StatusCode, Detail: apiErr.Message}
		}
		return "", &remote.NetworkError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &remote.ShapeError{Err: fmt.Errorf("%s returned no choices", o.provider)}
	}
	return resp.Choices[0].Message.Content, nil
}
