package generator

import (
	"context"
	"errors"
)

// Service produces a post for a generation request.
type Service interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// LLMClient abstracts a chat model so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration for concrete LLM clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// LLMService answers generation requests by prompting a model directly
// instead of calling the remote generation service.
type LLMService struct {
	llm LLMClient
}

func NewLLMService(llm LLMClient) (*LLMService, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &LLMService{llm: llm}, nil
}

func (s *LLMService) Generate(ctx context.Context, req Request) (Response, error) {
	raw, err := s.llm.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return Response{}, err
	}
	return Response{Post: &raw}, nil
}
