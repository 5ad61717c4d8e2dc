package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM answers locally without calling a model, for offline runs.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString("Draft post\n\n")
	sb.WriteString(prompt.User)
	body, err := json.Marshal(map[string]string{"content": sb.String()})
	if err != nil {
		return "", err
	}
	return "```json\n" + string(body) + "\n```", nil
}
