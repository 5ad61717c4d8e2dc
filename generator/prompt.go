package generator

import (
	"fmt"
	"strings"
)

// Prompt is the set of messages sent to an LLM.
type Prompt struct {
	System string
	User   string
	// MaxTokens caps the answer; zero leaves it to the model.
	MaxTokens int64
}

// BuildPrompt turns a generation request into a prompt whose answer uses the
// same fenced JSON shape as the remote generation service.
func BuildPrompt(req Request) Prompt {
	var sb strings.Builder
	sb.WriteString("You write LinkedIn posts.\n")
	sb.WriteString("Requirements:\n")
	if req.WordLimit > 0 {
		sb.WriteString(fmt.Sprintf("- At most %d words.\n", req.WordLimit))
	}
	if req.Tone != "" {
		sb.WriteString(fmt.Sprintf("- Tone: %s.\n", req.Tone))
	}
	if req.Audience != "" {
		sb.WriteString(fmt.Sprintf("- Audience: %s.\n", req.Audience))
	}
	if req.Intent != "" {
		sb.WriteString(fmt.Sprintf("- Goal: %s the reader.\n", req.Intent))
	}
	switch req.Type {
	case "url":
		sb.WriteString(fmt.Sprintf("- The post shares this link: %s\n", req.URL))
	case "image":
		sb.WriteString(fmt.Sprintf("- The post is published with an image: %s\n", req.URL))
	case "video":
		sb.WriteString(fmt.Sprintf("- The post is published with a video: %s\n", req.URL))
	}
	sb.WriteString("- Answer with a single ```json fenced block holding {\"content\": \"<post text>\"} and nothing else.\n")

	user := fmt.Sprintf("Topic: %s\nDescription: %s", req.Topic, req.Description)

	p := Prompt{System: sb.String(), User: user}
	if req.WordLimit > 0 {
		// Roughly two tokens per word plus the JSON wrapper.
		p.MaxTokens = int64(req.WordLimit)*2 + 64
	}
	return p
}
