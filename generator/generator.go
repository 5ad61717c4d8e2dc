// Package generator turns the generation fields of a form into post text by
// calling a content-generation service.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"linkedin_post_automation/form"
)

// Generator is the content-generation step of a page. It reads its inputs
// from the shared store and writes the result back to post_content.
type Generator struct {
	svc    Service
	store  *form.Store
	logger *zap.Logger

	busy atomic.Bool

	mu        sync.Mutex
	generated string
}

func NewGenerator(svc Service, store *form.Store, logger *zap.Logger) (*Generator, error) {
	if svc == nil {
		return nil, errors.New("generation service is required")
	}
	if store == nil {
		return nil, errors.New("form store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{svc: svc, store: store, logger: logger}, nil
}

// Validate checks the generation fields for contentType. The order matches
// what the user sees first: word limit, then blanks, then the URL.
func Validate(snap form.Snapshot, contentType form.ContentType) error {
	if snap.WordLimit < form.MinWordLimit || snap.WordLimit > form.MaxWordLimit {
		return form.Invalid(form.FieldWordLimit,
			fmt.Sprintf("please enter a valid word limit between %d and %d", form.MinWordLimit, form.MaxWordLimit))
	}
	required := []struct{ field, value string }{
		{form.FieldTopic, snap.Topic},
		{form.FieldDescription, snap.Description},
		{form.FieldTone, snap.Tone},
		{form.FieldAudience, snap.Audience},
		{form.FieldIntent, snap.Intent},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return form.Invalid(r.field,
				fmt.Sprintf("please fill in all content generation fields (%s is missing)", r.field))
		}
	}
	if !form.Contains(form.Tones, snap.Tone) {
		return form.Invalid(form.FieldTone, fmt.Sprintf("unsupported tone %q", snap.Tone))
	}
	if !form.Contains(form.Intents, snap.Intent) {
		return form.Invalid(form.FieldIntent, fmt.Sprintf("unsupported intent %q", snap.Intent))
	}
	if contentType.NeedsURL() && strings.TrimSpace(snap.URL) == "" {
		return form.Invalid(form.FieldURL, "please provide a URL for this content type")
	}
	return nil
}

// BuildRequest assembles the service request. url is only sent for the
// types that need it.
func BuildRequest(snap form.Snapshot, contentType form.ContentType) Request {
	req := Request{
		Topic:       snap.Topic,
		Description: snap.Description,
		Tone:        snap.Tone,
		Audience:    snap.Audience,
		Intent:      snap.Intent,
		WordLimit:   snap.WordLimit,
		Type:        string(contentType),
	}
	if contentType.NeedsURL() {
		req.URL = snap.URL
	}
	return req
}

// Generate validates the form, asks the service for a post and stores the
// extracted text in post_content. post_content is cleared before the call
// and on every failure.
func (g *Generator) Generate(ctx context.Context, contentType form.ContentType) (string, error) {
	snap := g.store.Snapshot()
	if err := Validate(snap, contentType); err != nil {
		return "", err
	}
	if !g.busy.CompareAndSwap(false, true) {
		return "", form.ErrBusy
	}
	defer g.busy.Store(false)

	g.setGenerated("")
	g.store.Set(form.FieldPostContent, "")

	req := BuildRequest(snap, contentType)
	g.logger.Info("generating content",
		zap.String("type", req.Type),
		zap.String("topic", req.Topic),
		zap.Int("word_limit", req.WordLimit))

	resp, err := g.svc.Generate(ctx, req)
	if err != nil {
		g.store.Set(form.FieldPostContent, "")
		g.logger.Warn("generation failed", zap.String("type", req.Type), zap.Error(err))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	content := ContentFromResponse(resp)
	g.setGenerated(content)
	g.store.Set(form.FieldPostContent, content)
	g.logger.Debug("content generated", zap.Int("chars", len(content)))
	return content, nil
}

// Busy reports whether a generation is in flight.
func (g *Generator) Busy() bool { return g.busy.Load() }

// Generated is the text of the last successful generation, kept for display.
func (g *Generator) Generated() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generated
}

func (g *Generator) setGenerated(s string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generated = s
}
