// Package compose assembles the pieces of one composing session: the shared
// form, the content generator, the media uploaders and the per-type pages
// that validate and publish a post.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"linkedin_post_automation/form"
	"linkedin_post_automation/generator"
	"linkedin_post_automation/linkpreview"
	"linkedin_post_automation/publisher"
	"linkedin_post_automation/uploader"
)

// Success messages shown after each action.
const (
	MsgGenerated      = "Content generation successful!"
	MsgImagesUploaded = "Images uploaded successfully!"
	MsgVideoUploaded  = "Video uploaded successfully!"
	MsgPreviewed      = "Link preview loaded."
	MsgPublished      = "Post published to LinkedIn successfully!"
)

// Poster publishes an assembled post.
type Poster interface {
	Publish(ctx context.Context, post publisher.Post) error
}

// Previewer loads link previews.
type Previewer interface {
	Fetch(ctx context.Context, rawURL string) (*linkpreview.Preview, error)
}

// MediaService uploads images and videos.
type MediaService interface {
	uploader.ImageService
	uploader.VideoService
}

// Deps are the services shared by every workspace.
type Deps struct {
	Generation generator.Service
	Media      MediaService
	Publisher  Poster
	Previewer  Previewer
	Logger     *zap.Logger
}

// Workspace is one navigation session.
type Workspace struct {
	Store     *form.Store
	Generator *generator.Generator
	Images    *uploader.ImageUploader
	Video     *uploader.VideoUploader

	publisher Poster
	previewer Previewer
	logger    *zap.Logger

	submitting atomic.Bool
}

// NewWorkspace creates a workspace with an empty form.
func NewWorkspace(d Deps) (*Workspace, error) {
	if d.Publisher == nil {
		return nil, errors.New("publisher is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := form.NewStore()
	gen, err := generator.NewGenerator(d.Generation, store, logger.Named("generator"))
	if err != nil {
		return nil, err
	}
	images, err := uploader.NewImageUploader(d.Media, store, logger.Named("images"))
	if err != nil {
		return nil, err
	}
	video, err := uploader.NewVideoUploader(d.Media, store, logger.Named("video"))
	if err != nil {
		return nil, err
	}
	return &Workspace{
		Store:     store,
		Generator: gen,
		Images:    images,
		Video:     video,
		publisher: d.Publisher,
		previewer: d.Previewer,
		logger:    logger,
	}, nil
}

// ApplyField records a field edit made on the page for ct. On the URL page
// the shared link is mirrored into url so generation can use it.
func (w *Workspace) ApplyField(ct form.ContentType, c form.Change) {
	if c.Field == form.FieldPostVisibility {
		s, _ := c.Value.(string)
		SelectVisibility(w.Store, s)
		return
	}
	w.Store.Apply(c)
	if ct == form.ContentURL && c.Field == form.FieldPostURL {
		w.Store.Apply(form.Change{Field: form.FieldURL, Value: c.Value})
	}
}

// Generate runs the content generator for ct.
func (w *Workspace) Generate(ctx context.Context, ct form.ContentType) (string, error) {
	return w.Generator.Generate(ctx, ct)
}

// Preview loads the link in url and fills topic and description when they
// are still empty.
func (w *Workspace) Preview(ctx context.Context) (*linkpreview.Preview, error) {
	if w.previewer == nil {
		return nil, errors.New("link preview is not available")
	}
	snap := w.Store.Snapshot()
	link := sharedURL(snap)
	if blank(link) {
		return nil, form.Invalid(form.FieldURL, "please provide a URL to preview")
	}
	p, err := w.previewer.Fetch(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to load link preview: %w", err)
	}
	if blank(snap.Topic) && p.Title != "" {
		w.Store.Set(form.FieldTopic, p.Title)
	}
	if blank(snap.Description) && p.Description != "" {
		w.Store.Set(form.FieldDescription, p.Description)
	}
	return p, nil
}

// Submit validates the page for ct and publishes the post in a single
// request. Nothing is retried.
func (w *Workspace) Submit(ctx context.Context, ct form.ContentType) error {
	page, ok := PageFor(ct)
	if !ok {
		return fmt.Errorf("unknown content type %q", ct)
	}
	snap := w.Store.Snapshot()
	if err := page.Validate(snap); err != nil {
		return err
	}
	if !w.submitting.CompareAndSwap(false, true) {
		return form.ErrBusy
	}
	defer w.submitting.Store(false)

	if err := w.publisher.Publish(ctx, page.Post(snap)); err != nil {
		w.logger.Warn("submit failed", zap.String("type", string(ct)), zap.Error(err))
		return fmt.Errorf("failed to post content: %w", err)
	}
	return nil
}

// Submitting reports whether a submit is in flight.
func (w *Workspace) Submitting() bool { return w.submitting.Load() }

// Result is the in-page outcome of an action.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Outcome converts an action's error into the message shown to the user.
func Outcome(success string, err error) Result {
	if err == nil {
		return Result{OK: true, Message: success}
	}
	r := Result{Message: sentence(err.Error())}
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		r.Field = ve.Field
	}
	return r
}

// sentence capitalizes the first letter of an error message for display.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	out := string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "!") {
		out += "."
	}
	return out
}
