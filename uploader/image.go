package uploader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"linkedin_post_automation/form"
)

// MaxImages is the most images a single post can carry.
const MaxImages = 6

// ImageService uploads one image.
type ImageService interface {
	UploadImage(ctx context.Context, f form.File) (string, error)
}

// FileError attributes an upload failure to the file that caused it.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to upload %s: %s", e.Name, ServiceDetail(e.Err))
}

func (e *FileError) Unwrap() error { return e.Err }

// ImageUploader stages a batch of images and uploads it on confirmation.
type ImageUploader struct {
	media  ImageService
	store  *form.Store
	logger *zap.Logger
	max    int

	busy atomic.Bool

	mu      sync.Mutex
	urls    []string
	lastErr string
}

func NewImageUploader(media ImageService, store *form.Store, logger *zap.Logger) (*ImageUploader, error) {
	if media == nil {
		return nil, errors.New("image service is required")
	}
	if store == nil {
		return nil, errors.New("form store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageUploader{media: media, store: store, logger: logger, max: MaxImages}, nil
}

// Select stages files without uploading them. A selection over the limit or
// containing a non-image is rejected as a whole and clears the staged files.
func (u *ImageUploader) Select(files []form.File) error {
	u.reset()
	if len(files) > u.max {
		u.store.Set(form.FieldPostImage, []form.File{})
		return form.Invalid(form.FieldPostImage, fmt.Sprintf("you can upload a maximum of %d images", u.max))
	}
	for _, f := range files {
		if form.MediaKind(f) != "image" {
			u.store.Set(form.FieldPostImage, []form.File{})
			return form.Invalid(form.FieldPostImage, fmt.Sprintf("%s is not an image", f.Name()))
		}
	}
	u.store.Set(form.FieldPostImage, append([]form.File(nil), files...))
	return nil
}

// ConfirmAndUpload uploads every staged image concurrently. The batch
// succeeds only if every upload does; then image_urls gets the URLs in
// selection order and url gets the first one.
func (u *ImageUploader) ConfirmAndUpload(ctx context.Context) ([]string, error) {
	files := u.store.Snapshot().PostImage
	if len(files) == 0 {
		return nil, form.Invalid(form.FieldPostImage, "please select images to upload first")
	}
	if !u.busy.CompareAndSwap(false, true) {
		return nil, form.ErrBusy
	}
	defer u.busy.Store(false)

	u.setResult(nil, "")
	u.logger.Info("uploading images", zap.Strings("files", form.FileNames(files)))

	urls := make([]string, len(files))
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			url, err := u.media.UploadImage(ctx, f)
			if err != nil {
				u.logger.Warn("image upload failed", zap.String("file", f.Name()), zap.Error(err))
				return &FileError{Name: f.Name(), Err: err}
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.setResult(nil, err.Error())
		u.store.Set(form.FieldImageURLs, nil)
		return nil, err
	}

	u.setResult(urls, "")
	u.store.Set(form.FieldImageURLs, urls)
	u.store.Set(form.FieldURL, urls[0])
	u.logger.Info("images uploaded", zap.Int("count", len(urls)))
	return append([]string(nil), urls...), nil
}

// URLs returns the URLs of the last successful batch.
func (u *ImageUploader) URLs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.urls...)
}

// LastError is the message of the last failed batch, or "".
func (u *ImageUploader) LastError() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// Busy reports whether a batch is uploading.
func (u *ImageUploader) Busy() bool { return u.busy.Load() }

func (u *ImageUploader) reset() { u.setResult(nil, "") }

func (u *ImageUploader) setResult(urls []string, errMsg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.urls = urls
	u.lastErr = errMsg
}
