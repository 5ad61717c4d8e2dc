package uploader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"linkedin_post_automation/form"
)

// VideoService uploads one video.
type VideoService interface {
	UploadVideo(ctx context.Context, f form.File) (string, error)
}

// VideoUploader stages a single video and uploads it on confirmation.
type VideoUploader struct {
	media  VideoService
	store  *form.Store
	logger *zap.Logger

	busy atomic.Bool

	mu      sync.Mutex
	url     string
	lastErr string
}

func NewVideoUploader(media VideoService, store *form.Store, logger *zap.Logger) (*VideoUploader, error) {
	if media == nil {
		return nil, errors.New("video service is required")
	}
	if store == nil {
		return nil, errors.New("form store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoUploader{media: media, store: store, logger: logger}, nil
}

// Select stages f, or clears the selection when f is nil.
func (u *VideoUploader) Select(f form.File) error {
	u.setResult("", "")
	if f == nil {
		u.store.Set(form.FieldPostVideo, nil)
		return nil
	}
	if form.MediaKind(f) != "video" {
		u.store.Set(form.FieldPostVideo, nil)
		return form.Invalid(form.FieldPostVideo, fmt.Sprintf("%s is not a video", f.Name()))
	}
	u.store.Set(form.FieldPostVideo, f)
	return nil
}

// ConfirmAndUpload uploads the staged video. On success video_url and url
// get the returned URL; on failure the previous URL is dropped.
func (u *VideoUploader) ConfirmAndUpload(ctx context.Context) (string, error) {
	f := u.store.Snapshot().PostVideo
	if f == nil {
		return "", form.Invalid(form.FieldPostVideo, "please select a video to upload first")
	}
	if !u.busy.CompareAndSwap(false, true) {
		return "", form.ErrBusy
	}
	defer u.busy.Store(false)

	u.logger.Info("uploading video", zap.String("file", f.Name()))
	url, err := u.media.UploadVideo(ctx, f)
	if err != nil {
		ferr := &FileError{Name: f.Name(), Err: err}
		u.setResult("", ferr.Error())
		u.store.Set(form.FieldVideoURL, nil)
		u.logger.Warn("video upload failed", zap.String("file", f.Name()), zap.Error(err))
		return "", ferr
	}

	u.setResult(url, "")
	u.store.Set(form.FieldVideoURL, url)
	u.store.Set(form.FieldURL, url)
	u.logger.Info("video uploaded", zap.String("url", url))
	return url, nil
}

// URL returns the URL of the last successful upload.
func (u *VideoUploader) URL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.url
}

// LastError is the message of the last failed upload, or "".
func (u *VideoUploader) LastError() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// Busy reports whether an upload is in flight.
func (u *VideoUploader) Busy() bool { return u.busy.Load() }

func (u *VideoUploader) setResult(url, errMsg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.url = url
	u.lastErr = errMsg
}
