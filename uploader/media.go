// Package uploader sends locally selected images and videos to the media
// service and copies the resulting public URLs into the form.
package uploader

import (
	"context"
	"errors"

	"linkedin_post_automation/form"
	"linkedin_post_automation/remote"
)

// MediaConfig locates the media service endpoints.
type MediaConfig struct {
	ImageURL   string
	ImageField string
	VideoURL   string
	VideoField string
}

type uploadResp struct {
	URL string `json:"url"`
}

// MediaService uploads one file per request.
type MediaService struct {
	client *remote.Client
	cfg    MediaConfig
}

func NewMediaService(client *remote.Client, cfg MediaConfig) (*MediaService, error) {
	if client == nil {
		return nil, errors.New("remote client is required")
	}
	if cfg.ImageURL == "" || cfg.VideoURL == "" {
		return nil, errors.New("image and video upload endpoints are required")
	}
	if cfg.ImageField == "" {
		cfg.ImageField = "file"
	}
	if cfg.VideoField == "" {
		cfg.VideoField = "video"
	}
	return &MediaService{client: client, cfg: cfg}, nil
}

// UploadImage returns the public URL of an uploaded image.
func (m *MediaService) UploadImage(ctx context.Context, f form.File) (string, error) {
	return m.upload(ctx, m.cfg.ImageURL, m.cfg.ImageField, f, "image upload failed")
}

// UploadVideo returns the public URL of an uploaded video.
func (m *MediaService) UploadVideo(ctx context.Context, f form.File) (string, error) {
	return m.upload(ctx, m.cfg.VideoURL, m.cfg.VideoField, f, "video upload failed")
}

func (m *MediaService) upload(ctx context.Context, endpoint, field string, f form.File, fallback string) (string, error) {
	var resp uploadResp
	if _, err := m.client.PostFile(ctx, endpoint, field, f, &resp); err != nil {
		return "", serviceMessage(err, fallback)
	}
	if resp.URL == "" {
		return "", &remote.ShapeError{Err: errors.New("response has no url")}
	}
	return resp.URL, nil
}

// serviceMessage keeps the message a failing media service sent back, so it
// can be shown verbatim, and falls back to a generic one when it sent none.
func serviceMessage(err error, fallback string) error {
	var se *remote.StatusError
	if errors.As(err, &se) && se.Detail == "" {
		return &remote.StatusError{StatusCode: se.StatusCode, Detail: fallback}
	}
	return err
}

// ServiceDetail returns the message the media service attached to err, if any.
func ServiceDetail(err error) string {
	var se *remote.StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return err.Error()
}
