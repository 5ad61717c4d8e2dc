// Package remote talks to the generation, media and publishing services and
// classifies their failures.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"linkedin_post_automation/form"
)

const maxErrorBody = 64 * 1024

// Client wraps an http.Client with JSON and multipart helpers.
type Client struct {
	http   *http.Client
	apiKey string
	logger *zap.Logger
}

// NewClient returns a Client. A nil httpClient gets a 60s timeout client.
func NewClient(httpClient *http.Client, apiKey string, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: httpClient, apiKey: apiKey, logger: logger}
}

// PostJSON sends in as JSON to url. Any 2xx is accepted; the status code is
// returned either way. When out is non-nil the body is decoded into it.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) (int, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, &RequestError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// PostFile uploads f as a multipart form under field.
func (c *Client) PostFile(ctx context.Context, url, field string, f form.File, out any) (int, error) {
	src, err := f.Open()
	if err != nil {
		return 0, &RequestError{Err: err}
	}
	defer src.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, f.Name())
	if err != nil {
		return 0, &RequestError{Err: err}
	}
	if _, err := io.Copy(part, src); err != nil {
		return 0, &RequestError{Err: err}
	}
	if err := writer.Close(); err != nil {
		return 0, &RequestError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return 0, &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (int, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return 0, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Detail: ErrorDetail(raw)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &ShapeError{Err: err}
	}
	return resp.StatusCode, nil
}

// ErrorDetail pulls a human readable message out of an error body. It looks
// at "detail" then "message"; non-string details are re-encoded as JSON.
func ErrorDetail(raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		v, ok := body[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		if string(v) != "null" {
			return string(v)
		}
	}
	return ""
}
