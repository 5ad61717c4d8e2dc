package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"linkedin_post_automation/form"
	"linkedin_post_automation/remote"
)

// Endpoints holds one publishing URL per content type.
type Endpoints struct {
	Text  string
	URL   string
	Image string
	Video string
}

// EndpointsFromBase derives the standard endpoint paths from the service
// base URL.
func EndpointsFromBase(base string) Endpoints {
	base = strings.TrimRight(base, "/")
	return Endpoints{
		Text:  base + "/post_linkedin_text_content",
		URL:   base + "/post_linkedin_url_content",
		Image: base + "/post_linkedin_image_content",
		Video: base + "/post_linkedin_video_content",
	}
}

func (e Endpoints) forType(ct form.ContentType) (string, error) {
	var u string
	switch ct {
	case form.ContentText:
		u = e.Text
	case form.ContentURL:
		u = e.URL
	case form.ContentImage:
		u = e.Image
	case form.ContentVideo:
		u = e.Video
	default:
		return "", fmt.Errorf("unknown content type %q", ct)
	}
	if u == "" {
		return "", fmt.Errorf("no publishing endpoint configured for %s posts", ct)
	}
	return u, nil
}

// Post is an assembled post ready to publish.
type Post struct {
	Type        form.ContentType
	Content     string
	Visibility  string
	URL         string
	Title       string
	Description string
	Images      []string
	Video       string
}

type textPayload struct {
	PostContent    string `json:"post_content"`
	PostVisibility string `json:"post_visibility"`
}

type urlPayload struct {
	PostContent    string `json:"post_content"`
	PostURL        string `json:"post_url"`
	PostTitle      string `json:"post_title"`
	PostVisibility string `json:"post_visibility"`
}

type imagePayload struct {
	PostContent    string   `json:"post_content"`
	PostImage      []string `json:"post_image"`
	PostVisibility string   `json:"post_visibility"`
}

type videoPayload struct {
	PostContent     string `json:"post_content"`
	PostVideo       string `json:"post_video"`
	PostVisibility  string `json:"post_visibility"`
	PostTitle       string `json:"post_title,omitempty"`
	PostDescription string `json:"post_description,omitempty"`
}

// Payload returns the wire body for p.
func Payload(p Post) (any, error) {
	switch p.Type {
	case form.ContentText:
		return textPayload{PostContent: p.Content, PostVisibility: p.Visibility}, nil
	case form.ContentURL:
		return urlPayload{PostContent: p.Content, PostURL: p.URL, PostTitle: p.Title, PostVisibility: p.Visibility}, nil
	case form.ContentImage:
		return imagePayload{PostContent: p.Content, PostImage: p.Images, PostVisibility: p.Visibility}, nil
	case form.ContentVideo:
		return videoPayload{
			PostContent:     p.Content,
			PostVideo:       p.Video,
			PostVisibility:  p.Visibility,
			PostTitle:       p.Title,
			PostDescription: p.Description,
		}, nil
	default:
		return nil, fmt.Errorf("unknown content type %q", p.Type)
	}
}

// BuildPayload returns the exact body Publish sends for p. With plainText
// set, markdown in the content is flattened first.
func BuildPayload(p Post, plainText bool) (any, error) {
	if plainText {
		text, err := PlainText(p.Content)
		if err != nil {
			return nil, err
		}
		p.Content = text
	}
	return Payload(p)
}

// Publisher submits assembled posts to the LinkedIn publishing service.
type Publisher struct {
	client    *remote.Client
	endpoints Endpoints
	plainText bool
	logger    *zap.Logger
}

// New creates a Publisher. With plainText set, markdown in post content is
// flattened to LinkedIn-friendly text before sending.
func New(client *remote.Client, endpoints Endpoints, plainText bool, logger *zap.Logger) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("remote client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, endpoints: endpoints, plainText: plainText, logger: logger}, nil
}

// Publish sends p in exactly one request. Only HTTP 200 counts as success.
func (p *Publisher) Publish(ctx context.Context, post Post) error {
	endpoint, err := p.endpoints.forType(post.Type)
	if err != nil {
		return &remote.RequestError{Err: err}
	}
	body, err := BuildPayload(post, p.plainText)
	if err != nil {
		return &remote.RequestError{Err: err}
	}

	p.logger.Info("publishing post",
		zap.String("type", string(post.Type)),
		zap.String("visibility", post.Visibility))

	code, err := p.client.PostJSON(ctx, endpoint, body, nil)
	if err != nil {
		p.logger.Warn("publish failed", zap.String("type", string(post.Type)), zap.Error(err))
		return err
	}
	if code != http.StatusOK {
		return &remote.StatusError{StatusCode: code, Detail: "unexpected status"}
	}
	p.logger.Info("post published", zap.String("type", string(post.Type)))
	return nil
}
