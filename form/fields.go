package form

import (
	"fmt"
	"strings"
)

// Field names shared by every page of a composing session.
const (
	FieldTopic           = "topic"
	FieldDescription     = "description"
	FieldTone            = "tone"
	FieldAudience        = "audience"
	FieldIntent          = "intent"
	FieldWordLimit       = "word_limit"
	FieldURL             = "url"
	FieldPostContent     = "post_content"
	FieldPostVisibility  = "post_visibility"
	FieldPostTitle       = "post_title"
	FieldPostURL         = "post_url"
	FieldPostDescription = "post_description"
	FieldPostImage       = "post_image"
	FieldPostVideo       = "post_video"
	FieldImageURLs       = "image_urls"
	FieldVideoURL        = "video_url"
)

// TextFields lists the fields that hold plain strings and can be edited
// directly from a form.
var TextFields = []string{
	FieldTopic,
	FieldDescription,
	FieldTone,
	FieldAudience,
	FieldIntent,
	FieldWordLimit,
	FieldURL,
	FieldPostContent,
	FieldPostVisibility,
	FieldPostTitle,
	FieldPostURL,
	FieldPostDescription,
}

// ContentType selects the fields and endpoints that apply to a post.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentURL   ContentType = "url"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
)

// ContentTypes in navigation order.
var ContentTypes = []ContentType{ContentText, ContentURL, ContentImage, ContentVideo}

// ParseContentType accepts any casing of a known content type.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	switch ct {
	case ContentText, ContentURL, ContentImage, ContentVideo:
		return ct, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// NeedsURL reports whether generation for this type requires the url field.
func (c ContentType) NeedsURL() bool {
	return c == ContentURL || c == ContentImage || c == ContentVideo
}

// Visibility is the LinkedIn audience scope of a post.
type Visibility string

const (
	VisibilityPublic      Visibility = "PUBLIC"
	VisibilityConnections Visibility = "CONNECTIONS"
)

// Valid reports whether v is one of the publishable scopes.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityConnections
}

// Tones accepted by the generation service.
var Tones = []string{"professional", "casual", "friendly", "formal", "humorous"}

// Intents accepted by the generation service.
var Intents = []string{"inform", "entertain", "persuade", "educate", "inspire"}

// Contains reports whether v is in list.
func Contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
