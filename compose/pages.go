package compose

import (
	"strings"

	"linkedin_post_automation/form"
	"linkedin_post_automation/publisher"
)

// Page is a content-type page: it knows which fields a post of its type
// needs and how to assemble it.
type Page interface {
	Type() form.ContentType
	Title() string
	Validate(snap form.Snapshot) error
	Post(snap form.Snapshot) publisher.Post
}

// PageFor returns the page for ct.
func PageFor(ct form.ContentType) (Page, bool) {
	switch ct {
	case form.ContentText:
		return TextPage{}, true
	case form.ContentURL:
		return URLPage{}, true
	case form.ContentImage:
		return ImagePage{}, true
	case form.ContentVideo:
		return VideoPage{}, true
	}
	return nil, false
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func requireContent(snap form.Snapshot) error {
	if blank(snap.PostContent) {
		return form.Invalid(form.FieldPostContent, "please generate or enter the post content")
	}
	return nil
}

func requireVisibility(snap form.Snapshot) error {
	if snap.PostVisibility == "" {
		return form.Invalid(form.FieldPostVisibility, "please select the post visibility")
	}
	if !form.Visibility(snap.PostVisibility).Valid() {
		return form.Invalid(form.FieldPostVisibility, "post visibility must be PUBLIC or CONNECTIONS")
	}
	return nil
}

// TextPage publishes text only.
type TextPage struct{}

func (TextPage) Type() form.ContentType { return form.ContentText }
func (TextPage) Title() string          { return "Text" }

func (TextPage) Validate(snap form.Snapshot) error {
	if err := requireContent(snap); err != nil {
		return err
	}
	return requireVisibility(snap)
}

func (TextPage) Post(snap form.Snapshot) publisher.Post {
	return publisher.Post{
		Type:       form.ContentText,
		Content:    snap.PostContent,
		Visibility: snap.PostVisibility,
	}
}

// URLPage shares a link. The generation topic doubles as the post title.
type URLPage struct{}

func (URLPage) Type() form.ContentType { return form.ContentURL }
func (URLPage) Title() string          { return "URL" }

func (URLPage) Validate(snap form.Snapshot) error {
	if err := requireContent(snap); err != nil {
		return err
	}
	if blank(sharedURL(snap)) {
		return form.Invalid(form.FieldPostURL, "please provide the URL to share")
	}
	if blank(snap.Topic) {
		return form.Invalid(form.FieldPostTitle, "please provide a topic, it is used as the post title")
	}
	return requireVisibility(snap)
}

func (URLPage) Post(snap form.Snapshot) publisher.Post {
	return publisher.Post{
		Type:       form.ContentURL,
		Content:    snap.PostContent,
		Visibility: snap.PostVisibility,
		URL:        sharedURL(snap),
		Title:      snap.Topic,
	}
}

func sharedURL(snap form.Snapshot) string {
	if snap.URL != "" {
		return snap.URL
	}
	return snap.PostURL
}

// ImagePage publishes uploaded images.
type ImagePage struct{}

func (ImagePage) Type() form.ContentType { return form.ContentImage }
func (ImagePage) Title() string          { return "Image" }

func (ImagePage) Validate(snap form.Snapshot) error {
	if err := requireContent(snap); err != nil {
		return err
	}
	if len(snap.ImageURLs) == 0 {
		return form.Invalid(form.FieldImageURLs, "please upload at least one image before posting")
	}
	return requireVisibility(snap)
}

func (ImagePage) Post(snap form.Snapshot) publisher.Post {
	return publisher.Post{
		Type:       form.ContentImage,
		Content:    snap.PostContent,
		Visibility: snap.PostVisibility,
		Images:     snap.ImageURLs,
	}
}

// VideoPage publishes one uploaded video, with optional title and
// description.
type VideoPage struct{}

func (VideoPage) Type() form.ContentType { return form.ContentVideo }
func (VideoPage) Title() string          { return "Video" }

func (VideoPage) Validate(snap form.Snapshot) error {
	if err := requireContent(snap); err != nil {
		return err
	}
	if blank(snap.VideoURL) {
		return form.Invalid(form.FieldVideoURL, "please upload a video before posting")
	}
	return requireVisibility(snap)
}

func (VideoPage) Post(snap form.Snapshot) publisher.Post {
	return publisher.Post{
		Type:        form.ContentVideo,
		Content:     snap.PostContent,
		Visibility:  snap.PostVisibility,
		Video:       snap.VideoURL,
		Title:       snap.PostTitle,
		Description: snap.PostDescription,
	}
}
