package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Placeholders shown instead of generated text when the response cannot be
// read.
const (
	NoContentPlaceholder      = "No content received from API."
	ParseFailedPlaceholder    = "Failed to parse generated JSON content."
	MissingContentPlaceholder = "Content field not found in parsed JSON."
)

var fencedJSON = regexp.MustCompile("(?s)```json\n(.*)\n```")

// ParseErrorKind tells why ExtractContent failed.
type ParseErrorKind int

const (
	NoFence ParseErrorKind = iota
	InvalidJSON
	MissingContent
)

// ParseError is returned by ExtractContent.
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NoFence:
		return "no fenced json block"
	case InvalidJSON:
		return fmt.Sprintf("invalid json in fenced block: %v", e.Err)
	case MissingContent:
		return "fenced json has no content field"
	default:
		return "unknown parse error"
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractContent returns the "content" field of the ```json block embedded
// in post.
func ExtractContent(post string) (string, error) {
	m := fencedJSON.FindStringSubmatch(post)
	if len(m) < 2 || m[1] == "" {
		return "", &ParseError{Kind: NoFence}
	}
	var parsed any
	if err := json.Unmarshal([]byte(m[1]), &parsed); err != nil {
		return "", &ParseError{Kind: InvalidJSON, Err: err}
	}
	if parsed == nil {
		return "", &ParseError{Kind: InvalidJSON, Err: errors.New("fenced json is null")}
	}
	obj, _ := parsed.(map[string]any)
	return contentText(obj["content"])
}

// contentText renders any non-empty, non-zero content value as text. Empty
// strings, zero, false and null count as missing.
func contentText(v any) (string, error) {
	switch c := v.(type) {
	case string:
		if c != "" {
			return c, nil
		}
	case float64:
		if c != 0 {
			return strconv.FormatFloat(c, 'f', -1, 64), nil
		}
	case bool:
		if c {
			return "true", nil
		}
	case map[string]any, []any:
		b, err := json.Marshal(c)
		if err != nil {
			return "", &ParseError{Kind: InvalidJSON, Err: err}
		}
		return string(b), nil
	}
	return "", &ParseError{Kind: MissingContent}
}

// ContentFromPost never fails: posts without a fence are used verbatim and
// unreadable fences become a placeholder.
func ContentFromPost(post string) string {
	content, err := ExtractContent(post)
	if err == nil {
		return content
	}
	pe, _ := err.(*ParseError)
	switch {
	case pe != nil && pe.Kind == NoFence:
		return post
	case pe != nil && pe.Kind == MissingContent:
		return MissingContentPlaceholder
	default:
		return ParseFailedPlaceholder
	}
}

// ContentFromResponse applies ContentFromPost to a service response.
func ContentFromResponse(resp Response) string {
	if resp.Post == nil || *resp.Post == "" {
		return NoContentPlaceholder
	}
	return ContentFromPost(*resp.Post)
}
