// Package form holds the shared state of one composing session: a single
// field-name to value mapping that every page reads and writes.
package form

import (
	"fmt"
	"sync"
)

// Change is one field update. Value is a string, int, File, []File or
// []string depending on the field.
type Change struct {
	Field string
	Value any
}

// Store is the form state of one navigation session. Apply is the only way
// to mutate it; mutations are serialized.
type Store struct {
	mu     sync.RWMutex
	fields map[string]any
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{fields: make(map[string]any)}
}

// Apply records a field change. word_limit is clamped on entry.
func (s *Store) Apply(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := c.Value
	if c.Field == FieldWordLimit {
		v = ClampWordLimit(v, s.fields[FieldWordLimit])
	}
	if v == nil {
		delete(s.fields, c.Field)
		return
	}
	s.fields[c.Field] = v
}

// Set is shorthand for Apply(Change{field, value}).
func (s *Store) Set(field string, value any) {
	s.Apply(Change{Field: field, Value: value})
}

// Get returns the raw value of field.
func (s *Store) Get(field string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fields[field]
	return v, ok
}

// String returns field formatted as text, or "" when unset.
func (s *Store) String(field string) string {
	v, ok := s.Get(field)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case int:
		return fmt.Sprintf("%d", val)
	default:
		return ""
	}
}

// Reset clears every field.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = make(map[string]any)
}

// Snapshot is a typed copy of the store.
type Snapshot struct {
	Topic           string
	Description     string
	Tone            string
	Audience        string
	Intent          string
	WordLimit       int
	URL             string
	PostContent     string
	PostVisibility  string
	PostTitle       string
	PostURL         string
	PostDescription string
	PostImage       []File
	PostVideo       File
	ImageURLs       []string
	VideoURL        string
}

// Snapshot copies the current values into a Snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	str := func(field string) string {
		v, _ := s.fields[field].(string)
		return v
	}
	snap := Snapshot{
		Topic:           str(FieldTopic),
		Description:     str(FieldDescription),
		Tone:            str(FieldTone),
		Audience:        str(FieldAudience),
		Intent:          str(FieldIntent),
		URL:             str(FieldURL),
		PostContent:     str(FieldPostContent),
		PostVisibility:  str(FieldPostVisibility),
		PostTitle:       str(FieldPostTitle),
		PostURL:         str(FieldPostURL),
		PostDescription: str(FieldPostDescription),
		VideoURL:        str(FieldVideoURL),
	}
	if n, ok := s.fields[FieldWordLimit].(int); ok {
		snap.WordLimit = n
	}
	switch files := s.fields[FieldPostImage].(type) {
	case []File:
		snap.PostImage = append([]File(nil), files...)
	case File:
		snap.PostImage = []File{files}
	}
	if f, ok := s.fields[FieldPostVideo].(File); ok {
		snap.PostVideo = f
	}
	if urls, ok := s.fields[FieldImageURLs].([]string); ok {
		snap.ImageURLs = append([]string(nil), urls...)
	}
	return snap
}

// Values returns the text fields as strings, for rendering and the JSON API.
func (s *Store) Values() map[string]string {
	out := make(map[string]string, len(TextFields))
	for _, f := range TextFields {
		out[f] = s.String(f)
	}
	return out
}
