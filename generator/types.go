package generator

// Request is the body sent to the generation service.
type Request struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
	Audience    string `json:"audience"`
	Intent      string `json:"intent"`
	WordLimit   int    `json:"word_limit"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
}

// Response is what the generation service answers. Post is either plain text
// or text embedding a fenced ```json block with a "content" field.
type Response struct {
	Post *string `json:"post"`
}
