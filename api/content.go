package api

// Content is one flattened node of the client feed.
// Every value is either a string or a nested Content.
type Content map[string]any

// LocaleContent pairs a target locale with its flattened feed.
type LocaleContent struct {
	// Locale is the target locale code (e.g. "en-US").
	Locale string `json:"locale"`
	// Content is the flattened lookup table for Locale.
	Content Content `json:"content"`
}

// Feed is what a write-back sink receives for one locale.
type Feed struct {
	// Version identifies the run; taken from the trigger request or a timestamp.
	Version string `json:"version"`
	// Locale is the locale the content was computed for.
	Locale string `json:"locale"`
	// Content is the flattened feed.
	Content Content `json:"data"`
}

