package domain

import "fmt"

// SourceType identifies the provider category a document came from.
type SourceType string

const (
	// SourceQASite is a Stack Exchange style question and answer site.
	SourceQASite SourceType = "qa_site"

	// SourceCodeHost is a GitHub style code host.
	SourceCodeHost SourceType = "code_host"

	// SourceDocs is an official documentation host.
	SourceDocs SourceType = "docs"
)

// AllSourceTypes lists every source in fan-out and collection order.
var AllSourceTypes = []SourceType{SourceQASite, SourceCodeHost, SourceDocs}

// Valid reports whether the source type is recognised.
func (t SourceType) Valid() bool {
	switch t {
	case SourceQASite, SourceCodeHost, SourceDocs:
		return true
	}
	return false
}

// String returns the wire representation.
func (t SourceType) String() string {
	return string(t)
}

// ParseSourceType converts a string into a SourceType, returning
// ErrUnsupportedSource for anything unrecognised. "all" and the empty
// string mean no restriction and parse to the zero value.
func ParseSourceType(s string) (SourceType, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	t := SourceType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, s)
	}
	return t, nil
}
