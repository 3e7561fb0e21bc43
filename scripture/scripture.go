// scripture/scripture.go - Core types for scripture reference resolution
package scripture

import (
	"context"
	"encoding/json"
)

// DefaultVersion is the Bible translation used when none is configured.
const DefaultVersion = "kjv"

// EndOfChapter marks a verse range that runs to the last verse of the chapter.
const EndOfChapter = -1

// ParsedUnit is one contiguous verse range within a single chapter.
type ParsedUnit struct {
	Book       string
	Chapter    int
	VerseStart int
	VerseEnd   int // EndOfChapter when the range is open-ended
}

// ChapterData is a chapter's full verse-number-to-text mapping as returned
// by a Provider. Verse numbers are keyed by their original string form.
type ChapterData struct {
	Book    string
	Chapter string
	Verses  map[string]string
}

// VerseRecord is a single verse ready for formatting. Text may contain the
// pilcrow paragraph-break marker.
type VerseRecord struct {
	Number string
	Text   string
}

// ParsedText is the result of provider-delegated reference parsing.
type ParsedText struct {
	Parsed        bool
	FormattedText string
	Error         string
}

// Provider supplies chapter verse data. A local service, a remote API, or an
// embedded dataset all satisfy the same contract.
type Provider interface {
	GetChapter(ctx context.Context, book, chapter, version string) (ChapterData, error)
}

// ReferenceParser is implemented by providers that can parse and format a
// whole reference themselves. Required for delegated-parsing resolvers.
type ReferenceParser interface {
	ParseReference(ctx context.Context, reference, version string) (ParsedText, error)
}

// ResolvedReading is the externally visible result of resolving a reference.
// Alternatives is populated only when the reference contained "or" branches;
// in that case there is no combined text.
type ResolvedReading struct {
	Reference     string
	Text          string
	Resolved      bool
	IsAlternative bool
	Alternatives  []ResolvedReading
}

// Sentinel is the literal unresolved-reference marker. Callers pattern-match
// on the "[Reading:" prefix, so the format must not change.
func Sentinel(reference string) string {
	return "[Reading: " + reference + "]"
}

// DisplayText returns the formatted markup for a resolved reading, or the
// bracketed sentinel when the reading could not be resolved. Alternative
// containers have no combined text.
func (r ResolvedReading) DisplayText() string {
	if r.IsAlternative {
		return ""
	}
	if !r.Resolved {
		return Sentinel(r.Reference)
	}
	return r.Text
}

// MarshalJSON serializes the reading for API consumers: text is null for
// alternative containers and the sentinel literal for unresolved readings.
func (r ResolvedReading) MarshalJSON() ([]byte, error) {
	out := struct {
		Reference     string            `json:"reference"`
		Text          *string           `json:"text"`
		IsAlternative bool              `json:"is_alternative"`
		Alternatives  []ResolvedReading `json:"alternatives,omitempty"`
	}{
		Reference:     r.Reference,
		IsAlternative: r.IsAlternative,
		Alternatives:  r.Alternatives,
	}
	if !r.IsAlternative {
		t := r.DisplayText()
		out.Text = &t
	}
	return json.Marshal(out)
}
