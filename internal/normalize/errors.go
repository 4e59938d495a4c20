// Package normalize turns raw generated text into a parsed resume content
// candidate: it strips conversational wrapping, slices out the JSON payload,
// and repairs common malformations before parsing.
package normalize

import "fmt"

// RefusalError indicates the model declined to produce content. This is a
// hard failure; no amount of repair recovers a refusal.
type RefusalError struct {
	Phrase string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("model refused to generate content (response starts with %q)", e.Phrase)
}

// FormatError indicates no JSON object could be located, or parsing failed
// even after the repair pass. It carries enough diagnostic detail to triage
// from logs without replaying the model call.
type FormatError struct {
	Message string
	Offset  int64 // byte offset of the parse failure, -1 if unknown
	Length  int   // length of the content under parse
	Excerpt string
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("response format error: %s (offset %d, content length %d, excerpt %q)",
			e.Message, e.Offset, e.Length, e.Excerpt)
	}
	return fmt.Sprintf("response format error: %s (content length %d, excerpt %q)",
		e.Message, e.Length, e.Excerpt)
}
