package normalize

import (
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/skydev929/us-resume-v2/internal/types"
)

// refusalPrefixes are checked case-insensitively against the trimmed start of
// the response. A match is a hard failure.
var refusalPrefixes = []string{
	"i'm sorry",
	"i cannot",
	"i apologize",
}

var (
	// fenceRe matches code-fence markers with known language tags and bare fences.
	fenceRe = regexp.MustCompile("(?i)```(?:json|javascript|js)?")
	// preambleRe matches conversational lead-ins models prepend to the payload.
	preambleRe = regexp.MustCompile(`(?i)^\s*(?:here is|here's|this is|the json is)\b[^:\n{]*:?\s*`)

	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Extract strips conversational wrapping from raw generated text and slices
// it down to the JSON object span. Trailing commentary after the final
// closing brace is discarded. The result is not yet parsed.
func Extract(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	lower := strings.ToLower(text)
	for _, prefix := range refusalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", &RefusalError{Phrase: prefix}
		}
	}

	text = fenceRe.ReplaceAllString(text, "")
	text = preambleRe.ReplaceAllString(text, "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return "", &FormatError{
			Message: "no JSON object found in response",
			Offset:  -1,
			Length:  len(text),
			Excerpt: excerpt(text),
		}
	}

	return text[start : end+1], nil
}

// Parse decodes extracted JSON into a resume content candidate. A strict
// parse is attempted first; on failure, exactly one repair pass runs and the
// parse is retried. Further failures surface with position diagnostics.
// The returned string is the JSON text that actually parsed (the original or
// the repaired form), for downstream schema validation.
func Parse(jsonText string) (*types.ResumeContent, string, error) {
	content, err := parseStrict(jsonText)
	if err == nil {
		return content, jsonText, nil
	}

	log.Printf("[normalize] strict parse failed, attempting repair: %v", err)
	repaired := Repair(jsonText)

	content, repairedErr := parseStrict(repaired)
	if repairedErr == nil {
		return content, repaired, nil
	}

	return nil, "", formatError(repairedErr, repaired)
}

// Repair applies heuristic fixes for the two malformations models produce
// most often: trailing commas before a closing brace or bracket, and
// unescaped quotes embedded inside string values. It is invoked at most once
// per response; heuristics are never chained further.
func Repair(jsonText string) string {
	jsonText = trailingCommaRe.ReplaceAllString(jsonText, "$1")
	return escapeEmbeddedQuotes(jsonText)
}

// escapeEmbeddedQuotes escapes unescaped quotes that appear inside string
// values. A quote inside a string is treated as the closing delimiter only
// when the next non-space character is structural (comma, colon, brace, or
// bracket); anything else marks it as embedded content. Valid JSON passes
// through unchanged because its interior quotes are already escaped.
func escapeEmbeddedQuotes(jsonText string) string {
	var sb strings.Builder
	sb.Grow(len(jsonText))

	inString := false
	escaped := false
	for i := 0; i < len(jsonText); i++ {
		ch := jsonText[i]

		if escaped {
			sb.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			sb.WriteByte(ch)
			escaped = true
			continue
		}
		if ch != '"' {
			sb.WriteByte(ch)
			continue
		}

		if !inString {
			inString = true
			sb.WriteByte(ch)
			continue
		}

		if isStringTerminator(jsonText, i+1) {
			inString = false
			sb.WriteByte(ch)
		} else {
			sb.WriteString(`\"`)
		}
	}

	return sb.String()
}

// isStringTerminator reports whether the first non-space character at or
// after pos could legally follow a closing quote.
func isStringTerminator(s string, pos int) bool {
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', ':', '}', ']':
			return true
		default:
			return false
		}
	}
	return true // end of input closes the string
}

func parseStrict(jsonText string) (*types.ResumeContent, error) {
	var content types.ResumeContent
	if err := json.Unmarshal([]byte(jsonText), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func formatError(err error, content string) *FormatError {
	offset := int64(-1)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		offset = typeErr.Offset
	}

	return &FormatError{
		Message: err.Error(),
		Offset:  offset,
		Length:  len(content),
		Excerpt: excerpt(content),
	}
}

// excerpt returns the leading and trailing slice of the content for
// diagnostics, keeping raw model output out of user-facing messages.
func excerpt(content string) string {
	const edge = 40
	if len(content) <= 2*edge {
		return content
	}
	return content[:edge] + " ... " + content[len(content)-edge:]
}
