package rendering

import (
	"regexp"
	"strings"
)

var nonAlphanumericRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds the download filename from the candidate name, employer,
// and job title. Each part has whitespace removed and remaining
// non-alphanumerics stripped; empty parts are dropped and the rest joined
// with underscores.
func Filename(name, company, title string) string {
	parts := make([]string, 0, 3)
	for _, raw := range []string{name, company, title} {
		if part := sanitizePart(raw); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "resume.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}

func sanitizePart(s string) string {
	s = strings.Join(strings.Fields(s), "")
	return nonAlphanumericRe.ReplaceAllString(s, "")
}
