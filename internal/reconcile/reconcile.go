package reconcile

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/skydev929/us-resume-v2/internal/types"
)

// OpeningPhrase is the fixed phrase every summary must begin with.
const OpeningPhrase = "Senior Software Engineer"

// tenureCap is the maximum years figure the summary may disclose.
const tenureCap = 10

// tenurePhrase replaces any over-cap numeral-based years claim.
const tenurePhrase = "more than 10 years"

// defaultTitle fills an experience entry when neither the profile nor the
// generated output provides one.
const defaultTitle = "Software Engineer"

var (
	titleAtRe = regexp.MustCompile(`(?i)\s+at\s+`)
	tenureRe  = regexp.MustCompile(`\b(\d{2,})\s*\+?\s*years`)
	boldRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// MergeStrategy identifies which experience reconciliation path ran.
type MergeStrategy string

// Experience reconciliation paths.
const (
	// MergeGenerated means the generated list was self-describing and used
	// directly. This path preserves a synthesized fallback role, which has
	// no profile counterpart.
	MergeGenerated MergeStrategy = "generated"
	// MergeProfile means the list was rebuilt by positional alignment with
	// the authoritative profile record.
	MergeProfile MergeStrategy = "profile"
)

// Report records which normalization passes fired, for logging and verbose
// output.
type Report struct {
	TitleTruncated   bool
	TenureRewritten  bool
	OpeningPrepended bool
	Merge            MergeStrategy
}

// Apply validates the parsed content's shape and then runs the normalization
// passes in order, mutating the content in place: title truncation, tenure
// disclosure, opening phrase, markup conversion, skills label cleanup, and
// the authoritative experience merge.
//
// parsedJSON must be the exact text the content was parsed from; the shape
// check runs against it rather than a re-marshaled copy so that absent
// fields are still detectable.
func Apply(content *types.ResumeContent, parsedJSON string, record *types.ProfileRecord, years int) (*Report, error) {
	if err := ValidateShape(parsedJSON); err != nil {
		return nil, err
	}

	report := &Report{}
	truncateTitle(content, report)
	rewriteTenure(content, years, report)
	prependOpeningPhrase(content, report)
	convertMarkup(content)
	cleanSkillLabels(content)
	reconcileExperience(content, record, report)

	return report, nil
}

// truncateTitle cuts a "<role> at <employer>" title down to "<role>".
func truncateTitle(content *types.ResumeContent, report *Report) {
	if loc := titleAtRe.FindStringIndex(content.Title); loc != nil {
		content.Title = content.Title[:loc[0]]
		report.TitleTruncated = true
	}
}

// rewriteTenure rewrites numeral-based years claims in the summary to the
// capped phrase when the computed tenure exceeds the cap. The numeric guard
// keeps an already-capped phrase stable across repeated application.
func rewriteTenure(content *types.ResumeContent, years int, report *Report) {
	if years <= tenureCap {
		return
	}

	content.Summary = tenureRe.ReplaceAllStringFunc(content.Summary, func(match string) string {
		digits := tenureRe.FindStringSubmatch(match)[1]
		n, err := strconv.Atoi(digits)
		if err != nil || n <= tenureCap {
			return match
		}
		report.TenureRewritten = true
		return tenurePhrase
	})
}

// prependOpeningPhrase ensures the summary opens with the fixed phrase,
// lower-casing the original first character so the splice reads as one
// sentence. Idempotent: a summary already opening with the phrase is left
// alone.
func prependOpeningPhrase(content *types.ResumeContent, report *Report) {
	summary := strings.TrimSpace(content.Summary)
	if hasPrefixFold(summary, OpeningPhrase) {
		content.Summary = summary
		return
	}

	content.Summary = strings.TrimSpace(OpeningPhrase + " " + lowerFirst(summary))
	report.OpeningPrepended = true
}

// convertMarkup translates double-asterisk emphasis into the rendering
// markup, in the summary and in every detail bullet.
func convertMarkup(content *types.ResumeContent) {
	content.Summary = boldRe.ReplaceAllString(content.Summary, "<strong>$1</strong>")
	for i := range content.Experience {
		for j, detail := range content.Experience[i].Details {
			content.Experience[i].Details[j] = boldRe.ReplaceAllString(detail, "<strong>$1</strong>")
		}
	}
}

// cleanSkillLabels strips residual emphasis markup from category labels.
// Values are left untouched: labels and values follow different presentation
// rules, and the template bolds labels itself.
func cleanSkillLabels(content *types.ResumeContent) {
	for i := range content.Skills {
		label := strings.ReplaceAll(content.Skills[i].Label, "*", "")
		content.Skills[i].Label = strings.TrimSpace(label)
	}
}

// reconcileExperience applies the dual-path merge policy. A self-describing
// generated list (every entry carries company and both dates) is used
// directly; otherwise the list is rebuilt by positional alignment with the
// authoritative profile record, which recovers from reordering and dropped
// dates but cannot recover a synthesized role.
func reconcileExperience(content *types.ResumeContent, record *types.ProfileRecord, report *Report) {
	if isSelfDescribing(content.Experience) {
		report.Merge = MergeGenerated
		return
	}

	merged := make([]types.GeneratedExperience, 0, len(record.Experience))
	for i, profileEntry := range record.Experience {
		entry := types.GeneratedExperience{
			Title:     profileEntry.Title,
			Company:   profileEntry.Company,
			Location:  profileEntry.Location,
			StartDate: profileEntry.StartDate,
			EndDate:   profileEntry.EndDate,
			Details:   []string{},
		}

		if i < len(content.Experience) {
			generated := content.Experience[i]
			if entry.Title == "" {
				entry.Title = generated.Title
			}
			if generated.Details != nil {
				entry.Details = generated.Details
			}
		}
		if entry.Title == "" {
			entry.Title = defaultTitle
		}

		merged = append(merged, entry)
	}

	content.Experience = merged
	report.Merge = MergeProfile
}

func isSelfDescribing(entries []types.GeneratedExperience) bool {
	if len(entries) == 0 {
		return false
	}
	for _, entry := range entries {
		if entry.Company == "" || entry.StartDate == "" || entry.EndDate == "" {
			return false
		}
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
