// Package observability provides formatted output utilities for verbose
// CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/skydev929/us-resume-v2/internal/pipeline"
	"github.com/skydev929/us-resume-v2/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of the loaded profile.
func (p *Printer) PrintProfile(record *types.ProfileRecord, years int) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", record.Name))
	if record.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:   %s\n", record.Location))
	}
	sb.WriteString(fmt.Sprintf("Experience: %d roles, ~%d years\n", len(record.Experience), years))

	count := min(len(record.Experience), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := record.Experience[i]
		sb.WriteString(fmt.Sprintf("  • %s at %s\n", entry.Title, entry.Company))
	}
	if len(record.Experience) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Experience)-maxItemsToShow))
	}

	p.printBox("CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGeneration outputs the generation outcome: token usage, finish
// reason, and whether the reduced-bullet fallback ran.
func (p *Printer) PrintGeneration(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Finish reason:     %s\n", result.FinishReason))
	sb.WriteString(fmt.Sprintf("Prompt tokens:     %d\n", result.Usage.PromptTokens))
	sb.WriteString(fmt.Sprintf("Completion tokens: %d\n", result.Usage.CompletionTokens))
	sb.WriteString(fmt.Sprintf("Total tokens:      %d\n", result.Usage.TotalTokens))
	if result.Fallback {
		sb.WriteString("Fallback:          yes (reduced bullet floor)")
	} else {
		sb.WriteString("Fallback:          no")
	}

	p.printBox("GENERATION", sb.String())
}

// PrintReconciliation outputs which normalization passes fired.
func (p *Printer) PrintReconciliation(result *pipeline.Result) {
	if result == nil || result.Report == nil {
		return
	}

	report := result.Report
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title truncated:   %s\n", yesNo(report.TitleTruncated)))
	sb.WriteString(fmt.Sprintf("Tenure rewritten:  %s\n", yesNo(report.TenureRewritten)))
	sb.WriteString(fmt.Sprintf("Opening prepended: %s\n", yesNo(report.OpeningPrepended)))
	sb.WriteString(fmt.Sprintf("Experience merge:  %s", report.Merge))

	p.printBox("RECONCILIATION", sb.String())
}

// PrintResumeContent outputs a condensed view of the final content.
func (p *Printer) PrintResumeContent(content *types.ResumeContent) {
	if content == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n", content.Title))
	sb.WriteString(fmt.Sprintf("Summary: %d chars\n", len(content.Summary)))
	sb.WriteString(fmt.Sprintf("Skill categories: %d\n", len(content.Skills)))

	count := min(len(content.Skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		category := content.Skills[i]
		sb.WriteString(fmt.Sprintf("  • %s (%d)\n", category.Label, len(category.Skills)))
	}

	bullets := 0
	for _, entry := range content.Experience {
		bullets += len(entry.Details)
	}
	sb.WriteString(fmt.Sprintf("Experience: %d roles, %d bullets", len(content.Experience), bullets))

	p.printBox("RESUME CONTENT", sb.String())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
