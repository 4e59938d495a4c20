// Package fetch - job.go ties platform detection, HTTP fetching, and the
// browser fallback into a single job description lookup.
package fetch

import (
	"context"
	"log"
	"strings"
	"time"
)

// BrowserTimeout bounds the headless browser fallback for one posting.
const BrowserTimeout = 45 * time.Second

// JobFetcher resolves a posting URL to plain job description text.
type JobFetcher struct {
	Options *Options
	Verbose bool

	// renderBrowser is swappable in tests.
	renderBrowser func(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error)
}

// NewJobFetcher creates a fetcher with default options.
func NewJobFetcher(verbose bool) *JobFetcher {
	return &JobFetcher{
		Options:       DefaultOptions(),
		Verbose:       verbose,
		renderBrowser: WithBrowser,
	}
}

// JobDescription fetches the posting and extracts its description text using
// platform-aware selectors. When the plain HTTP fetch yields too little text
// the page is re-rendered in a headless browser, which covers SPA job boards.
func (f *JobFetcher) JobDescription(ctx context.Context, urlStr string) (string, error) {
	platform := DetectPlatform(urlStr)
	if f.Verbose {
		log.Printf("[fetch] fetching posting from %s (platform: %s)", urlStr, platform)
	}

	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	var text string
	result, err := URL(ctx, urlStr, f.Options)
	if err != nil && result == nil {
		return "", err
	}
	if err == nil {
		text, err = ExtractMainText(result.HTML, content, noise...)
		if err != nil {
			return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
		}
	}

	if ShouldUseBrowser(text) {
		if f.Verbose {
			log.Printf("[fetch] extracted only %d chars, falling back to browser rendering", len(text))
		}
		html, berr := f.renderBrowser(ctx, urlStr, BrowserTimeout, f.Verbose)
		if berr != nil {
			// Keep the HTTP result if it produced anything at all.
			if strings.TrimSpace(text) == "" {
				return "", &Error{URL: urlStr, Message: "browser fallback failed", Cause: berr}
			}
		} else {
			rendered, rerr := ExtractMainText(html, content, noise...)
			if rerr == nil && len(rendered) > len(text) {
				text = rendered
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: urlStr, Message: "no description text found"}
	}

	return text, nil
}
