// Package profile provides loading and tenure metrics for candidate profile records.
package profile

import (
	"math"
	"strings"
	"time"

	"github.com/skydev929/us-resume-v2/internal/types"
)

// dateLayouts are tried in order when parsing profile date strings.
// Profile sources are inconsistent about granularity.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"Jan 2006",
	"January 2006",
	"01/2006",
	"2006",
}

// ParseDate parses a profile date string. The literal token "present"
// (case-insensitive) means the current instant. Returns ok=false for
// strings that match no known layout; callers must not treat that as fatal.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.EqualFold(s, "present") {
		return now, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// YearsOfExperience derives total tenure from the earliest parseable start
// date across all entries, rounded to the nearest whole year. An empty list
// or a list with only malformed start dates yields 0.
func YearsOfExperience(entries []types.ExperienceEntry) int {
	return yearsOfExperienceAt(entries, time.Now())
}

func yearsOfExperienceAt(entries []types.ExperienceEntry, now time.Time) int {
	var earliest time.Time
	found := false

	for _, entry := range entries {
		start, ok := ParseDate(entry.StartDate, now)
		if !ok {
			continue
		}
		if !found || start.Before(earliest) {
			earliest = start
			found = true
		}
	}

	if !found {
		return 0
	}

	days := now.Sub(earliest).Hours() / 24
	return int(math.Round(days / 365.0))
}
