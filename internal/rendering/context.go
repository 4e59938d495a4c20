package rendering

import (
	"html/template"
	"sort"
	"time"

	"github.com/skydev929/us-resume-v2/internal/profile"
	"github.com/skydev929/us-resume-v2/internal/types"
)

// DisplayTitle is the fixed on-document header. It stays role-generic no
// matter what job-specific title the generation produced.
const DisplayTitle = "Senior Software Engineer"

// BuildContext merges the profile's contact and education data with the
// reconciled generated content into the shape the document templates
// consume. Experience is sorted reverse-chronologically by start date;
// entries with unparseable start dates sink to the bottom in their
// original relative order.
func BuildContext(record *types.ProfileRecord, content *types.ResumeContent) *types.RenderingContext {
	experience := make([]types.RenderedExperience, 0, len(content.Experience))
	for _, entry := range content.Experience {
		details := make([]template.HTML, 0, len(entry.Details))
		for _, detail := range entry.Details {
			details = append(details, template.HTML(detail))
		}
		experience = append(experience, types.RenderedExperience{
			Title:     entry.Title,
			Company:   entry.Company,
			Location:  entry.Location,
			StartDate: entry.StartDate,
			EndDate:   entry.EndDate,
			Details:   details,
		})
	}
	sortReverseChronological(experience)

	return &types.RenderingContext{
		DisplayTitle: DisplayTitle,
		Name:         record.Name,
		Email:        record.Email,
		Phone:        record.Phone,
		Location:     record.Location,
		LinkedIn:     record.LinkedIn,
		Summary:      template.HTML(content.Summary),
		Skills:       content.Skills,
		Experience:   experience,
		Education:    record.Education,
	}
}

func sortReverseChronological(entries []types.RenderedExperience) {
	now := time.Now()
	sort.SliceStable(entries, func(i, j int) bool {
		ti, okI := profile.ParseDate(entries[i].StartDate, now)
		tj, okJ := profile.ParseDate(entries[j].StartDate, now)
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
}
