// Package types defines the shared data structures passed between pipeline stages.
package types

// ExperienceEntry is one role in the authoritative profile record.
// Dates are stored as strings in whatever format the profile source uses
// ("2015-01-01", "Jan 2015", or the literal "present" for the end date).
type ExperienceEntry struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// EducationEntry is one education record in the profile.
type EducationEntry struct {
	Degree         string `json:"degree"`
	School         string `json:"school"`
	Location       string `json:"location,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty"`
}

// ProfileRecord is the authoritative candidate data loaded once per request.
// It is owned by the caller and never mutated by the pipeline; generated
// content is reconciled against it, not the other way around.
type ProfileRecord struct {
	Key        string            `json:"key,omitempty"`
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Location   string            `json:"location,omitempty"`
	LinkedIn   string            `json:"linkedin,omitempty"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education,omitempty"`
}
