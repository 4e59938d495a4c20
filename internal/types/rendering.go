package types

import "html/template"

// RenderedExperience is one experience entry in its final template shape.
// Detail bullets are pre-converted HTML (bold markup already translated),
// so they carry template.HTML to bypass re-escaping.
type RenderedExperience struct {
	Title     string
	Company   string
	Location  string
	StartDate string
	EndDate   string
	Details   []template.HTML
}

// RenderingContext merges the profile's contact and education data with the
// generated prose into the final shape a document template consumes.
// Experience entries must be in reverse-chronological order.
type RenderingContext struct {
	// DisplayTitle is the on-document header. It is role-generic by policy,
	// independent of the job-specific generated title.
	DisplayTitle string
	Name         string
	Email        string
	Phone        string
	Location     string
	LinkedIn     string
	Summary      template.HTML
	Skills       SkillList
	Experience   []RenderedExperience
	Education    []EducationEntry
}
