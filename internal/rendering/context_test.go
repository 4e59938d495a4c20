package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydev929/us-resume-v2/internal/types"
)

func sampleRecord() *types.ProfileRecord {
	return &types.ProfileRecord{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Location: "Austin, TX",
		LinkedIn: "linkedin.com/in/janedoe",
		Education: []types.EducationEntry{
			{Degree: "BS Computer Science", School: "UT Austin", GraduationDate: "2012"},
		},
	}
}

func sampleContent() *types.ResumeContent {
	return &types.ResumeContent{
		Title:   "Backend Engineer",
		Summary: "Senior Software Engineer with <strong>Go</strong> depth.",
		Skills:  types.SkillList{{Label: "Languages", Skills: []string{"Go", "Python"}}},
		Experience: []types.GeneratedExperience{
			{Title: "Engineer", Company: "Initech", StartDate: "2012-06-01", EndDate: "2014-12-01", Details: []string{"Built <strong>APIs</strong>"}},
			{Title: "Senior Engineer", Company: "Acme LLC", StartDate: "2015-01-01", EndDate: "present", Details: []string{"Led platform work"}},
		},
	}
}

func TestBuildContext_FixedDisplayTitle(t *testing.T) {
	renderCtx := BuildContext(sampleRecord(), sampleContent())
	assert.Equal(t, "Senior Software Engineer", renderCtx.DisplayTitle)
}

func TestBuildContext_ContactAndEducationFromProfile(t *testing.T) {
	renderCtx := BuildContext(sampleRecord(), sampleContent())

	assert.Equal(t, "Jane Doe", renderCtx.Name)
	assert.Equal(t, "jane@example.com", renderCtx.Email)
	assert.Equal(t, "555-0100", renderCtx.Phone)
	assert.Equal(t, "linkedin.com/in/janedoe", renderCtx.LinkedIn)
	require.Len(t, renderCtx.Education, 1)
	assert.Equal(t, "UT Austin", renderCtx.Education[0].School)
}

func TestBuildContext_ReverseChronologicalExperience(t *testing.T) {
	renderCtx := BuildContext(sampleRecord(), sampleContent())

	require.Len(t, renderCtx.Experience, 2)
	assert.Equal(t, "Acme LLC", renderCtx.Experience[0].Company)
	assert.Equal(t, "Initech", renderCtx.Experience[1].Company)
}

func TestBuildContext_UnparseableDatesSink(t *testing.T) {
	content := sampleContent()
	content.Experience = append(content.Experience, types.GeneratedExperience{
		Title: "Mystery Role", Company: "Unknown", StartDate: "sometime", EndDate: "later",
	})

	renderCtx := BuildContext(sampleRecord(), content)

	require.Len(t, renderCtx.Experience, 3)
	assert.Equal(t, "Unknown", renderCtx.Experience[2].Company)
}

func TestBuildContext_DetailsCarriedAsHTML(t *testing.T) {
	renderCtx := BuildContext(sampleRecord(), sampleContent())

	require.Len(t, renderCtx.Experience[1].Details, 1)
	assert.Contains(t, string(renderCtx.Experience[1].Details[0]), "<strong>APIs</strong>")
}
