package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillList_PreservesOrder(t *testing.T) {
	input := `{"Languages":["Go","Python"],"Cloud":["AWS"],"Databases":["PostgreSQL","Redis"]}`

	var skills SkillList
	err := json.Unmarshal([]byte(input), &skills)
	require.NoError(t, err)

	require.Len(t, skills, 3)
	assert.Equal(t, "Languages", skills[0].Label)
	assert.Equal(t, "Cloud", skills[1].Label)
	assert.Equal(t, "Databases", skills[2].Label)
	assert.Equal(t, []string{"Go", "Python"}, skills[0].Skills)
}

func TestSkillList_RoundTrip(t *testing.T) {
	input := `{"Backend":["Go"],"Frontend":["React","TypeScript"]}`

	var skills SkillList
	require.NoError(t, json.Unmarshal([]byte(input), &skills))

	out, err := json.Marshal(skills)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))

	// Re-decoding must preserve the same order.
	var again SkillList
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, skills, again)
}

func TestSkillList_RejectsNonObject(t *testing.T) {
	var skills SkillList
	err := json.Unmarshal([]byte(`["Go","Python"]`), &skills)
	assert.Error(t, err)
}

func TestSkillList_RejectsNonListValues(t *testing.T) {
	var skills SkillList
	err := json.Unmarshal([]byte(`{"Languages":"Go"}`), &skills)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Languages")
}

func TestResumeContent_Unmarshal(t *testing.T) {
	input := `{
		"title": "Backend Engineer",
		"summary": "Builds things.",
		"skills": {"Languages": ["Go"]},
		"experience": [
			{"title": "Engineer", "company": "Acme", "start_date": "2020-01-01", "end_date": "present", "details": ["Did work"]}
		]
	}`

	var content ResumeContent
	require.NoError(t, json.Unmarshal([]byte(input), &content))

	assert.Equal(t, "Backend Engineer", content.Title)
	require.Len(t, content.Experience, 1)
	assert.Equal(t, "Acme", content.Experience[0].Company)
	assert.Equal(t, []string{"Did work"}, content.Experience[0].Details)
}
