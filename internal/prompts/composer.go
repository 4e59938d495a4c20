package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skydev929/us-resume-v2/internal/types"
)

// promptFile is the embedded file holding the resume policy template.
const promptFile = "resume.json"

// resumeKey is the template key for the resume generation policy.
const resumeKey = "generate-resume"

// FallbackEmployer is the sentinel company name the policy tells the model to
// use when it must synthesize a part-time role in the target industry.
const FallbackEmployer = "Freelance"

// BulletRange bounds the per-role bullet count instruction in the policy.
type BulletRange struct {
	Min int
	Max int
}

// DefaultBullets is the bullet range for the first generation attempt.
var DefaultBullets = BulletRange{Min: 8, Max: 10}

// FallbackBullets is the reduced range used after a token-budget cutoff.
var FallbackBullets = BulletRange{Min: 6, Max: 8}

// BuildResumePrompt renders the policy template with the flattened profile
// and the verbatim job description. The composer only interpolates; it does
// not interpret or enforce the policy rules.
func BuildResumePrompt(record *types.ProfileRecord, jobDescription string, bullets BulletRange) (string, error) {
	tmpl, err := Get(promptFile, resumeKey)
	if err != nil {
		return "", err
	}

	return Format(tmpl, map[string]string{
		"Profile":        FlattenProfile(record),
		"JobDescription": jobDescription,
		"BulletMin":      strconv.Itoa(bullets.Min),
		"BulletMax":      strconv.Itoa(bullets.Max),
	}), nil
}

// FlattenProfile renders the profile record as the heading-delimited text
// listing the policy template interpolates.
func FlattenProfile(record *types.ProfileRecord) string {
	var sb strings.Builder

	sb.WriteString("Name: " + record.Name + "\n")
	if contact := contactLine(record); contact != "" {
		sb.WriteString("Contact: " + contact + "\n")
	}

	if len(record.Experience) > 0 {
		sb.WriteString("\nEXPERIENCE:\n")
		for _, exp := range record.Experience {
			sb.WriteString("- " + experienceLine(exp) + "\n")
		}
	}

	if len(record.Education) > 0 {
		sb.WriteString("\nEDUCATION:\n")
		for _, edu := range record.Education {
			sb.WriteString("- " + educationLine(edu) + "\n")
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// experienceLine formats one entry as "title at company[, location] | start - end".
func experienceLine(exp types.ExperienceEntry) string {
	line := fmt.Sprintf("%s at %s", exp.Title, exp.Company)
	if exp.Location != "" {
		line += ", " + exp.Location
	}
	return fmt.Sprintf("%s | %s - %s", line, exp.StartDate, exp.EndDate)
}

func educationLine(edu types.EducationEntry) string {
	line := edu.Degree
	if edu.School != "" {
		line += ", " + edu.School
	}
	if edu.GraduationDate != "" {
		line += " (" + edu.GraduationDate + ")"
	}
	return line
}

func contactLine(record *types.ProfileRecord) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{record.Email, record.Phone, record.Location, record.LinkedIn} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
