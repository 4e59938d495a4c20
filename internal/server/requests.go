package server

import (
	"github.com/go-playground/validator/v10"
)

// GenerateRequest is the request body for POST /api/resume/generate.
type GenerateRequest struct {
	ProfileKey     string `json:"profile_key" validate:"required"`
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	Template       string `json:"template,omitempty"`
	// JobTitle and Company only shape the download filename.
	JobTitle string `json:"job_title,omitempty"`
	Company  string `json:"company,omitempty"`
}

// Validate checks the request using the validator plus the cross-field
// rule: exactly one of job_description and job_url must be set.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		if r.ProfileKey == "" {
			return &ErrMissingInput{Field: "profile_key", Message: "profile_key is required"}
		}
		return &ErrMissingInput{Field: "job_url", Message: "job_url must be a valid URL"}
	}

	if r.JobDescription == "" && r.JobURL == "" {
		return &ErrMissingInput{Field: "job_description", Message: "either job_description or job_url is required"}
	}
	if r.JobDescription != "" && r.JobURL != "" {
		return &ErrMissingInput{Field: "job_description", Message: "job_description and job_url are mutually exclusive"}
	}

	return nil
}
