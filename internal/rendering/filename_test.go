package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		company string
		title   string
		want    string
	}{
		{"Jane O'Doe", "Acme, Inc.", "Sr. Engineer", "JaneODoe_AcmeInc_SrEngineer.pdf"},
		{"Jane Doe", "", "Engineer", "JaneDoe_Engineer.pdf"},
		{"", "", "", "resume.pdf"},
		{"  spaced   out  ", "co", "", "spacedout_co.pdf"},
		{"!!!", "---", "___", "resume.pdf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.name, tt.company, tt.title))
	}
}

func TestLetterOptions(t *testing.T) {
	opts := LetterOptions()
	assert.Equal(t, 8.5, opts.PaperWidth)
	assert.Equal(t, 11.0, opts.PaperHeight)
	assert.True(t, opts.PrintBackground)
}
