package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// CandidateProfile is the applicant's background document.
// The raw JSON is kept as-is so that field order survives into prompts.
type CandidateProfile struct {
	Raw    json.RawMessage
	Source string
}

// Indented returns the profile re-indented with two spaces.
func (p *CandidateProfile) Indented() (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.Raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ResumeDocument is the generated resume body for one job posting
type ResumeDocument struct {
	ID          string    `json:"id"`
	JobTitle    string    `json:"job_title"`
	JobURL      string    `json:"job_url,omitempty"`
	Body        string    `json:"body"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}
