package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(ResumeFile, UserKey)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Create a tailored resume")
	assert.Contains(t, prompt, "{{.JobTitle}}")
	assert.Contains(t, prompt, "{{.JobDescription}}")
	assert.Contains(t, prompt, "{{.CandidateProfile}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(ResumeFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_SystemPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(ResumeFile, SystemKey)
	require.NoError(t, err)
	assert.Contains(t, prompt, "professional resume writer")
}

func TestGet_Cached(t *testing.T) {
	ClearCache()

	first, err := Get(ResumeFile, UserKey)
	require.NoError(t, err)
	second, err := Get(ResumeFile, UserKey)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_MissingKeyLeftAlone(t *testing.T) {
	assert.Equal(t, "Hi {{.Name}}", Format("Hi {{.Name}}", map[string]string{"Other": "x"}))
}

func TestFormat_ValuesNotReexpanded(t *testing.T) {
	template := "A={{.A}} B={{.B}}"
	data := map[string]string{
		"A": "{{.B}}",
		"B": "bee",
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, "A={{.B}} B=bee", Format(template, data))
	}
}
