package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"sync"

	"github.com/jonathan/job-tracker/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var (
	resumeTemplate     *template.Template
	resumeTemplateErr  error
	resumeTemplateOnce sync.Once
)

type documentData struct {
	JobTitle string
	Body     template.HTML
}

// PrintableHTML wraps body in a standalone HTML document titled for the job.
// The title is escaped; body is inserted as-is.
func PrintableHTML(jobTitle, body string) (string, error) {
	tmpl, err := loadTemplate()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := documentData{JobTitle: jobTitle, Body: template.HTML(body)}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return buf.String(), nil
}

// DocumentHTML renders a ResumeDocument with PrintableHTML
func DocumentHTML(doc *types.ResumeDocument) (string, error) {
	return PrintableHTML(doc.JobTitle, doc.Body)
}

func loadTemplate() (*template.Template, error) {
	resumeTemplateOnce.Do(func() {
		resumeTemplate, resumeTemplateErr = template.ParseFS(templateFiles, "templates/resume.html.tmpl")
		if resumeTemplateErr != nil {
			resumeTemplateErr = &TemplateError{Message: "failed to parse template", Cause: resumeTemplateErr}
		}
	})
	return resumeTemplate, resumeTemplateErr
}
