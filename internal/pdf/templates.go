package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"cveezy-backend/internal/resumes"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// templateSet holds the parsed resume templates, keyed by name.
var templateSet = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// TemplateNames lists the templates available for rendering.
func TemplateNames() []string {
	return []string{"classic", "modern", "minimal"}
}

// ValidTemplate reports whether the named template exists.
func ValidTemplate(name string) bool {
	for _, known := range TemplateNames() {
		if known == name {
			return true
		}
	}
	return false
}

// templateData is the view model passed into the HTML templates.
type templateData struct {
	Data     resumes.ResumeData
	FullName string
}

// RenderHTML executes the named template over the resume content.
func RenderHTML(templateName string, data resumes.ResumeData) (string, error) {
	if !ValidTemplate(templateName) {
		return "", fmt.Errorf("unknown template %q", templateName)
	}

	view := templateData{
		Data:     data,
		FullName: strings.TrimSpace(data.Contact.FirstName + " " + data.Contact.LastName),
	}

	var buf bytes.Buffer
	if err := templateSet.ExecuteTemplate(&buf, templateName+".html.tmpl", view); err != nil {
		return "", fmt.Errorf("render template %s: %w", templateName, err)
	}
	return buf.String(), nil
}
