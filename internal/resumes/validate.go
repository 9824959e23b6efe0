package resumes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

// ValidateData checks the resume content against the embedded JSON schema.
// Violations are wrapped in ErrInvalidInput so handlers map them to 400s.
func ValidateData(data ResumeData) error {
	payload, err := json.Marshal(data.normalized())
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(resumeSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// normalized replaces nil required collections with empty ones so they
// marshal as arrays rather than null.
func (d ResumeData) normalized() ResumeData {
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.Educations == nil {
		d.Educations = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	return d
}
