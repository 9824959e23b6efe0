package enhance

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// ExperienceContext is a compact view of one work entry used in prompts.
type ExperienceContext struct {
	JobTitle    string
	Company     string
	Location    string
	StartDate   string
	EndDate     string
	Description string
}

// EducationContext is a compact view of one education entry used in prompts.
type EducationContext struct {
	School      string
	Degree      string
	Location    string
	StartDate   string
	EndDate     string
	Description string
}

// EntityContext carries the companion fields surrounding the text being
// enhanced.
type EntityContext struct {
	JobTitle    string
	Company     string
	Degree      string
	School      string
	Location    string
	Experiences []ExperienceContext
	Educations  []EducationContext
}

// PromptRequest holds the inputs for one prompt build.
type PromptRequest struct {
	ContentType ContentType
	FieldText   string
	Context     EntityContext
	Seed        int64
	// VariantTag marks an explicit regenerate request; it redraws the
	// directive and perturbs the seed so back-to-back requests diverge.
	VariantTag string
}

// PromptBuilder assembles generation prompts with randomized directives
// drawn from the injected configuration.
type PromptBuilder struct {
	cfg Config
	rnd Rand
}

// NewPromptBuilder constructs a PromptBuilder.
func NewPromptBuilder(cfg Config, rnd Rand) *PromptBuilder {
	return &PromptBuilder{cfg: cfg, rnd: rnd}
}

// ResponseKey returns the JSON key the generator is instructed to answer
// with for a content type.
func ResponseKey(t ContentType) string {
	switch t {
	case ContentSummary:
		return "summary"
	case ContentImprovement:
		return "improved"
	default:
		return "description"
	}
}

// Build assembles the prompt string. Output varies deterministically with
// the seed, which is embedded literally in the instructions.
func (b *PromptBuilder) Build(req PromptRequest) string {
	directive := b.directive(req.ContentType)
	seed := req.Seed
	if req.VariantTag != "" {
		// Independent redraw for explicit regenerates.
		directive = b.directive(req.ContentType)
		seed += int64(crc32.ChecksumIEEE([]byte(req.VariantTag)))
	}

	var sb strings.Builder
	switch req.ContentType {
	case ContentSummary:
		fmt.Fprintf(&sb, "Write a professional resume summary for a %s.\n", orUnknown(req.Context.JobTitle, "professional"))
		fmt.Fprintf(&sb, "Writing style: %s.\n", directive)
		sb.WriteString("Target length: 3 to 5 sentences, 60 to 120 words.\n")
		b.writeSummaryContext(&sb, req.Context)
	case ContentExperience:
		fmt.Fprintf(&sb, "Rewrite this work experience description for a %s at %s.\n",
			orUnknown(req.Context.JobTitle, "professional"), orUnknown(req.Context.Company, "the company"))
		fmt.Fprintf(&sb, "Focus on: %s.\n", directive)
		sb.WriteString("Target length: 2 to 3 sentences, 25 to 60 words.\n")
	case ContentEducation:
		fmt.Fprintf(&sb, "Rewrite this education description for a %s at %s.\n",
			orUnknown(req.Context.Degree, "degree"), orUnknown(req.Context.School, "the school"))
		fmt.Fprintf(&sb, "Approach: %s.\n", directive)
		sb.WriteString("Target length: 2 to 3 sentences, 20 to 60 words.\n")
	default:
		fmt.Fprintf(&sb, "Improve the following resume text. Make it %s.\n", directive)
		sb.WriteString("Target length: similar to the input, at most 4 sentences.\n")
	}

	sb.WriteString("Use only facts present in the source text and context below. Do not invent employers, dates, numbers or achievements.\n")
	sb.WriteString("Avoid generic filler phrases such as \"hard worker\", \"team player\" or \"responsible for various tasks\".\n")
	fmt.Fprintf(&sb, "Return only a JSON object with the single key %q and the rewritten text as its string value. No markdown, no commentary.\n", ResponseKey(req.ContentType))
	fmt.Fprintf(&sb, "Variation seed: %d.\n", seed)

	if text := strings.TrimSpace(req.FieldText); text != "" {
		fmt.Fprintf(&sb, "\nSource text:\n%s\n", text)
	}
	return sb.String()
}

func (b *PromptBuilder) writeSummaryContext(sb *strings.Builder, ctx EntityContext) {
	experiences := ctx.Experiences
	if max := b.cfg.MaxContextExperiences; max > 0 && len(experiences) > max {
		experiences = experiences[:max]
	}
	educations := ctx.Educations
	if max := b.cfg.MaxContextEducations; max > 0 && len(educations) > max {
		educations = educations[:max]
	}

	if len(experiences) > 0 {
		sb.WriteString("Recent experience:\n")
		for _, exp := range experiences {
			fmt.Fprintf(sb, "- %s at %s (%s - %s)", exp.JobTitle, exp.Company, exp.StartDate, exp.EndDate)
			if desc := strings.TrimSpace(exp.Description); desc != "" {
				fmt.Fprintf(sb, ": %s", desc)
			}
			sb.WriteString("\n")
		}
	}
	if len(educations) > 0 {
		sb.WriteString("Education:\n")
		for _, edu := range educations {
			fmt.Fprintf(sb, "- %s, %s (%s - %s)\n", edu.Degree, edu.School, edu.StartDate, edu.EndDate)
		}
	}
}

func (b *PromptBuilder) directive(t ContentType) string {
	list := b.directiveList(t)
	if len(list) == 0 {
		return "clear and professional"
	}
	return list[b.rnd.Intn(len(list))]
}

func (b *PromptBuilder) directiveList(t ContentType) []string {
	switch t {
	case ContentSummary:
		return b.cfg.SummaryStyles
	case ContentExperience:
		return b.cfg.ExperienceFocuses
	case ContentEducation:
		return b.cfg.EducationApproaches
	default:
		return b.cfg.ImprovementTones
	}
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
