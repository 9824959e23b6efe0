package enhance

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cveezy-backend/internal/llm"
	"cveezy-backend/internal/shared/metrics"
)

// seedStride spaces the per-attempt seeds apart so consecutive attempts
// land on clearly different variations.
const seedStride = 7919

// Request is one enhancement run.
type Request struct {
	ContentType ContentType
	FieldText   string
	CurrentText string
	Context     EntityContext
	// AvoidList holds previously shown candidates for the same field;
	// new output must not repeat any of them.
	AvoidList  []string
	Regenerate bool
}

// Result is the outcome of a run. Fallback marks the locally templated
// text used when every generation attempt was rejected.
type Result struct {
	Text     string
	Fallback bool
	Attempts int
}

// Orchestrator drives the multi-attempt enhancement loop. It holds no
// request state, so abandoned requests need no cleanup.
type Orchestrator struct {
	gen     llm.Generator
	cfg     Config
	rnd     Rand
	prompts *PromptBuilder
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(gen llm.Generator, cfg Config, rnd Rand) *Orchestrator {
	return &Orchestrator{
		gen:     gen,
		cfg:     cfg,
		rnd:     rnd,
		prompts: NewPromptBuilder(cfg, rnd),
	}
}

// Enhance validates the request, runs up to MaxRetries generation
// attempts with escalating sampling parameters, and falls back to a
// deterministic local template when all attempts are rejected. Generator
// failures never escape: the caller gets either usable text or a typed
// validation error.
func (o *Orchestrator) Enhance(ctx context.Context, req Request) (Result, error) {
	if err := o.validate(req); err != nil {
		return Result{}, err
	}
	metrics.IncEnhanceStarted()
	startMs := metrics.NowMillis()
	defer func() {
		metrics.ObserveEnhanceDurationMs(metrics.NowMillis() - startMs)
	}()

	thresholds := o.cfg.ThresholdsFor(req.ContentType)
	sanitizer := Sanitizer{
		Limits:     o.cfg.LimitsFor(req.ContentType),
		Thresholds: thresholds,
		Synonyms:   o.cfg.Synonyms,
	}
	sampling := o.cfg.SamplingFor(req.ContentType)
	key := ResponseKey(req.ContentType)
	original := strings.TrimSpace(req.CurrentText)
	if original == "" {
		original = strings.TrimSpace(req.FieldText)
	}

	maxRetries := o.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	seedBase := int64(o.rnd.Intn(1_000_000))

	for attempt := 0; attempt < maxRetries; attempt++ {
		variant := ""
		if req.Regenerate {
			variant = fmt.Sprintf("regen-%d", attempt)
		}
		prompt := o.prompts.Build(PromptRequest{
			ContentType: req.ContentType,
			FieldText:   req.FieldText,
			Context:     req.Context,
			Seed:        seedBase + int64(attempt)*seedStride,
			VariantTag:  variant,
		})

		input := llm.GenerateInput{
			Prompt:           prompt,
			ResponseMIMEType: "application/json",
			MaxOutputTokens:  sampling.MaxOutputTokens,
			Temperature:      temperatureFor(sampling, attempt, req.Regenerate),
			TopP:             topPFor(sampling, attempt, req.Regenerate),
			TopK:             sampling.TopK,
		}

		generated, err := o.gen.Generate(ctx, input)
		if err != nil {
			// Timeouts and transport failures cost the attempt, never the run.
			log.Printf("enhance attempt=%d type=%s generator error: %v", attempt+1, req.ContentType, err)
			continue
		}

		candidate := ExtractCandidate(generated, key)
		if candidate == "" {
			log.Printf("enhance attempt=%d type=%s no usable candidate", attempt+1, req.ContentType)
			continue
		}

		cleaned := sanitizer.Sanitize(candidate, original)
		if cleaned == "" {
			continue
		}
		if original != "" && TooSimilar(original, cleaned, thresholds) {
			log.Printf("enhance attempt=%d type=%s rejected: too similar to current", attempt+1, req.ContentType)
			continue
		}
		if repeatsAvoided(cleaned, req.AvoidList, thresholds) {
			log.Printf("enhance attempt=%d type=%s rejected: repeats earlier candidate", attempt+1, req.ContentType)
			continue
		}

		metrics.IncEnhanceCompleted()
		return o.postCheck(Result{Text: cleaned, Attempts: attempt + 1}, req, sanitizer), nil
	}

	metrics.IncEnhanceFallback()
	fallback := sanitizer.Sanitize(o.fallbackText(req), "")
	return o.postCheck(Result{Text: fallback, Fallback: true, Attempts: maxRetries}, req, sanitizer), nil
}

func temperatureFor(s Sampling, attempt int, regenerate bool) float64 {
	start := s.Temperature
	if regenerate && s.TemperatureRegn > start {
		start = s.TemperatureRegn
	}
	val := start + float64(attempt)*s.TemperatureStep
	if s.TemperatureMax > 0 && val > s.TemperatureMax {
		val = s.TemperatureMax
	}
	return val
}

func topPFor(s Sampling, attempt int, regenerate bool) float64 {
	start := s.TopP
	if regenerate && s.TopPRegn > start {
		start = s.TopPRegn
	}
	val := start + float64(attempt)*s.TopPStep
	if s.TopPMax > 0 && val > s.TopPMax {
		val = s.TopPMax
	}
	return val
}

func repeatsAvoided(candidate string, avoid []string, t Thresholds) bool {
	for _, prev := range avoid {
		if strings.TrimSpace(prev) == "" {
			continue
		}
		if TooSimilar(prev, candidate, t) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) validate(req Request) error {
	if missing := missingFields(req); len(missing) > 0 {
		return &MissingRequiredFieldsError{Fields: missing}
	}

	text := strings.TrimSpace(req.FieldText)
	minLen := o.cfg.MinLengthFor(req.ContentType)
	if len(text) < minLen {
		return &InsufficientContentError{MinLength: minLen}
	}

	if o.cfg.DetectGenericContent && len(text) < 3*minLen {
		lower := strings.ToLower(text)
		for _, phrase := range o.cfg.GenericPhrases {
			if strings.Contains(lower, phrase) {
				return &GenericContentError{Phrase: phrase}
			}
		}
	}
	return nil
}

func missingFields(req Request) []string {
	var missing []string
	switch req.ContentType {
	case ContentExperience:
		if strings.TrimSpace(req.Context.JobTitle) == "" {
			missing = append(missing, "jobTitle")
		}
		if strings.TrimSpace(req.Context.Company) == "" {
			missing = append(missing, "company")
		}
	case ContentEducation:
		if strings.TrimSpace(req.Context.Degree) == "" {
			missing = append(missing, "degree")
		}
		if strings.TrimSpace(req.Context.School) == "" {
			missing = append(missing, "school")
		}
	case ContentSummary:
		if strings.TrimSpace(req.Context.JobTitle) == "" {
			missing = append(missing, "desiredJobTitle")
		}
	}
	return missing
}

// fallbackText synthesizes a deterministic local result from the context
// fields. No external call, always succeeds.
func (o *Orchestrator) fallbackText(req Request) string {
	ctx := req.Context
	switch req.ContentType {
	case ContentSummary:
		company := ""
		if len(ctx.Experiences) > 0 {
			company = ctx.Experiences[0].Company
		}
		base := fmt.Sprintf("Experienced %s", orUnknown(ctx.JobTitle, "professional"))
		if company != "" {
			base += fmt.Sprintf(" with a track record at %s", company)
		}
		return base + ". Skilled at delivering consistent results and adapting quickly to new challenges. Ready to bring proven expertise to the next role."
	case ContentExperience:
		return fmt.Sprintf("Served as %s at %s, delivering assigned work to a consistent standard and contributing to team goals.",
			orUnknown(ctx.JobTitle, "a professional"), orUnknown(ctx.Company, "the company"))
	case ContentEducation:
		return fmt.Sprintf("Completed %s at %s, building a solid foundation of practical and theoretical knowledge.",
			orUnknown(ctx.Degree, "the program"), orUnknown(ctx.School, "the institution"))
	default:
		return Normalize(req.FieldText)
	}
}

// postCheck appends a short anchor clause when the final text misses the
// expected anchor term or falls under the minimum length, then re-runs
// the sanitizer.
func (o *Orchestrator) postCheck(res Result, req Request, sanitizer Sanitizer) Result {
	anchor := strings.TrimSpace(req.Context.JobTitle)
	if req.ContentType != ContentSummary || anchor == "" {
		return res
	}

	minLen := o.cfg.MinLengthFor(req.ContentType)
	hasAnchor := strings.Contains(strings.ToLower(res.Text), strings.ToLower(anchor))
	if hasAnchor && len(res.Text) >= minLen {
		return res
	}

	res.Text = sanitizer.Sanitize(res.Text+" Focused on excelling as a "+anchor+".", "")
	return res
}
