package enhance

// ContentType identifies which resume field a request targets.
type ContentType string

const (
	ContentSummary     ContentType = "summary"
	ContentExperience  ContentType = "experience"
	ContentEducation   ContentType = "education"
	ContentImprovement ContentType = "improvement"
)

// Valid reports whether the content type is one of the known values.
func (t ContentType) Valid() bool {
	switch t {
	case ContentSummary, ContentExperience, ContentEducation, ContentImprovement:
		return true
	}
	return false
}

// Thresholds controls when two texts are judged too similar.
type Thresholds struct {
	// TextSimilarity is a 0-100 character-level similarity percentage.
	TextSimilarity float64
	// Jaccard is a 0-1 token-overlap ratio.
	Jaccard float64
	// MinTokenLength drops short tokens before the Jaccard comparison.
	MinTokenLength int
}

// Limits bounds the sanitizer output.
type Limits struct {
	MaxSentences               int
	MaxWords                   int
	PhraseDuplicateThreshold   float64
	SentenceDuplicateThreshold float64
}

// Sampling holds the per-attempt generation parameters and their
// escalation steps. Temperature and top-p only ever increase across
// attempts, clamped to the configured maximums.
type Sampling struct {
	Temperature     float64
	TemperatureRegn float64
	TemperatureStep float64
	TemperatureMax  float64
	TopP            float64
	TopPRegn        float64
	TopPStep        float64
	TopPMax         float64
	TopK            int
	MaxOutputTokens int
}

// SynonymPair is one entry of the local paraphrase table.
type SynonymPair struct {
	From string
	To   string
}

// Rand supplies randomness for directive selection and seed generation.
// Tests substitute a fixed sequence.
type Rand interface {
	Intn(n int) int
}

// Config is the immutable tuning for the enhancement pipeline. It is
// injected at construction rather than read from ambient state.
type Config struct {
	MaxRetries int

	// Directive word lists, one per content type.
	SummaryStyles        []string
	ExperienceFocuses    []string
	EducationApproaches  []string
	ImprovementTones     []string
	GenericPhrases       []string
	Synonyms             []SynonymPair
	DetectGenericContent bool

	// Context serialization caps for summary prompts.
	MaxContextExperiences int
	MaxContextEducations  int

	MinInputLength map[ContentType]int
	Thresholds     map[ContentType]Thresholds
	Limits         map[ContentType]Limits
	Sampling       map[ContentType]Sampling
}

// DefaultConfig returns the tuning used in production.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		SummaryStyles: []string{
			"confident and direct",
			"warm and professional",
			"achievement-led",
			"concise and factual",
		},
		ExperienceFocuses: []string{
			"measurable outcomes",
			"scope of responsibility",
			"collaboration and leadership",
			"technical depth",
		},
		EducationApproaches: []string{
			"coursework and specialization",
			"academic achievements",
			"practical projects",
			"skills gained",
		},
		ImprovementTones: []string{
			"sharper and more specific",
			"more active voice",
			"tighter and clearer",
		},
		GenericPhrases: []string{
			"hard worker",
			"team player",
			"responsible for",
			"various tasks",
			"worked on stuff",
			"did things",
			"good communication skills",
		},
		Synonyms: []SynonymPair{
			{From: "responsible for", To: "accountable for"},
			{From: "worked with", To: "partnered with"},
			{From: "worked on", To: "delivered"},
			{From: "helped", To: "supported"},
			{From: "improved", To: "strengthened"},
			{From: "managed", To: "led"},
			{From: "created", To: "built"},
			{From: "developed", To: "designed"},
			{From: "experienced", To: "seasoned"},
			{From: "skilled", To: "proficient"},
		},
		DetectGenericContent:  true,
		MaxContextExperiences: 3,
		MaxContextEducations:  2,
		MinInputLength: map[ContentType]int{
			ContentSummary:     20,
			ContentExperience:  10,
			ContentEducation:   10,
			ContentImprovement: 10,
		},
		Thresholds: map[ContentType]Thresholds{
			ContentSummary:     {TextSimilarity: 70, Jaccard: 0.60, MinTokenLength: 3},
			ContentExperience:  {TextSimilarity: 80, Jaccard: 0.75, MinTokenLength: 3},
			ContentEducation:   {TextSimilarity: 80, Jaccard: 0.75, MinTokenLength: 3},
			ContentImprovement: {TextSimilarity: 80, Jaccard: 0.75, MinTokenLength: 3},
		},
		Limits: map[ContentType]Limits{
			ContentSummary:     {MaxSentences: 5, MaxWords: 120, PhraseDuplicateThreshold: 85, SentenceDuplicateThreshold: 80},
			ContentExperience:  {MaxSentences: 3, MaxWords: 60, PhraseDuplicateThreshold: 85, SentenceDuplicateThreshold: 80},
			ContentEducation:   {MaxSentences: 3, MaxWords: 60, PhraseDuplicateThreshold: 85, SentenceDuplicateThreshold: 80},
			ContentImprovement: {MaxSentences: 4, MaxWords: 90, PhraseDuplicateThreshold: 85, SentenceDuplicateThreshold: 80},
		},
		Sampling: map[ContentType]Sampling{
			ContentSummary:     {Temperature: 0.70, TemperatureRegn: 0.85, TemperatureStep: 0.10, TemperatureMax: 1.00, TopP: 0.90, TopPRegn: 0.95, TopPStep: 0.02, TopPMax: 0.98, TopK: 40, MaxOutputTokens: 512},
			ContentExperience:  {Temperature: 0.70, TemperatureRegn: 0.85, TemperatureStep: 0.10, TemperatureMax: 1.00, TopP: 0.90, TopPRegn: 0.95, TopPStep: 0.02, TopPMax: 0.98, TopK: 40, MaxOutputTokens: 256},
			ContentEducation:   {Temperature: 0.70, TemperatureRegn: 0.85, TemperatureStep: 0.10, TemperatureMax: 1.00, TopP: 0.90, TopPRegn: 0.95, TopPStep: 0.02, TopPMax: 0.98, TopK: 40, MaxOutputTokens: 256},
			ContentImprovement: {Temperature: 0.65, TemperatureRegn: 0.80, TemperatureStep: 0.10, TemperatureMax: 1.00, TopP: 0.90, TopPRegn: 0.95, TopPStep: 0.02, TopPMax: 0.98, TopK: 40, MaxOutputTokens: 384},
		},
	}
}

// ThresholdsFor returns the similarity thresholds for a content type,
// falling back to the improvement tuning for unknown types.
func (c Config) ThresholdsFor(t ContentType) Thresholds {
	if th, ok := c.Thresholds[t]; ok {
		return th
	}
	return c.Thresholds[ContentImprovement]
}

// LimitsFor returns the sanitizer limits for a content type.
func (c Config) LimitsFor(t ContentType) Limits {
	if lim, ok := c.Limits[t]; ok {
		return lim
	}
	return c.Limits[ContentImprovement]
}

// SamplingFor returns the sampling parameters for a content type.
func (c Config) SamplingFor(t ContentType) Sampling {
	if s, ok := c.Sampling[t]; ok {
		return s
	}
	return c.Sampling[ContentImprovement]
}

// MinLengthFor returns the minimum accepted input length for a content type.
func (c Config) MinLengthFor(t ContentType) int {
	if n, ok := c.MinInputLength[t]; ok {
		return n
	}
	return 10
}
