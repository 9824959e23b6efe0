package resumes

import "time"

// Status tracks how far the builder flow has progressed.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPublished  Status = "published"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusPublished:
		return true
	}
	return false
}

// Contact holds the personal details block of a resume.
type Contact struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DesiredJobTitle string `json:"desiredJobTitle"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	PostCode        string `json:"postCode,omitempty"`
}

// Experience is one work history entry.
type Experience struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one education history entry.
type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is a named skill with an optional proficiency level.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Language is a spoken language with an optional proficiency level.
type Language struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Website is a labeled link.
type Website struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// Reference is a professional reference.
type Reference struct {
	Name        string `json:"name"`
	Relation    string `json:"relation,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
}

// ResumeData is the structured content of a resume. Its JSON shape is the
// contract every collaborator reading or writing resume content honors.
type ResumeData struct {
	Contact        Contact      `json:"contact"`
	Experiences    []Experience `json:"experiences"`
	Educations     []Education  `json:"educations"`
	Skills         []Skill      `json:"skills"`
	Summary        string       `json:"summary"`
	Languages      []Language   `json:"languages,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Awards         []string     `json:"awards,omitempty"`
	Websites       []Website    `json:"websites,omitempty"`
	References     []Reference  `json:"references,omitempty"`
	Hobbies        []string     `json:"hobbies,omitempty"`
}

// Resume is a stored resume draft with its payment gate state.
//
// NeedsPayment is true only when a previously paid resume was modified
// afterwards, or when a payment proof was rejected. A resume is
// downloadable exactly when IsPaid && !NeedsPayment.
type Resume struct {
	ID             string
	UserID         string
	Data           ResumeData
	TemplateName   string
	Status         Status
	IsPaid         bool
	NeedsPayment   bool
	LastPaidAt     *time.Time
	LastModifiedAt *time.Time
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

// ModifiedAfterPayment reports whether the resume was edited strictly
// after it was last paid for.
func (r Resume) ModifiedAfterPayment() bool {
	if r.LastPaidAt == nil || r.LastModifiedAt == nil {
		return false
	}
	return r.LastModifiedAt.After(*r.LastPaidAt)
}
