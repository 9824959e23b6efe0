package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ResumeID          string     `json:"resumeId"`
	TemplateName      string     `json:"templateName"`
	Status            Status     `json:"status"`
	IsPaid            bool       `json:"isPaid"`
	NeedsPayment      bool       `json:"needsPayment"`
	LastPaidAt        *time.Time `json:"lastPaidAt,omitempty"`
	LastModifiedAt    *time.Time `json:"lastModifiedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	YearsOfExperience int        `json:"yearsOfExperience"`
	ResumeData        ResumeData `json:"resumeData"`
}

func toResponse(resume Resume, now time.Time) ResumeResponse {
	return ResumeResponse{
		ResumeID:          resume.ID,
		TemplateName:      resume.TemplateName,
		Status:            resume.Status,
		IsPaid:            resume.IsPaid,
		NeedsPayment:      resume.NeedsPayment,
		LastPaidAt:        resume.LastPaidAt,
		LastModifiedAt:    resume.LastModifiedAt,
		CreatedAt:         resume.CreatedAt,
		YearsOfExperience: YearsOfExperience(resume.Data, now),
		ResumeData:        resume.Data.normalized(),
	}
}
