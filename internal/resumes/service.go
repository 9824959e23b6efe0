package resumes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTemplateName = "classic"

// Service contains business logic for resume drafts.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create stores a new draft resume for the user.
func (s *Service) Create(ctx context.Context, userID, templateName string, data ResumeData) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, ErrInvalidInput
	}
	if err := ValidateData(data); err != nil {
		return Resume{}, err
	}
	if strings.TrimSpace(templateName) == "" {
		templateName = defaultTemplateName
	}

	now := time.Now().UTC()
	resume := Resume{
		ID:           uuid.NewString(),
		UserID:       userID,
		Data:         data.normalized(),
		TemplateName: templateName,
		Status:       StatusDraft,
		CreatedAt:    now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Get returns a resume by ID for a user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if userID == "" || resumeID == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// UpdateInput carries the mutable fields of a resume update.
type UpdateInput struct {
	Data         ResumeData
	TemplateName string
	Status       Status
}

// Update writes new content and marks the resume modified. Editing a paid
// resume invalidates the payment: is_paid drops and needs_payment is set,
// while last_paid_at is kept for the staleness comparison.
func (s *Service) Update(ctx context.Context, userID, resumeID string, input UpdateInput) (Resume, error) {
	if userID == "" || resumeID == "" {
		return Resume{}, ErrInvalidInput
	}
	if err := ValidateData(input.Data); err != nil {
		return Resume{}, err
	}
	if input.Status != "" && !input.Status.Valid() {
		return Resume{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}

	resume, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	resume.Data = input.Data.normalized()
	if strings.TrimSpace(input.TemplateName) != "" {
		resume.TemplateName = input.TemplateName
	}
	if input.Status != "" {
		resume.Status = input.Status
	}

	now := time.Now().UTC()
	resume.LastModifiedAt = &now
	if resume.IsPaid {
		resume.IsPaid = false
		resume.NeedsPayment = true
	}

	if err := s.Repo.Update(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Delete soft-deletes a resume for a user.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if userID == "" || resumeID == "" {
		return ErrInvalidInput
	}
	return s.Repo.SoftDelete(ctx, userID, resumeID)
}
