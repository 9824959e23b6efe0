package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Resume)}
}

// Create stores the resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[resume.ID] = resume
	return nil
}

// GetByID returns a resume by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[resumeID]
	if !ok || resume.DeletedAt != nil {
		return Resume{}, ErrNotFound
	}
	if resume.UserID != userID {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

// ListByUser returns resumes for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	var resumes []Resume
	for _, resume := range r.byID {
		if resume.UserID == userID && resume.DeletedAt == nil {
			resumes = append(resumes, resume)
		}
	}
	r.mu.RUnlock()

	sort.Slice(resumes, func(i, j int) bool {
		return resumes[i].CreatedAt.After(resumes[j].CreatedAt)
	})

	if offset >= len(resumes) {
		return []Resume{}, nil
	}
	end := len(resumes)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return resumes[offset:end], nil
}

// Update overwrites the stored resume for its owner.
func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[resume.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	if existing.UserID != resume.UserID {
		return ErrForbidden
	}
	r.byID[resume.ID] = resume
	return nil
}

// SoftDelete marks the resume deleted for its owner.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[resumeID]
	if !ok || resume.DeletedAt != nil {
		return ErrNotFound
	}
	if resume.UserID != userID {
		return ErrForbidden
	}
	now := time.Now().UTC()
	resume.DeletedAt = &now
	r.byID[resumeID] = resume
	return nil
}

// SetPaymentState flips the payment flags without an owner check.
func (r *MemoryRepo) SetPaymentState(ctx context.Context, resumeID string, isPaid, needsPayment bool, paidAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[resumeID]
	if !ok || resume.DeletedAt != nil {
		return ErrNotFound
	}
	resume.IsPaid = isPaid
	resume.NeedsPayment = needsPayment
	if paidAt != nil {
		t := *paidAt
		resume.LastPaidAt = &t
	}
	r.byID[resumeID] = resume
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
