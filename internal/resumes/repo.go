package resumes

import (
	"context"
	"time"
)

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	Update(ctx context.Context, resume Resume) error
	SoftDelete(ctx context.Context, userID, resumeID string) error
	// SetPaymentState flips the payment flags, bypassing the owner check;
	// it backs the payment review transaction.
	SetPaymentState(ctx context.Context, resumeID string, isPaid, needsPayment bool, paidAt *time.Time) error
}
