package payments

import "time"

// ProofStatus is the review state of an uploaded payment proof.
type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofRejected ProofStatus = "rejected"
)

// PaymentProof is one uploaded payment receipt awaiting admin review.
// The most recently created proof for a resume is the authoritative one.
type PaymentProof struct {
	ID         string
	UserID     string
	ResumeID   string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	Status     ProofStatus
	CreatedAt  time.Time
	ReviewedAt *time.Time
	ReviewedBy string
}
