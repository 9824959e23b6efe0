package payments

import (
	"context"
	"time"
)

// ReviewCmd is one admin review action against a pending proof.
type ReviewCmd struct {
	ProofID    string
	ReviewerID string
	Approve    bool
	Now        time.Time
}

// Repo defines persistence operations for payment proofs. Review applies
// the proof transition and the owning resume's payment flags atomically.
type Repo interface {
	Create(ctx context.Context, proof PaymentProof) error
	GetByID(ctx context.Context, proofID string) (PaymentProof, error)
	LatestByResume(ctx context.Context, resumeID string) (PaymentProof, error)
	ListPending(ctx context.Context, limit, offset int) ([]PaymentProof, error)
	Review(ctx context.Context, cmd ReviewCmd) (PaymentProof, error)
}
