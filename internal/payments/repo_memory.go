package payments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cveezy-backend/internal/audit"
)

// ResumeStateWriter flips a resume's payment flags. Satisfied by the
// resumes repositories.
type ResumeStateWriter interface {
	SetPaymentState(ctx context.Context, resumeID string, isPaid, needsPayment bool, paidAt *time.Time) error
}

// MemoryRepo is an in-memory Repo for tests and local runs.
type MemoryRepo struct {
	mu      sync.Mutex
	proofs  map[string]PaymentProof
	resumes ResumeStateWriter
	auditor audit.Recorder
}

// NewMemoryRepo builds an empty in-memory repository. The resume writer
// and audit recorder stand in for the cross-table work the Postgres
// implementation does in one transaction.
func NewMemoryRepo(resumes ResumeStateWriter, auditor audit.Recorder) *MemoryRepo {
	return &MemoryRepo{
		proofs:  make(map[string]PaymentProof),
		resumes: resumes,
		auditor: auditor,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, proof PaymentProof) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proofs[proof.ID] = proof
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, proofID string) (PaymentProof, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proof, ok := r.proofs[proofID]
	if !ok {
		return PaymentProof{}, ErrNotFound
	}
	return proof, nil
}

func (r *MemoryRepo) LatestByResume(ctx context.Context, resumeID string) (PaymentProof, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest PaymentProof
	found := false
	for _, proof := range r.proofs {
		if proof.ResumeID != resumeID {
			continue
		}
		if !found || proof.CreatedAt.After(latest.CreatedAt) {
			latest = proof
			found = true
		}
	}
	if !found {
		return PaymentProof{}, ErrNotFound
	}
	return latest, nil
}

func (r *MemoryRepo) ListPending(ctx context.Context, limit, offset int) ([]PaymentProof, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.Lock()
	var pending []PaymentProof
	for _, proof := range r.proofs {
		if proof.Status == ProofPending {
			pending = append(pending, proof)
		}
	}
	r.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if offset >= len(pending) {
		return nil, nil
	}
	pending = pending[offset:]
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *MemoryRepo) Review(ctx context.Context, cmd ReviewCmd) (PaymentProof, error) {
	r.mu.Lock()
	proof, ok := r.proofs[cmd.ProofID]
	if !ok {
		r.mu.Unlock()
		return PaymentProof{}, ErrNotFound
	}
	if proof.Status != ProofPending {
		r.mu.Unlock()
		return PaymentProof{}, ErrStateConflict
	}

	newStatus := ProofRejected
	action := "payment_proof.rejected"
	if cmd.Approve {
		newStatus = ProofApproved
		action = "payment_proof.approved"
	}
	proof.Status = newStatus
	reviewedAt := cmd.Now
	proof.ReviewedAt = &reviewedAt
	proof.ReviewedBy = cmd.ReviewerID
	r.proofs[cmd.ProofID] = proof
	r.mu.Unlock()

	var err error
	if cmd.Approve {
		paidAt := cmd.Now
		err = r.resumes.SetPaymentState(ctx, proof.ResumeID, true, false, &paidAt)
	} else {
		err = r.resumes.SetPaymentState(ctx, proof.ResumeID, false, true, nil)
	}
	if err != nil {
		return PaymentProof{}, err
	}

	if r.auditor != nil {
		entry := audit.Entry{
			ID:         uuid.NewString(),
			ActorID:    cmd.ReviewerID,
			Action:     action,
			TargetType: "payment_proof",
			TargetID:   cmd.ProofID,
			CreatedAt:  cmd.Now,
		}
		if err := r.auditor.Record(ctx, entry); err != nil {
			return PaymentProof{}, err
		}
	}
	return proof, nil
}

var _ Repo = (*MemoryRepo)(nil)
