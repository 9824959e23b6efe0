package payments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const proofColumns = `id, user_id, resume_id, storage_key, mime_type, size_bytes, status, created_at, reviewed_at, reviewed_by`

// Create inserts a payment proof.
func (r *PGRepo) Create(ctx context.Context, proof PaymentProof) error {
	const query = `
INSERT INTO payment_proofs (
    id, user_id, resume_id, storage_key, mime_type, size_bytes, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		proof.ID,
		proof.UserID,
		proof.ResumeID,
		proof.StorageKey,
		proof.MimeType,
		proof.SizeBytes,
		string(proof.Status),
		proof.CreatedAt,
	)
	return err
}

// GetByID returns a proof by ID.
func (r *PGRepo) GetByID(ctx context.Context, proofID string) (PaymentProof, error) {
	const query = `
SELECT ` + proofColumns + `
FROM payment_proofs
WHERE id = $1
LIMIT 1`
	proof, err := scanProof(r.DB.QueryRowContext(ctx, query, proofID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentProof{}, ErrNotFound
		}
		return PaymentProof{}, err
	}
	return proof, nil
}

// LatestByResume returns the most recently created proof for a resume.
func (r *PGRepo) LatestByResume(ctx context.Context, resumeID string) (PaymentProof, error) {
	const query = `
SELECT ` + proofColumns + `
FROM payment_proofs
WHERE resume_id = $1
ORDER BY created_at DESC
LIMIT 1`
	proof, err := scanProof(r.DB.QueryRowContext(ctx, query, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentProof{}, ErrNotFound
		}
		return PaymentProof{}, err
	}
	return proof, nil
}

// ListPending returns pending proofs oldest-first for the review queue.
func (r *PGRepo) ListPending(ctx context.Context, limit, offset int) ([]PaymentProof, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + proofColumns + `
FROM payment_proofs
WHERE status = 'pending'
ORDER BY created_at ASC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentProof
	for rows.Next() {
		proof, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, proof)
	}
	return out, rows.Err()
}

// Review transitions a pending proof and the owning resume's payment
// flags in one transaction, recording the action in the audit log.
// Either everything commits or nothing does.
func (r *PGRepo) Review(ctx context.Context, cmd ReviewCmd) (PaymentProof, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return PaymentProof{}, err
	}
	defer tx.Rollback()

	const lockQuery = `
SELECT ` + proofColumns + `
FROM payment_proofs
WHERE id = $1
FOR UPDATE`
	proof, err := scanProof(tx.QueryRowContext(ctx, lockQuery, cmd.ProofID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentProof{}, ErrNotFound
		}
		return PaymentProof{}, err
	}
	if proof.Status != ProofPending {
		return PaymentProof{}, ErrStateConflict
	}

	newStatus := ProofRejected
	action := "payment_proof.rejected"
	if cmd.Approve {
		newStatus = ProofApproved
		action = "payment_proof.approved"
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE payment_proofs SET status = $1, reviewed_at = $2, reviewed_by = $3 WHERE id = $4`,
		string(newStatus), cmd.Now, cmd.ReviewerID, cmd.ProofID); err != nil {
		return PaymentProof{}, err
	}

	if cmd.Approve {
		_, err = tx.ExecContext(ctx, `
UPDATE resumes SET is_paid = TRUE, needs_payment = FALSE, last_paid_at = $1 WHERE id = $2`,
			cmd.Now, proof.ResumeID)
	} else {
		_, err = tx.ExecContext(ctx, `
UPDATE resumes SET is_paid = FALSE, needs_payment = TRUE WHERE id = $1`,
			proof.ResumeID)
	}
	if err != nil {
		return PaymentProof{}, err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO audit_logs (id, actor_id, action, target_type, target_id, created_at)
VALUES ($1, $2, $3, 'payment_proof', $4, $5)`,
		uuid.NewString(), cmd.ReviewerID, action, cmd.ProofID, cmd.Now); err != nil {
		return PaymentProof{}, err
	}

	if err := tx.Commit(); err != nil {
		return PaymentProof{}, err
	}

	proof.Status = newStatus
	reviewedAt := cmd.Now
	proof.ReviewedAt = &reviewedAt
	proof.ReviewedBy = cmd.ReviewerID
	return proof, nil
}

func scanProof(row interface{ Scan(dest ...any) error }) (PaymentProof, error) {
	var proof PaymentProof
	var status string
	var reviewedAt sql.NullTime
	var reviewedBy sql.NullString
	err := row.Scan(
		&proof.ID,
		&proof.UserID,
		&proof.ResumeID,
		&proof.StorageKey,
		&proof.MimeType,
		&proof.SizeBytes,
		&status,
		&proof.CreatedAt,
		&reviewedAt,
		&reviewedBy,
	)
	if err != nil {
		return PaymentProof{}, err
	}
	proof.Status = ProofStatus(status)
	if reviewedAt.Valid {
		t := reviewedAt.Time
		proof.ReviewedAt = &t
	}
	if reviewedBy.Valid {
		proof.ReviewedBy = reviewedBy.String
	}
	return proof, nil
}

var _ Repo = (*PGRepo)(nil)
