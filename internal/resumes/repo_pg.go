package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, resume_data, template_name, status, is_paid, needs_payment, last_paid_at, last_modified_at, created_at`

// Create inserts a resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	payload, err := json.Marshal(resume.Data.normalized())
	if err != nil {
		return err
	}
	const query = `
INSERT INTO resumes (
    id, user_id, resume_data, template_name, status, is_paid, needs_payment, last_paid_at, last_modified_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		payload,
		resume.TemplateName,
		string(resume.Status),
		resume.IsPaid,
		resume.NeedsPayment,
		resume.LastPaidAt,
		resume.LastModifiedAt,
		resume.CreatedAt,
	)
	return err
}

// GetByID returns a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

// ListByUser lists resumes ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
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
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Update writes the mutable resume fields.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	payload, err := json.Marshal(resume.Data.normalized())
	if err != nil {
		return err
	}
	const query = `
UPDATE resumes
SET resume_data = $1,
    template_name = $2,
    status = $3,
    is_paid = $4,
    needs_payment = $5,
    last_paid_at = $6,
    last_modified_at = $7
WHERE id = $8 AND user_id = $9 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query,
		payload,
		resume.TemplateName,
		string(resume.Status),
		resume.IsPaid,
		resume.NeedsPayment,
		resume.LastPaidAt,
		resume.LastModifiedAt,
		resume.ID,
		resume.UserID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a resume deleted for a user.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, resumeID string) error {
	const query = `
UPDATE resumes SET deleted_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, resumeID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentState flips the payment flags without an owner check.
func (r *PGRepo) SetPaymentState(ctx context.Context, resumeID string, isPaid, needsPayment bool, paidAt *time.Time) error {
	const query = `
UPDATE resumes
SET is_paid = $1, needs_payment = $2, last_paid_at = COALESCE($3, last_paid_at)
WHERE id = $4 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, isPaid, needsPayment, paidAt, resumeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var payload []byte
	var status string
	var lastPaidAt sql.NullTime
	var lastModifiedAt sql.NullTime
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&payload,
		&resume.TemplateName,
		&status,
		&resume.IsPaid,
		&resume.NeedsPayment,
		&lastPaidAt,
		&lastModifiedAt,
		&resume.CreatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	resume.Status = Status(status)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &resume.Data); err != nil {
			return Resume{}, err
		}
	}
	if lastPaidAt.Valid {
		t := lastPaidAt.Time
		resume.LastPaidAt = &t
	}
	if lastModifiedAt.Valid {
		t := lastModifiedAt.Time
		resume.LastModifiedAt = &t
	}
	return resume, nil
}

var _ Repo = (*PGRepo)(nil)
