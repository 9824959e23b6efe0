package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

var resumeColumnList = []string{
	"id", "user_id", "resume_data", "template_name", "status",
	"is_paid", "needs_payment", "last_paid_at", "last_modified_at", "created_at",
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(resumeColumnList).AddRow(
		"resume-1", "user-1", []byte(`{"summary":"Engineer."}`), "classic", "draft",
		false, false, nil, nil, createdAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("resume-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	resume, err := repo.GetByID(context.Background(), "user-1", "resume-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if resume.Data.Summary != "Engineer." {
		t.Fatalf("resume data not decoded: %+v", resume.Data)
	}
	if resume.Status != StatusDraft || resume.TemplateName != "classic" {
		t.Fatalf("unexpected resume: %+v", resume)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(resumeColumnList).AddRow(
		"resume-1", "user-1", []byte(`{}`), "classic", "draft",
		false, false, nil, nil, time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("resume-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "someone-else", "resume-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(resumeColumnList))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoSetPaymentStateKeepsPaidAtOnReject(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// A nil paidAt relies on COALESCE to keep the stored last_paid_at.
	mock.ExpectExec("UPDATE resumes SET is_paid = (.+), needs_payment = (.+), last_paid_at = COALESCE").
		WithArgs(false, true, nil, "resume-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.SetPaymentState(context.Background(), "resume-1", false, true, nil); err != nil {
		t.Fatalf("SetPaymentState: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoSetPaymentStateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	paidAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE resumes SET is_paid").
		WithArgs(true, false, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.SetPaymentState(context.Background(), "missing", true, false, &paidAt); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE resumes").
		WithArgs(sqlmock.AnyArg(), "classic", "draft", false, false, nil, sqlmock.AnyArg(), "resume-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	now := time.Now().UTC()
	repo := &PGRepo{DB: db}
	err = repo.Update(context.Background(), Resume{
		ID:             "resume-1",
		UserID:         "user-1",
		TemplateName:   "classic",
		Status:         StatusDraft,
		LastModifiedAt: &now,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
