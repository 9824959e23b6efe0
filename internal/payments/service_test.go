package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"cveezy-backend/internal/audit"
	"cveezy-backend/internal/resumes"
)

// fakeStore records saves without touching the filesystem.
type fakeStore struct {
	saves int
}

func (s *fakeStore) Save(ctx context.Context, userId, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	s.saves++
	return fmt.Sprintf("%s/%d-%s", userId, s.saves, fileName), int64(len(data)), "", nil
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestService(t *testing.T) (*Service, *resumes.MemoryRepo, *audit.MemoryRecorder) {
	t.Helper()
	resumeRepo := resumes.NewMemoryRepo()
	auditor := audit.NewMemoryRecorder()
	proofRepo := NewMemoryRepo(resumeRepo, auditor)
	svc := NewService(proofRepo, resumeRepo, &fakeStore{})
	svc.Now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, resumeRepo, auditor
}

func seedResume(t *testing.T, repo *resumes.MemoryRepo, userID, resumeID string) {
	t.Helper()
	err := repo.Create(context.Background(), resumes.Resume{
		ID:        resumeID,
		UserID:    userID,
		Status:    resumes.StatusDraft,
		CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed resume: %v", err)
	}
}

func TestUploadAcceptsPNG(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	proof, err := svc.Upload(context.Background(), "user-1", "resume-1", "receipt.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if proof.Status != ProofPending {
		t.Fatalf("expected pending proof, got %q", proof.Status)
	}
	if proof.MimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", proof.MimeType)
	}
	if proof.StorageKey == "" {
		t.Fatalf("proof has no storage key")
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	_, err := svc.Upload(context.Background(), "user-1", "resume-1", "notes.txt", strings.NewReader("just some text"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestUploadRejectsMalformedPDF(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	_, err := svc.Upload(context.Background(), "user-1", "resume-1", "receipt.pdf", strings.NewReader("%PDF-1.4 this is not a real pdf"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	big := make([]byte, maxProofBytes+1)
	copy(big, pngBytes)
	_, err := svc.Upload(context.Background(), "user-1", "resume-1", "huge.png", bytes.NewReader(big))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	_, err := svc.Upload(context.Background(), "user-1", "resume-1", "empty.png", bytes.NewReader(nil))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadEnforcesOwnership(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	if _, err := svc.Upload(context.Background(), "user-2", "resume-1", "receipt.png", bytes.NewReader(pngBytes)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "user-1", "missing", "receipt.png", bytes.NewReader(pngBytes)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveUnlocksResume(t *testing.T) {
	svc, resumeRepo, auditor := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	proof, err := svc.Upload(context.Background(), "user-1", "resume-1", "receipt.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	reviewed, err := svc.Approve(context.Background(), "admin-1", proof.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if reviewed.Status != ProofApproved {
		t.Fatalf("expected approved, got %q", reviewed.Status)
	}
	if reviewed.ReviewedBy != "admin-1" || reviewed.ReviewedAt == nil {
		t.Fatalf("review metadata missing: %+v", reviewed)
	}

	resume, err := resumeRepo.GetByID(context.Background(), "user-1", "resume-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !resume.IsPaid || resume.NeedsPayment || resume.LastPaidAt == nil {
		t.Fatalf("resume was not unlocked: %+v", resume)
	}

	entries := auditor.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
	if entries[0].Action != "payment_proof.approved" || entries[0].ActorID != "admin-1" || entries[0].TargetID != proof.ID {
		t.Fatalf("unexpected audit entry: %+v", entries[0])
	}
}

func TestRejectFlagsResume(t *testing.T) {
	svc, resumeRepo, auditor := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	proof, err := svc.Upload(context.Background(), "user-1", "resume-1", "receipt.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.Reject(context.Background(), "admin-1", proof.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	resume, err := resumeRepo.GetByID(context.Background(), "user-1", "resume-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if resume.IsPaid || !resume.NeedsPayment {
		t.Fatalf("resume flags after rejection: %+v", resume)
	}

	entries := auditor.Entries()
	if len(entries) != 1 || entries[0].Action != "payment_proof.rejected" {
		t.Fatalf("unexpected audit trail: %+v", entries)
	}
}

func TestReviewRejectsSecondReview(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")

	proof, err := svc.Upload(context.Background(), "user-1", "resume-1", "receipt.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Approve(context.Background(), "admin-1", proof.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.Reject(context.Background(), "admin-2", proof.ID); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestStatusLifecycle(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	seedResume(t, resumeRepo, "user-1", "resume-1")
	ctx := context.Background()

	res, err := svc.Status(ctx, "user-1", "resume-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if res.Status != StatusUnpaid || res.Downloadable || res.LatestProof != nil {
		t.Fatalf("fresh resume status: %+v", res)
	}

	proof, err := svc.Upload(ctx, "user-1", "resume-1", "receipt.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	res, err = svc.Status(ctx, "user-1", "resume-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if res.Status != StatusPending || res.Downloadable {
		t.Fatalf("status after upload: %+v", res)
	}

	if _, err := svc.Approve(ctx, "admin-1", proof.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	res, err = svc.Status(ctx, "user-1", "resume-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if res.Status != StatusApproved || !res.Downloadable {
		t.Fatalf("status after approval: %+v", res)
	}

	// Editing a paid resume locks the download again.
	resume, err := resumeRepo.GetByID(ctx, "user-1", "resume-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	modifiedAt := svc.Now().Add(time.Hour)
	resume.NeedsPayment = true
	resume.LastModifiedAt = &modifiedAt
	if err := resumeRepo.Update(ctx, resume); err != nil {
		t.Fatalf("Update: %v", err)
	}

	res, err = svc.Status(ctx, "user-1", "resume-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if res.Status != StatusNeedsPaymentModified || res.Downloadable {
		t.Fatalf("status after modification: %+v", res)
	}
}

func TestListPendingOldestFirst(t *testing.T) {
	svc, resumeRepo, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		resumeID := fmt.Sprintf("resume-%d", i)
		seedResume(t, resumeRepo, "user-1", resumeID)
		created := base.Add(time.Duration(2-i) * time.Minute)
		err := svc.Proofs.Create(ctx, PaymentProof{
			ID:        fmt.Sprintf("proof-%d", i),
			UserID:    "user-1",
			ResumeID:  resumeID,
			Status:    ProofPending,
			CreatedAt: created,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	pending, err := svc.ListPending(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending proofs, got %d", len(pending))
	}
	for i := 1; i < len(pending); i++ {
		if pending[i].CreatedAt.Before(pending[i-1].CreatedAt) {
			t.Fatalf("pending queue is not oldest first: %+v", pending)
		}
	}
}
