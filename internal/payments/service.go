package payments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"cveezy-backend/internal/resumes"
	"cveezy-backend/internal/shared/storage/object"
)

// maxProofBytes caps uploaded proof files at 10 MB.
const maxProofBytes = 10 << 20

// Service coordinates proof uploads, status queries and admin review.
type Service struct {
	Proofs  Repo
	Resumes resumes.Repo
	Store   object.ObjectStore
	Now     func() time.Time
}

// NewService wires a Service. Now defaults to time.Now.
func NewService(proofs Repo, resumeRepo resumes.Repo, store object.ObjectStore) *Service {
	return &Service{Proofs: proofs, Resumes: resumeRepo, Store: store, Now: time.Now}
}

// Upload stores a payment proof for the user's resume and records it as
// pending review. Accepts JPEG, PNG and PDF up to 10 MB; PDFs must parse
// with at least one page.
func (s *Service) Upload(ctx context.Context, userID, resumeID, fileName string, file io.Reader) (PaymentProof, error) {
	if strings.TrimSpace(fileName) == "" {
		return PaymentProof{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	// Ownership check doubles as the existence check.
	if _, err := s.Resumes.GetByID(ctx, userID, resumeID); err != nil {
		switch err {
		case resumes.ErrNotFound:
			return PaymentProof{}, ErrNotFound
		case resumes.ErrForbidden:
			return PaymentProof{}, ErrForbidden
		}
		return PaymentProof{}, err
	}

	data, err := io.ReadAll(io.LimitReader(file, maxProofBytes+1))
	if err != nil {
		return PaymentProof{}, fmt.Errorf("read proof: %w", err)
	}
	if len(data) == 0 {
		return PaymentProof{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if len(data) > maxProofBytes {
		return PaymentProof{}, fmt.Errorf("%w: file exceeds 10MB", ErrInvalidInput)
	}

	mimeType, err := sniffProofType(data)
	if err != nil {
		return PaymentProof{}, err
	}

	storageKey, sizeBytes, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return PaymentProof{}, fmt.Errorf("store proof: %w", err)
	}

	proof := PaymentProof{
		ID:         uuid.NewString(),
		UserID:     userID,
		ResumeID:   resumeID,
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  sizeBytes,
		Status:     ProofPending,
		CreatedAt:  s.Now().UTC(),
	}
	if err := s.Proofs.Create(ctx, proof); err != nil {
		return PaymentProof{}, err
	}
	return proof, nil
}

// sniffProofType detects the content type from the file bytes and rejects
// anything that is not a JPEG, PNG or well-formed PDF.
func sniffProofType(data []byte) (string, error) {
	mimeType := http.DetectContentType(data)
	switch mimeType {
	case "image/jpeg", "image/png":
		return mimeType, nil
	case "application/pdf":
		reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return "", fmt.Errorf("%w: malformed pdf", ErrUnsupportedFile)
		}
		if reader.NumPage() < 1 {
			return "", fmt.Errorf("%w: pdf has no pages", ErrUnsupportedFile)
		}
		return mimeType, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, mimeType)
}

// StatusResult is the derived payment state of one resume.
type StatusResult struct {
	Status       StatusToken
	Downloadable bool
	LatestProof  *PaymentProof
}

// Status derives the effective payment status for the user's resume.
func (s *Service) Status(ctx context.Context, userID, resumeID string) (StatusResult, error) {
	resume, err := s.Resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		switch err {
		case resumes.ErrNotFound:
			return StatusResult{}, ErrNotFound
		case resumes.ErrForbidden:
			return StatusResult{}, ErrForbidden
		}
		return StatusResult{}, err
	}

	var latest *PaymentProof
	proof, err := s.Proofs.LatestByResume(ctx, resumeID)
	if err == nil {
		latest = &proof
	} else if err != ErrNotFound {
		return StatusResult{}, err
	}

	return StatusResult{
		Status:       EffectiveStatus(resume, latest),
		Downloadable: Downloadable(resume, latest),
		LatestProof:  latest,
	}, nil
}

// CheckDownloadable reports whether the user's resume may be exported.
func (s *Service) CheckDownloadable(ctx context.Context, userID, resumeID string) (resumes.Resume, bool, error) {
	resume, err := s.Resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		return resumes.Resume{}, false, err
	}

	var latest *PaymentProof
	proof, err := s.Proofs.LatestByResume(ctx, resumeID)
	if err == nil {
		latest = &proof
	} else if err != ErrNotFound {
		return resumes.Resume{}, false, err
	}
	return resume, Downloadable(resume, latest), nil
}

// Approve marks a pending proof approved and unlocks the resume.
func (s *Service) Approve(ctx context.Context, reviewerID, proofID string) (PaymentProof, error) {
	return s.Proofs.Review(ctx, ReviewCmd{
		ProofID:    proofID,
		ReviewerID: reviewerID,
		Approve:    true,
		Now:        s.Now().UTC(),
	})
}

// Reject marks a pending proof rejected and flags the resume for payment.
func (s *Service) Reject(ctx context.Context, reviewerID, proofID string) (PaymentProof, error) {
	return s.Proofs.Review(ctx, ReviewCmd{
		ProofID:    proofID,
		ReviewerID: reviewerID,
		Approve:    false,
		Now:        s.Now().UTC(),
	})
}

// ListPending returns the admin review queue, oldest first.
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]PaymentProof, error) {
	return s.Proofs.ListPending(ctx, limit, offset)
}
