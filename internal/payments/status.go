package payments

import "cveezy-backend/internal/resumes"

// StatusToken is the effective payment status the UI polls for.
type StatusToken string

const (
	StatusUnpaid               StatusToken = "unpaid"
	StatusPending              StatusToken = "pending"
	StatusApproved             StatusToken = "approved"
	StatusRejected             StatusToken = "rejected"
	StatusNeedsPayment         StatusToken = "needs_payment"
	StatusNeedsPaymentModified StatusToken = "needs_payment_modified"
)

// EffectiveStatus derives the payment status from the resume's payment
// flags, the latest proof and the three timestamps involved. A proof
// created before the resume's last modification is stale and never
// reported raw; for a previously paid resume the stale case reads
// needs_payment_modified. Centralizing the precedence here keeps every
// query site consistent.
func EffectiveStatus(resume resumes.Resume, latest *PaymentProof) StatusToken {
	if latest == nil {
		if resume.NeedsPayment {
			if resume.LastPaidAt != nil {
				return StatusNeedsPaymentModified
			}
			return StatusNeedsPayment
		}
		return StatusUnpaid
	}

	if resume.LastModifiedAt != nil && latest.CreatedAt.Before(*resume.LastModifiedAt) {
		if resume.LastPaidAt != nil {
			return StatusNeedsPaymentModified
		}
		return StatusNeedsPayment
	}

	switch latest.Status {
	case ProofPending:
		return StatusPending
	case ProofRejected:
		return StatusRejected
	case ProofApproved:
		if resume.ModifiedAfterPayment() {
			return StatusNeedsPaymentModified
		}
		return StatusApproved
	}
	return StatusUnpaid
}

// Downloadable reports whether the PDF may be served. The answer is
// re-derived from the latest proof and timestamps on every call; the
// stored booleans alone are not trusted.
func Downloadable(resume resumes.Resume, latest *PaymentProof) bool {
	return resume.IsPaid && !resume.NeedsPayment && EffectiveStatus(resume, latest) == StatusApproved
}
