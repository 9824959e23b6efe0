package payments

import "errors"

var (
	// ErrNotFound indicates the proof does not exist.
	ErrNotFound = errors.New("payment proof not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the proof belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrStateConflict indicates a review action on a proof that has
	// already been reviewed.
	ErrStateConflict = errors.New("proof already reviewed")

	// ErrUnsupportedFile indicates the uploaded proof is not an accepted
	// image or PDF.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
