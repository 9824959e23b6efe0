package llm

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Generator abstracts the text-generation collaborator used for resume
// field enhancement.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (GenerateResult, error)
}

// GenerateInput captures one generation request.
type GenerateInput struct {
	Prompt           string
	ResponseMIMEType string
	MaxOutputTokens  int
	Temperature      float64
	TopP             float64
	TopK             int
}

// GenerateResult mirrors the provider's candidate structure.
type GenerateResult struct {
	Candidates []Candidate
}

// Candidate is one generated alternative.
type Candidate struct {
	Content Content
}

// Content holds the candidate parts.
type Content struct {
	Parts []Part
}

// Part is a single text fragment of a candidate.
type Part struct {
	Text string
}

// FirstText returns the text of the first non-empty candidate part.
func (r GenerateResult) FirstText() string {
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

// ErrNotConfigured is returned by the placeholder generator.
var ErrNotConfigured = errors.New("generator not configured")

// PlaceholderGenerator is a stub implementation used when no provider is wired.
type PlaceholderGenerator struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderGenerator) Generate(ctx context.Context, input GenerateInput) (GenerateResult, error) {
	_ = ctx
	_ = input
	return GenerateResult{}, ErrNotConfigured
}

// IsTransient reports whether a generator error looks like a timeout or
// transport failure rather than a permanent one. Transient errors are
// treated as "no candidate this attempt" by the enhancement loop.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "client.timeout") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
