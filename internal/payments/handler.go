package payments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cveezy-backend/internal/shared/server/middleware"
	"cveezy-backend/internal/shared/server/respond"
)

// Handler wires payment proof HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches user-facing payment routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/payment-proofs", h.upload)
	rg.GET("/resumes/:id/payment-status", h.status)
}

// RegisterAdminRoutes attaches the admin review queue. The group is
// expected to carry admin-only middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/payment-proofs", h.listPending)
	rg.POST("/admin/payment-proofs/:id/approve", h.approve)
	rg.POST("/admin/payment-proofs/:id/reject", h.reject)
}

type proofResponse struct {
	ID         string     `json:"id"`
	ResumeID   string     `json:"resumeId"`
	MimeType   string     `json:"mimeType"`
	SizeBytes  int64      `json:"sizeBytes"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

func toProofResponse(proof PaymentProof) proofResponse {
	return proofResponse{
		ID:         proof.ID,
		ResumeID:   proof.ResumeID,
		MimeType:   proof.MimeType,
		SizeBytes:  proof.SizeBytes,
		Status:     string(proof.Status),
		CreatedAt:  proof.CreatedAt,
		ReviewedAt: proof.ReviewedAt,
	}
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}
	defer file.Close()

	proof, err := h.Svc.Upload(c.Request.Context(), userID, resumeID, fileHeader.Filename, file)
	if err != nil {
		respondPaymentError(c, err, "failed to upload payment proof")
		return
	}
	respond.JSON(c, http.StatusCreated, toProofResponse(proof))
}

func (h *Handler) status(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	result, err := h.Svc.Status(c.Request.Context(), userID, resumeID)
	if err != nil {
		respondPaymentError(c, err, "failed to fetch payment status")
		return
	}

	body := gin.H{
		"status":       string(result.Status),
		"downloadable": result.Downloadable,
	}
	if result.LatestProof != nil {
		body["latestProof"] = toProofResponse(*result.LatestProof)
	}
	respond.JSON(c, http.StatusOK, body)
}

func (h *Handler) listPending(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	proofs, err := h.Svc.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list pending proofs", nil)
		return
	}

	out := make([]proofResponse, 0, len(proofs))
	for _, proof := range proofs {
		out = append(out, toProofResponse(proof))
	}
	respond.JSON(c, http.StatusOK, gin.H{"proofs": out})
}

func (h *Handler) approve(c *gin.Context) {
	reviewerID := middleware.UserIDFromContext(c)

	proof, err := h.Svc.Approve(c.Request.Context(), reviewerID, c.Param("id"))
	if err != nil {
		respondPaymentError(c, err, "failed to approve proof")
		return
	}
	respond.JSON(c, http.StatusOK, toProofResponse(proof))
}

func (h *Handler) reject(c *gin.Context) {
	reviewerID := middleware.UserIDFromContext(c)

	proof, err := h.Svc.Reject(c.Request.Context(), reviewerID, c.Param("id"))
	if err != nil {
		respondPaymentError(c, err, "failed to reject proof")
		return
	}
	respond.JSON(c, http.StatusOK, toProofResponse(proof))
}

func respondPaymentError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resource belongs to another user", nil)
	case errors.Is(err, ErrStateConflict):
		respond.Error(c, http.StatusConflict, "state_conflict", "proof already reviewed", nil)
	case errors.Is(err, ErrUnsupportedFile):
		respond.Error(c, http.StatusBadRequest, "unsupported_file", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallbackMsg, nil)
	}
}
