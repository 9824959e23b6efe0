package pdf

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cveezy-backend/internal/payments"
	"cveezy-backend/internal/resumes"
	"cveezy-backend/internal/shared/server/middleware"
	"cveezy-backend/internal/shared/server/respond"
)

// Handler serves the gated PDF download.
type Handler struct {
	Payments *payments.Service
	Renderer Renderer
}

// NewHandler constructs a Handler.
func NewHandler(paymentsSvc *payments.Service, renderer Renderer) *Handler {
	return &Handler{Payments: paymentsSvc, Renderer: renderer}
}

// RegisterRoutes attaches the download route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/download", h.download)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	resume, ok, err := h.Payments.CheckDownloadable(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, resumes.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "resume belongs to another user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check download access", nil)
		}
		return
	}
	if !ok {
		respond.Error(c, http.StatusPaymentRequired, "payment_required", "resume is not unlocked for download", nil)
		return
	}

	templateName := resume.TemplateName
	if !ValidTemplate(templateName) {
		templateName = "classic"
	}
	html, err := RenderHTML(templateName, resume.Data)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
		return
	}

	pdfBytes, err := h.Renderer.RenderHTMLToPDF(c.Request.Context(), html)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate pdf", nil)
		return
	}

	fileName := fmt.Sprintf("resume-%s.pdf", resumeID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
