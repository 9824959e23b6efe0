package grammar

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cveezy-backend/internal/shared/server/respond"
)

// maxCheckChars bounds the text accepted for one spellcheck call.
const maxCheckChars = 20000

// Handler wires the spellcheck endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the spellcheck route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/spellcheck", h.check)
}

type checkRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *Handler) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Text) > maxCheckChars {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text too long", nil)
		return
	}

	matches, err := h.Svc.CheckSpelling(c.Request.Context(), req.Text, req.Language)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "checker_unavailable", "spellcheck backend unavailable", nil)
		return
	}
	if matches == nil {
		matches = []Match{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"matches": matches})
}
