package enhance

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cveezy-backend/internal/shared/server/middleware"
	"cveezy-backend/internal/shared/server/respond"
	"cveezy-backend/internal/usage"
)

// Handler wires the enhancement endpoint to the orchestrator.
type Handler struct {
	Orchestrator *Orchestrator
	Usage        *usage.Service
}

// NewHandler constructs a Handler.
func NewHandler(orchestrator *Orchestrator, usageSvc *usage.Service) *Handler {
	return &Handler{Orchestrator: orchestrator, Usage: usageSvc}
}

// RegisterRoutes attaches AI enhancement routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/enhance", h.enhance)
}

type experienceContextRequest struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type educationContextRequest struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type contextRequest struct {
	JobTitle    string                     `json:"jobTitle"`
	Company     string                     `json:"company"`
	Degree      string                     `json:"degree"`
	School      string                     `json:"school"`
	Location    string                     `json:"location"`
	Experiences []experienceContextRequest `json:"experiences"`
	Educations  []educationContextRequest  `json:"educations"`
}

type enhanceRequest struct {
	ContentType string         `json:"contentType"`
	Text        string         `json:"text"`
	Current     string         `json:"current"`
	AvoidList   []string       `json:"avoidList"`
	Regenerate  bool           `json:"regenerate"`
	Context     contextRequest `json:"context"`
}

type enhanceResponse struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
	Attempts int    `json:"attempts"`
}

func (h *Handler) enhance(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	contentType := ContentType(strings.TrimSpace(req.ContentType))
	if !contentType.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown contentType", nil)
		return
	}

	if h.Usage != nil {
		ok, u, err := h.Usage.CanConsume(c.Request.Context(), userID, 1)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check usage", nil)
			return
		}
		if !ok {
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "AI enhancement limit reached", gin.H{
				"limit":    u.Limit,
				"resetsAt": u.ResetsAt,
			})
			return
		}
	}

	result, err := h.Orchestrator.Enhance(c.Request.Context(), Request{
		ContentType: contentType,
		FieldText:   req.Text,
		CurrentText: req.Current,
		Context:     toEntityContext(req.Context),
		AvoidList:   req.AvoidList,
		Regenerate:  req.Regenerate,
	})
	if err != nil {
		var missingErr *MissingRequiredFieldsError
		var shortErr *InsufficientContentError
		var genericErr *GenericContentError
		switch {
		case errors.As(err, &missingErr):
			respond.Error(c, http.StatusBadRequest, "missing_required_fields", missingErr.Error(), gin.H{"fields": missingErr.Fields})
		case errors.As(err, &shortErr):
			respond.Error(c, http.StatusBadRequest, "insufficient_content", shortErr.Error(), gin.H{"minLength": shortErr.MinLength})
		case errors.As(err, &genericErr):
			respond.Error(c, http.StatusBadRequest, "generic_content", genericErr.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "enhancement failed", nil)
		}
		return
	}

	if h.Usage != nil {
		if _, err := h.Usage.Consume(c.Request.Context(), userID, 1); err != nil && !errors.Is(err, usage.ErrLimitReached) {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record usage", nil)
			return
		}
	}

	respond.JSON(c, http.StatusOK, enhanceResponse{
		Text:     result.Text,
		Fallback: result.Fallback,
		Attempts: result.Attempts,
	})
}

func toEntityContext(req contextRequest) EntityContext {
	ctx := EntityContext{
		JobTitle: req.JobTitle,
		Company:  req.Company,
		Degree:   req.Degree,
		School:   req.School,
		Location: req.Location,
	}
	for _, exp := range req.Experiences {
		ctx.Experiences = append(ctx.Experiences, ExperienceContext(exp))
	}
	for _, edu := range req.Educations {
		ctx.Educations = append(ctx.Educations, EducationContext(edu))
	}
	return ctx
}
