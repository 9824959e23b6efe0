package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "cveezy-backend/internal/auth"
	"cveezy-backend/internal/enhance"
	"cveezy-backend/internal/grammar"
	"cveezy-backend/internal/payments"
	"cveezy-backend/internal/pdf"
	"cveezy-backend/internal/resumes"
	"cveezy-backend/internal/shared/config"
	"cveezy-backend/internal/shared/metrics"
	"cveezy-backend/internal/shared/server/middleware"
	"cveezy-backend/internal/shared/server/respond"
	"cveezy-backend/internal/usage"
	"cveezy-backend/internal/users"
)

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	ResumeHandler  *resumes.Handler
	EnhanceHandler *enhance.Handler
	GrammarHandler *grammar.Handler
	PaymentHandler *payments.Handler
	PDFHandler     *pdf.Handler
	UsageHandler   *usage.Handler
	UserHandler    *users.Handler
	UsersService   *users.Service
	GoogleAuth     *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"AI": {Rate: 0.5, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if strings.HasPrefix(c.Request.URL.Path, "/api/v1/ai/") {
					return "AI"
				}
				return ""
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.EnhanceHandler != nil {
		deps.EnhanceHandler.RegisterRoutes(api)
	}
	if deps.GrammarHandler != nil {
		deps.GrammarHandler.RegisterRoutes(api)
	}
	if deps.PaymentHandler != nil {
		deps.PaymentHandler.RegisterRoutes(api)
	}
	if deps.PDFHandler != nil {
		deps.PDFHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}

	if deps.PaymentHandler != nil {
		admin := api.Group("")
		admin.Use(adminOnly(deps.UsersService))
		deps.PaymentHandler.RegisterAdminRoutes(admin)
	}

	if deps.Config.Env == "dev" && deps.UsageHandler != nil {
		dev := api.Group("/dev")
		deps.UsageHandler.RegisterDevRoutes(dev)
	}

	return r
}

// adminOnly rejects requests from users without admin standing.
func adminOnly(userSvc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		if userID == "" || userSvc == nil {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}
		isAdmin, err := userSvc.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check access", nil)
			return
		}
		if !isAdmin {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}
		c.Next()
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
