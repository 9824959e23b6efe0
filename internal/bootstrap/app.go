package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cveezy-backend/internal/audit"
	googleauth "cveezy-backend/internal/auth"
	"cveezy-backend/internal/enhance"
	"cveezy-backend/internal/grammar"
	"cveezy-backend/internal/llm"
	"cveezy-backend/internal/llm/gemini"
	"cveezy-backend/internal/payments"
	"cveezy-backend/internal/pdf"
	"cveezy-backend/internal/resumes"
	"cveezy-backend/internal/shared/config"
	"cveezy-backend/internal/shared/server"
	"cveezy-backend/internal/shared/storage/db"
	"cveezy-backend/internal/shared/storage/object"
	localstore "cveezy-backend/internal/shared/storage/object/local"
	s3store "cveezy-backend/internal/shared/storage/object/s3"
	"cveezy-backend/internal/usage"
	"cveezy-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	ResumesRepo     resumes.Repo
	PaymentsRepo    payments.Repo
	UsersRepo       users.Repo
	AuditRecorder   audit.Recorder
	ResumesService  *resumes.Service
	PaymentsService *payments.Service
	UsageService    *usage.Service
	UsersService    *users.Service
	GrammarService  *grammar.Service
	Orchestrator    *enhance.Orchestrator
	ResumeHandler   *resumes.Handler
	EnhanceHandler  *enhance.Handler
	GrammarHandler  *grammar.Handler
	PaymentHandler  *payments.Handler
	PDFHandler      *pdf.Handler
	UsageHandler    *usage.Handler
	UsersHandler    *users.Handler
	GoogleAuth      *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		ResumeHandler:  app.ResumeHandler,
		EnhanceHandler: app.EnhanceHandler,
		GrammarHandler: app.GrammarHandler,
		PaymentHandler: app.PaymentHandler,
		PDFHandler:     app.PDFHandler,
		UsageHandler:   app.UsageHandler,
		UserHandler:    app.UsersHandler,
		UsersService:   app.UsersService,
		GoogleAuth:     app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var resumeRepo resumes.Repo
	var userRepo users.Repo
	var auditor audit.Recorder
	var paymentRepo payments.Repo

	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		auditor = &audit.PGRecorder{DB: app.DB}
		paymentRepo = &payments.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		auditor = audit.NewMemoryRecorder()
		paymentRepo = payments.NewMemoryRepo(resumeRepo, auditor)
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	generator := llm.Generator(llm.PlaceholderGenerator{})
	if strings.TrimSpace(app.Config.GeminiAPIKey) != "" {
		client, err := gemini.NewClient(app.Config.GeminiAPIKey, app.Config.GeminiModel)
		if err != nil {
			return err
		}
		generator = client
	} else {
		log.Printf("bootstrap: GEMINI_API_KEY empty; enhancement runs on local fallback only")
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	orchestrator := enhance.NewOrchestrator(generator, enhance.DefaultConfig(), rnd)

	checker, err := grammar.NewClient(app.Config.LanguageToolURL)
	if err != nil {
		return err
	}
	grammarSvc := grammar.NewService(checker)

	resumeSvc := resumes.NewService(resumeRepo)
	paymentSvc := payments.NewService(paymentRepo, resumeRepo, app.Store)
	userSvc := users.NewService(userRepo)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.ResumesRepo = resumeRepo
	app.PaymentsRepo = paymentRepo
	app.UsersRepo = userRepo
	app.AuditRecorder = auditor
	app.ResumesService = resumeSvc
	app.PaymentsService = paymentSvc
	app.UsageService = usageSvc
	app.UsersService = userSvc
	app.GrammarService = grammarSvc
	app.Orchestrator = orchestrator
	app.ResumeHandler = resumes.NewHandler(resumeSvc)
	app.EnhanceHandler = enhance.NewHandler(orchestrator, usageSvc)
	app.GrammarHandler = grammar.NewHandler(grammarSvc)
	app.PaymentHandler = payments.NewHandler(paymentSvc)
	app.PDFHandler = pdf.NewHandler(paymentSvc, pdf.NewChromedpRenderer())
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	return nil
}
