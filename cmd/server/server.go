package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"dealdesk/internal/config"
	auditdomain "dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/brandresponse"
	signaturedomain "dealdesk/internal/domain/signature"
	tokendomain "dealdesk/internal/domain/token"
	"dealdesk/internal/infrastructure/auth"
	"dealdesk/internal/infrastructure/database"
	"dealdesk/internal/infrastructure/email"
	"dealdesk/internal/infrastructure/invoice"
	"dealdesk/internal/infrastructure/logger"
	"dealdesk/internal/infrastructure/observability"
	analysisrepo "dealdesk/internal/infrastructure/repository/analysis"
	auditrepo "dealdesk/internal/infrastructure/repository/audit"
	dealrepo "dealdesk/internal/infrastructure/repository/deal"
	signaturerepo "dealdesk/internal/infrastructure/repository/signature"
	submissionrepo "dealdesk/internal/infrastructure/repository/submission"
	tokenrepo "dealdesk/internal/infrastructure/repository/token"
	"dealdesk/internal/interfaces/httpserver"
	"dealdesk/internal/interfaces/httpserver/handlers"
)

// @title Deal API
// @version 1.0
// @description Creator/brand collaboration deal service
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	tokenRepository := tokenrepo.NewPostgresRepository(db)
	dealRepository := dealrepo.NewPostgresRepository(db)
	auditRepository := auditrepo.NewPostgresRepository(db)
	signatureRepository := signaturerepo.NewPostgresRepository(db)
	analysisRepository := analysisrepo.NewPostgresRepository(db)
	submissionRepository := submissionrepo.NewPostgresRepository(db)

	emailClient := email.NewClient(cfg, log)
	invoiceClient := invoice.NewClient(cfg, log)

	tokenService := tokendomain.NewService(cfg, tokenRepository, log)
	auditLogger := auditdomain.NewLogger(auditRepository, cfg.ViewDedupWindow, log)
	brandService := brandresponse.NewService(tokenService, dealRepository, analysisRepository, auditLogger, invoiceService(invoiceClient), log)
	signatureService := signaturedomain.NewService(dealRepository, signatureRepository, submissionRepository, emailSender(emailClient), log)

	handlerProvider := handlers.NewProvider(cfg, brandService, signatureService, tokenService, auditRepository, log)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// invoiceService keeps the nil invoice client a true nil interface so the
// brand response service can skip the trigger when billing is unconfigured.
func invoiceService(c *invoice.Client) brandresponse.InvoiceService {
	if c == nil {
		return nil
	}
	return c
}

// emailSender keeps the nil email client a true nil interface so the
// signature service can skip dispatch when email is disabled.
func emailSender(c *email.Client) signaturedomain.EmailSender {
	if c == nil {
		return nil
	}
	return c
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
