//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dealdesk/internal/config"
	auditdomain "dealdesk/internal/domain/audit"
	"dealdesk/internal/domain/brandresponse"
	dealdomain "dealdesk/internal/domain/deal"
	signaturedomain "dealdesk/internal/domain/signature"
	tokendomain "dealdesk/internal/domain/token"
	"dealdesk/internal/infrastructure/auth"
	"dealdesk/internal/infrastructure/database"
	"dealdesk/internal/infrastructure/email"
	"dealdesk/internal/infrastructure/invoice"
	"dealdesk/internal/infrastructure/logger"
	analysisrepo "dealdesk/internal/infrastructure/repository/analysis"
	auditrepo "dealdesk/internal/infrastructure/repository/audit"
	dealrepo "dealdesk/internal/infrastructure/repository/deal"
	signaturerepo "dealdesk/internal/infrastructure/repository/signature"
	submissionrepo "dealdesk/internal/infrastructure/repository/submission"
	tokenrepo "dealdesk/internal/infrastructure/repository/token"
	"dealdesk/internal/interfaces/httpserver"
	"dealdesk/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	tokenrepo.NewPostgresRepository,
	wire.Bind(new(tokendomain.Repository), new(*tokenrepo.PostgresRepository)),
	dealrepo.NewPostgresRepository,
	wire.Bind(new(dealdomain.Repository), new(*dealrepo.PostgresRepository)),
	auditrepo.NewPostgresRepository,
	wire.Bind(new(auditdomain.Repository), new(*auditrepo.PostgresRepository)),
	signaturerepo.NewPostgresRepository,
	wire.Bind(new(signaturedomain.Repository), new(*signaturerepo.PostgresRepository)),
	analysisrepo.NewPostgresRepository,
	wire.Bind(new(brandresponse.AnalysisRepository), new(*analysisrepo.PostgresRepository)),
	submissionrepo.NewPostgresRepository,
	wire.Bind(new(signaturedomain.SubmissionRepository), new(*submissionrepo.PostgresRepository)),
)

var serviceSet = wire.NewSet(
	tokendomain.NewService,
	newAuditLogger,
	brandresponse.NewService,
	signaturedomain.NewService,
	newEmailSender,
	newInvoiceService,
)

// BuildApplication assembles the deal service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		repositorySet,
		serviceSet,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newAuditLogger(repo auditdomain.Repository, cfg *config.Config, log zerolog.Logger) *auditdomain.Logger {
	return auditdomain.NewLogger(repo, cfg.ViewDedupWindow, log)
}

func newInvoiceService(cfg *config.Config, log zerolog.Logger) brandresponse.InvoiceService {
	return invoiceService(invoice.NewClient(cfg, log))
}

func newEmailSender(cfg *config.Config, log zerolog.Logger) signaturedomain.EmailSender {
	return emailSender(email.NewClient(cfg, log))
}
