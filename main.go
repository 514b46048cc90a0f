package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/oakline/partnertrack/internal/config"
	"github.com/oakline/partnertrack/internal/gelf"
	"github.com/oakline/partnertrack/internal/handler"
	"github.com/oakline/partnertrack/internal/rbac"
	"github.com/oakline/partnertrack/internal/repository"
	"github.com/oakline/partnertrack/internal/router"
	"github.com/oakline/partnertrack/internal/service"
	"github.com/oakline/partnertrack/internal/storage"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "partnertrack")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Storage
	ctx := context.Background()
	store, err := storage.Open(ctx, storage.Options{
		Driver: storage.Driver(cfg.StorageDriver),
		FSRoot: cfg.StorageFSRoot,
		S3: storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			PathStyle:       cfg.S3PathStyle,
		},
	})
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	retried := storage.WithRetry(store, cfg.RetryAttempts, time.Duration(cfg.RetryBaseMs)*time.Millisecond)
	log.Printf("Storage ready: driver=%s retries=%d", retried.Driver(), cfg.RetryAttempts)

	// Repositories
	userRepo := repository.NewUserRepo(retried)
	partnerRepo := repository.NewPartnerRepo(retried)
	templateRepo := repository.NewTemplateRepo(retried)
	subRepo := repository.NewSubmissionRepo(retried)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	templateSvc := service.NewTemplateService(templateRepo)
	subSvc := service.NewSubmissionService(subRepo, templateSvc)
	partnerSvc := service.NewPartnerService(partnerRepo, subRepo)
	access := rbac.New(rbac.LogAudit{})

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	partnerH := handler.NewPartnerHandler(partnerSvc, access)
	templateH := handler.NewTemplateHandler(templateSvc)
	subH := handler.NewSubmissionHandler(subSvc, partnerSvc, access)
	dashH := handler.NewDashboardHandler(partnerSvc, access)
	exportH := handler.NewExportHandler(partnerSvc, access)

	// Router
	r := router.New(cfg.JWTSecret, authH, partnerH, templateH, subH, dashH, exportH)

	// Seed the admin account in the background so a slow or cold store does
	// not delay serving.
	go func() {
		if err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass); err != nil {
			log.Printf("Warning: failed to seed admin: %v", err)
		} else {
			log.Printf("Admin account ready (%s)", cfg.AdminEmail)
		}
	}()

	log.Printf("partnertrack server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
