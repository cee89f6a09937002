package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tesisarchive/tesis-service/internal/autores"
	"github.com/tesisarchive/tesis-service/internal/config"
	"github.com/tesisarchive/tesis-service/internal/database"
	"github.com/tesisarchive/tesis-service/internal/ocr"
	"github.com/tesisarchive/tesis-service/internal/pdfgen"
	"github.com/tesisarchive/tesis-service/internal/staging"
	"github.com/tesisarchive/tesis-service/internal/tesis"
	"github.com/tesisarchive/tesis-service/pkg/logging"
	"github.com/tesisarchive/tesis-service/pkg/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(&logging.Config{}).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		logging.New(&logging.Config{}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.Name); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	stg, err := staging.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize staging", "error", err)
		os.Exit(1)
	}

	tesisSys := tesis.New(db, logger)
	autoresSys := autores.New(db, logger)
	pipeline := tesis.NewPipeline(
		tesisSys,
		autoresSys,
		ocr.NewTesseract(&cfg.OCR, logger),
		pdfgen.New(logger),
		logger,
	)

	maxUpload := cfg.Storage.MaxUploadSizeBytes()
	tesisHandler := tesis.NewHandler(tesisSys, pipeline, stg, logger, maxUpload)
	autoresHandler := autores.NewHandler(autoresSys, logger)

	handler := routes.Build(
		[]routes.Route{
			{Method: "GET", Pattern: "/healthz", Handler: healthz},
		},
		[]routes.Group{
			tesisHandler.Routes(),
			autoresHandler.Routes(),
		},
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server",
		"addr", srv.Addr,
		"staging_dir", stg.Dir(),
		"max_upload_size", cfg.Storage.MaxUploadSize,
	)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
