package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/turanyusif9/watchkeeper/internal/domain/record/decoder"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/parser"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/service"
	"github.com/turanyusif9/watchkeeper/pkg/artifacts"
	"github.com/turanyusif9/watchkeeper/pkg/config"
	"github.com/turanyusif9/watchkeeper/pkg/pdfio"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	RunID  uuid.UUID

	// PDF collaborators
	TextExtractor pdfio.TextExtractor
	Rasterizer    pdfio.Rasterizer

	// Services
	ExtractService *service.Service

	// Output
	Artifacts *artifacts.LocalStore
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		RunID:  uuid.New(),
	}

	deps.TextExtractor = pdfio.NewLedongthucExtractor()
	deps.Rasterizer = pdfio.NewFitzRasterizer()

	dec := decoder.New(decoder.DefaultCalibration())
	if cfg.Extract.AllowRescale {
		dec = dec.WithRescale(true)
	}
	deps.ExtractService = service.New(parser.New(), dec, logger)

	store, err := artifacts.NewLocalStore(cfg.Report.OutputDir, deps.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to init artifact store: %w", err)
	}
	deps.Artifacts = store

	logger.Info("all dependencies initialized successfully",
		slog.String("run_id", deps.RunID.String()),
		slog.String("output_dir", store.Dir()))

	return deps, nil
}
