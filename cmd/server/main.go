package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"autostock/internal/config"
	"autostock/internal/extract"
	"autostock/internal/extract/claude"
	"autostock/internal/extract/gemini"
	"autostock/internal/handler"
	"autostock/internal/ingest"
	"autostock/internal/port"
	"autostock/internal/repository/postgres"
	"autostock/internal/router"
	"autostock/internal/service"
	s3storage "autostock/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	vendorRepo := postgres.NewVendorRepo(db)
	productRepo := postgres.NewProductRepo(db)
	billRepo := postgres.NewVendorBillRepo(db)
	billItemRepo := postgres.NewBillItemRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extractors
	extract.RegisterProvider("gemini", gemini.NewExtractorFromConfig)
	extract.RegisterProvider("claude", claude.NewExtractorFromConfig)

	extractor, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Initialize pipeline and services
	resolver := ingest.NewResolver(productRepo)
	committer := ingest.NewCommitter(vendorRepo, billRepo, productRepo, billItemRepo, s3Client, cfg.S3.Bucket)

	scanSvc := service.NewScanService(extractor, resolver, committer, cfg.Scan)
	inventorySvc := service.NewInventoryService(productRepo, vendorRepo, billRepo, billItemRepo, s3Client, cfg.S3)

	// Initialize handlers
	scanH := handler.NewScanHandler(scanSvc)
	productH := handler.NewProductHandler(inventorySvc)
	billH := handler.NewBillHandler(inventorySvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(scanH, productH, billH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor wires the primary extractor, wrapped in a fallback chain
// when a secondary provider is configured.
func buildExtractor(cfg *config.ExtractorConfig) (port.InvoiceExtractor, error) {
	primary, err := extract.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}

	secondary, err := extract.NewExtractor(secondaryCfg)
	if err != nil {
		return nil, err
	}

	return extract.NewFallbackExtractor(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{cfg.Primary.Provider, secondaryCfg.Provider},
	), nil
}
