package service

import (
	"context"
	"fmt"
	"log"

	"autostock/internal/config"
	"autostock/internal/domain"
	"autostock/internal/extract"
	"autostock/internal/ingest"
	"autostock/internal/port"
)

// PreviewInput is the DTO for scanning an invoice photo.
type PreviewInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PreviewOutput is the normalized, validated, catalog-resolved draft the
// client edits before committing.
type PreviewOutput struct {
	Vendor     ingest.VendorDraft        `json:"vendor"`
	Invoice    ingest.InvoiceDraft       `json:"invoice"`
	Items      []ingest.ResolvedLineItem `json:"items"`
	Validation ingest.BatchValidation    `json:"validation"`
	ModelUsed  string                    `json:"model_used"`
}

// CommitRequest is the DTO for committing an edited draft.
type CommitRequest struct {
	Vendor  ingest.VendorDraft        `json:"vendor"`
	Invoice ingest.InvoiceDraft       `json:"invoice"`
	Items   []ingest.ResolvedLineItem `json:"items" binding:"required"`
	Photo   *ingest.PhotoAttachment   `json:"-"`
}

// ScanService drives the invoice scan pipeline end to end.
type ScanService interface {
	Preview(ctx context.Context, input PreviewInput) (*PreviewOutput, error)
	Commit(ctx context.Context, req CommitRequest) *ingest.CommitReport
}

type scanService struct {
	extractor port.InvoiceExtractor
	resolver  *ingest.Resolver
	committer *ingest.Committer
	cfg       config.ScanConfig
}

// NewScanService creates a new ScanService implementation.
func NewScanService(
	extractor port.InvoiceExtractor,
	resolver *ingest.Resolver,
	committer *ingest.Committer,
	cfg config.ScanConfig,
) ScanService {
	return &scanService{
		extractor: extractor,
		resolver:  resolver,
		committer: committer,
		cfg:       cfg,
	}
}

// Preview runs extract, repair, normalize, validate, resolve. Parse failures
// come back as *ingest.ParseFailure so the handler can tell the user whether
// to retake the photo or just retry.
func (s *scanService) Preview(ctx context.Context, input PreviewInput) (*PreviewOutput, error) {
	if !domain.AllowedImageTypes[input.ContentType] {
		return nil, domain.ErrUnsupportedFileType
	}
	if int64(len(input.Data)) > s.cfg.MaxImageSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	data, contentType, err := extract.PrepareImage(input.Data, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("scan.Preview: %w", err)
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		ImageBytes:  data,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("scan.Preview extract: %w", err)
	}
	log.Printf("service.ScanService: extracted %d chars using %s", len(out.RawText), out.ModelUsed)

	obj, err := ingest.ExtractObject(out.RawText)
	if err != nil {
		return nil, err
	}

	draft, err := ingest.Normalize(obj)
	if err != nil {
		return nil, fmt.Errorf("scan.Preview normalize: %w", err)
	}

	resolved, err := s.resolver.Resolve(ctx, draft.Items)
	if err != nil {
		return nil, fmt.Errorf("scan.Preview resolve: %w", err)
	}

	return &PreviewOutput{
		Vendor:     draft.Vendor,
		Invoice:    draft.Invoice,
		Items:      resolved,
		Validation: ingest.ValidateBatch(draft.Items),
		ModelUsed:  out.ModelUsed,
	}, nil
}

// Commit hands the edited draft to the orchestrator. It never returns a Go
// error; the report carries every per-entity outcome.
func (s *scanService) Commit(ctx context.Context, req CommitRequest) *ingest.CommitReport {
	return s.committer.Commit(ctx, ingest.CommitInput{
		Items:   req.Items,
		Vendor:  req.Vendor,
		Invoice: req.Invoice,
		Photo:   req.Photo,
	})
}
