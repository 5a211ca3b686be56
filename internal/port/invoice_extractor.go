package port

import "context"

// ExtractInput carries an invoice image to the AI extraction boundary.
type ExtractInput struct {
	ImageBytes  []byte
	ContentType string
}

// ExtractOutput holds the raw model response. The text is deliberately left
// unparsed: vision models routinely ignore formatting instructions, so all
// robustness lives downstream in the ingest package.
type ExtractOutput struct {
	RawText   string
	ModelUsed string
}

// InvoiceExtractor abstracts the vision model call that turns an invoice
// image into raw text.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
