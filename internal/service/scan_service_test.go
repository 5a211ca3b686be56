package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autostock/internal/config"
	"autostock/internal/domain"
	"autostock/internal/ingest"
	"autostock/internal/port"
	"autostock/internal/service"
	"autostock/mocks"
)

// pngBytes returns a small encoded PNG for preview tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func newScanService(extractor port.InvoiceExtractor, products *mocks.MockProductRepo) service.ScanService {
	resolver := ingest.NewResolver(products)
	committer := ingest.NewCommitter(
		new(mocks.MockVendorRepo), new(mocks.MockVendorBillRepo),
		products, new(mocks.MockBillItemRepo),
		new(mocks.MockObjectStorage), "test-bucket",
	)
	return service.NewScanService(extractor, resolver, committer, config.ScanConfig{MaxImageSizeMB: 5})
}

func TestScanService_Preview_Success(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	products := new(mocks.MockProductRepo)

	rawText := "```json\n" + `{
		"vendor": {"name": "Sharma Auto Parts", "gstin": "27AAPFU0939F1ZV"},
		"invoice": {"bill number": "INV-001", "bill date": "2026-08-15", "total amount": 708},
		"products": [{"name": "Brake Pad", "quantity": 5, "price": 120, "gst_percentage": 18}]
	}` + "\n```"

	extractor.On("Extract", mock.Anything, mock.AnythingOfType("port.ExtractInput")).
		Return(&port.ExtractOutput{RawText: rawText, ModelUsed: "gemini-2.5-flash"}, nil)
	products.On("FindByNames", mock.Anything, []string{"Brake Pad"}).
		Return([]domain.Product{}, nil)

	svc := newScanService(extractor, products)

	out, err := svc.Preview(context.Background(), service.PreviewInput{
		FileName:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})

	require.NoError(t, err)
	assert.Equal(t, "Sharma Auto Parts", out.Vendor.Name)
	assert.Equal(t, "INV-001", out.Invoice.BillNumber)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Brake Pad", out.Items[0].Name)
	assert.False(t, out.Items[0].IsDuplicate)
	assert.True(t, out.Validation.AllValid)
	assert.Equal(t, "gemini-2.5-flash", out.ModelUsed)
}

func TestScanService_Preview_UnsupportedType(t *testing.T) {
	svc := newScanService(new(mocks.MockInvoiceExtractor), new(mocks.MockProductRepo))

	_, err := svc.Preview(context.Background(), service.PreviewInput{
		FileName:    "invoice.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestScanService_Preview_FileTooLarge(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	svc := newScanService(extractor, new(mocks.MockProductRepo))

	_, err := svc.Preview(context.Background(), service.PreviewInput{
		FileName:    "invoice.jpg",
		ContentType: "image/jpeg",
		Data:        make([]byte, 6*1024*1024),
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestScanService_Preview_ParseFailureSurfaces(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	products := new(mocks.MockProductRepo)

	extractor.On("Extract", mock.Anything, mock.AnythingOfType("port.ExtractInput")).
		Return(&port.ExtractOutput{RawText: "sorry, I cannot read this image", ModelUsed: "gemini-2.5-flash"}, nil)

	svc := newScanService(extractor, products)

	_, err := svc.Preview(context.Background(), service.PreviewInput{
		FileName:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})

	var failure *ingest.ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, ingest.ParseFailureNoStructure, failure.Kind)
}

func TestScanService_Preview_InvalidItemsStillReturned(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	products := new(mocks.MockProductRepo)

	extractor.On("Extract", mock.Anything, mock.AnythingOfType("port.ExtractInput")).
		Return(&port.ExtractOutput{
			RawText:   `{"products": [{"name": "Brake Pad", "quantity": 2, "price": -10}]}`,
			ModelUsed: "gemini-2.5-flash",
		}, nil)
	products.On("FindByNames", mock.Anything, []string{"Brake Pad"}).
		Return([]domain.Product{}, nil)

	svc := newScanService(extractor, products)

	out, err := svc.Preview(context.Background(), service.PreviewInput{
		FileName:    "invoice.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	})

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.False(t, out.Validation.AllValid)
	assert.Equal(t, 1, out.Validation.TotalErrors)
}
