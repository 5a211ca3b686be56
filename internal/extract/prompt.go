package extract

// BuildInvoiceScanPrompt returns the extraction prompt sent alongside the
// invoice image. The response schema is a contract with the ingest package:
// vendor{name, gstin}, invoice{"bill number", "bill date", "total amount"},
// and a flat products array. Models frequently ignore the formatting rules,
// which is why the pipeline re-parses defensively.
func BuildInvoiceScanPrompt() string {
	return `Extract ALL data from this invoice/bill. You MUST return ONLY a valid JSON object (no markdown, no explanation) with this structure:

{
  "vendor": {
    "name": "Company Name",
    "gstin": "GSTIN if visible"
  },
  "invoice": {
    "bill number": "INV-123",
    "bill date": "2024-01-15",
    "total amount": 50000.00
  },
  "products": [
    {
      "name": "Product name",
      "part_number": "P123",
      "quantity": 10,
      "unit": "pcs",
      "price": 4100.00,
      "hsn_code": "8708",
      "gst_percentage": 18,
      "discount": 0,
      "confidence": 0.9
    }
  ]
}

Rules:
- Extract ALL visible products. Do not skip, summarize, or omit any items.
- "price" is the PURCHASE rate (unit price before tax).
- Ensure all amounts are numbers.
- "gst_percentage" is the tax rate number (e.g., 5, 12, 18, 28).
- "discount" is the discount PERCENTAGE (if visible).
- Use standard units (pcs, kg, etc.).
- Set confidence 0.5-1.0.
- Return an empty products array if no data is found.
- Return ONLY valid JSON.`
}
