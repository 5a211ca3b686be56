package billexport

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"autostock/internal/domain"
)

const sheetName = "Bill Register"

// columns defines the register header row.
var columns = []string{
	"Vendor",
	"Bill Number",
	"Bill Date",
	"Total Amount",
	"Payment Status",
	"Photo Attached",
	"Created At",
}

// WriteRegister writes the vendor bill register as an xlsx workbook.
// vendorNames maps vendor ids to display names; unknown ids render as the
// raw id so a half-deleted vendor never hides its bills.
func WriteRegister(w io.Writer, bills []domain.VendorBill, vendorNames map[uuid.UUID]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("billexport: creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("billexport: writing header: %w", err)
		}
	}

	for i, bill := range bills {
		vendor, ok := vendorNames[bill.VendorID]
		if !ok {
			vendor = bill.VendorID.String()
		}
		total, _ := bill.TotalAmount.Float64()

		row := []interface{}{
			vendor,
			bill.BillNumber,
			bill.BillDate,
			total,
			string(bill.PaymentStatus),
			formatBool(bill.PhotoKey != nil),
			bill.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("billexport: writing row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("billexport: writing workbook: %w", err)
	}
	return nil
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header, formatted {name}_{YYYY-MM-DD}.xlsx.
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.xlsx", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
