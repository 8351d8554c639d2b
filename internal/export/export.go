// Package export renders a receipt snapshot to portable formats. Export is
// a premium feature; the CLI checks the subscription before calling in,
// mirroring what the web dashboard does.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/phpdave11/gofpdf"

	"github.com/temidaradev/retreat/internal/api"
)

const dateFormat = "2006-01-02"

// CSV writes receipts as comma-separated values with a header row
func CSV(w io.Writer, receipts []api.Receipt) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "store", "item", "purchase_date", "warranty_expiry", "amount", "currency", "status"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range receipts {
		row := []string{
			r.ID,
			r.Store,
			r.Item,
			r.PurchaseDate.Format(dateFormat),
			r.WarrantyExpiry.Format(dateFormat),
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.Currency,
			r.Status,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// JSON writes receipts as an indented JSON array
func JSON(w io.Writer, receipts []api.Receipt) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(receipts); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// PDF writes receipts as a simple table document
func PDF(w io.Writer, receipts []api.Receipt) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Receipts")
	pdf.Ln(12)

	widths := []float64{55, 70, 30, 32, 25, 20, 25}
	headers := []string{"Store", "Item", "Purchased", "Warranty expiry", "Amount", "Currency", "Status"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range receipts {
		cells := []string{
			r.Store,
			r.Item,
			r.PurchaseDate.Format(dateFormat),
			r.WarrantyExpiry.Format(dateFormat),
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.Currency,
			r.Status,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
