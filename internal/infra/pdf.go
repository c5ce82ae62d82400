package infra

// pdf.go — receipt generation using go-pdf/fpdf.
// Renders thermal-style receipts (74mm wide) with:
//   - Store name header
//   - Order number and timestamp
//   - Item table (name, quantity, line total) with customization lines
//   - VAT / service charge / discount breakdown
//   - Bold grand total and payment method breakdown
//
// The output file is saved to storagePath/receipt_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"foodhouse/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a PDF receipt for an order. storagePath is the
// directory the file is written to (created if needed). Returns the absolute
// path of the generated file.
func GenerateReceiptPDF(order *model.Order, storeName string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", order.OrderNumber)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to 80mm thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Order info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Order #%d", order.OrderNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, order.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range order.Items {
		name := item.Name
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.LineTotal().StringFixed(2), "", 1, "R", false, 0, "")
		for _, c := range item.Customizations {
			pdf.SetFont("Helvetica", "I", 6)
			pdf.CellFormat(col1+col2, 4, "  + "+c.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 4, c.AdditionalPrice.StringFixed(2), "", 1, "R", false, 0, "")
			pdf.SetFont("Helvetica", "", 7)
		}
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, order.SubTotal.StringFixed(2), "", 1, "R", false, 0, "")
	if !order.VatAmount.IsZero() {
		pdf.CellFormat(col1+col2, 4, "VAT:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, order.VatAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !order.ServiceChargeAmount.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Service charge:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, order.ServiceChargeAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !order.DiscountAmount.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Discount:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "-"+order.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, order.GrandTotal.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, p := range order.Payments {
		if p.Voided {
			continue
		}
		label := "Paid (" + string(p.Method) + "):"
		pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for dining with us!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
