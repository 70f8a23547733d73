package services

import (
	"bytes"
	"fmt"

	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders customer-facing PDFs.
type DocsService struct{}

// QuotePDF returns the quote as an A4 PDF plus a download filename.
func (DocsService) QuotePDF(q models.Quote) ([]byte, string, error) {
	if len(q.Items) == 0 {
		return nil, "", domain.ValidationError{Field: "items", Msg: "la cotización no tiene ítems"}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Cotización GuanaGO", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("COTIZACIÓN GUANAGO"))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr("San Andrés Isla, Colombia"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		fmt.Sprintf("No. Cotización : %s", utils.Safe(q.Number, "-")),
		fmt.Sprintf("Fecha          : %s", utils.Safe(dateOrEmpty(q), "-")),
		fmt.Sprintf("Válida hasta   : %s", utils.Safe(q.ValidUntil, "-")),
		fmt.Sprintf("Cliente        : %s", utils.Safe(q.CustomerName, "-")),
		fmt.Sprintf("Email          : %s", utils.Safe(q.CustomerEmail, "-")),
	}
	for _, line := range header {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{80, 30, 20, 15, 45}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0, 122, 135)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Servicio", "Precio unit.", "Cant.", "Días", "Subtotal"} {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range q.Items {
		units := item.Units
		if units == 0 {
			units = 1
		}
		pdf.CellFormat(widths[0], 7, tr(truncate(item.Name, 45)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(utils.FormatCOP(item.UnitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", units), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, tr(utils.FormatCOP(item.LineTotal)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	totals := [][2]string{{"Subtotal", utils.FormatCOP(q.Subtotal)}}
	if q.Discount > 0 {
		totals = append(totals, [2]string{fmt.Sprintf("Descuento (%d%%)", q.DiscountPct), "-" + utils.FormatCOP(q.Discount)})
	}
	totals = append(totals, [2]string{"TOTAL", utils.FormatCOP(q.Total)})
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(145, 7, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, tr(row[1]), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr("Precios en pesos colombianos. La cotización no garantiza disponibilidad hasta confirmar la reserva. Tarjeta de turismo de San Andrés no incluida."), "", "", false)

	if err := pdf.Error(); err != nil {
		return nil, "", domain.InternalError{Msg: "no se pudo generar el PDF", Err: err}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "no se pudo generar el PDF", Err: err}
	}

	filename := fmt.Sprintf("COTIZACION_%s_%s.pdf", utils.SafeFilenamePart(q.Number), utils.SafeFilenamePart(q.CustomerName))
	return buf.Bytes(), filename, nil
}

func dateOrEmpty(q models.Quote) string {
	if q.CreatedAt.IsZero() {
		return ""
	}
	return utils.FormatDate(q.CreatedAt)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
