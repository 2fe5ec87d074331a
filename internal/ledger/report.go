package ledger

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Report formats accepted by Render. These are the values the
// download endpoint receives in its "formato" query parameter.
const (
	FormatoPDF   = "pdf"
	FormatoExcel = "excel"
)

// Report is a rendered history document ready to be sent as a
// download.
type Report struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Render serializes a history sequence into the requested binary
// format. Unknown formats fail with ErrUnsupportedFormat and produce
// no partial output. Rendering is pure: no store or network access.
func Render(items []HistoryItem, formato string) (*Report, error) {
	switch formato {
	case FormatoPDF:
		data, err := renderPDF(items)
		if err != nil {
			return nil, err
		}
		return &Report{
			Data:        data,
			ContentType: "application/pdf",
			Filename:    "historial.pdf",
		}, nil
	case FormatoExcel:
		data, err := renderExcel(items)
		if err != nil {
			return nil, err
		}
		return &Report{
			Data:        data,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    "historial.xlsx",
		}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// signedMonto renders the amount with the sign carried by the action:
// expenses show negative, everything else positive.
func signedMonto(it HistoryItem) string {
	if it.Accion == "Gasto" {
		return "-" + it.Monto.String()
	}
	return it.Monto.String()
}

func renderPDF(items []HistoryItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)

	colWidths := []float64{30, 25, 85, 30}
	headers := []string{"Fecha", "Accion", "Descripcion", "Monto"}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr("Historial de actividad"), "", 1, "C", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range headers {
			pdf.CellFormat(colWidths[i], 8, tr(h), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}

	pdf.AddPage()
	writeHeader()

	for _, it := range items {
		// same column layout on every overflow page
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}
		pdf.CellFormat(colWidths[0], 7, it.Fecha.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, tr(it.Accion), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, tr(it.Descripcion), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, signedMonto(it), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderExcel(items []HistoryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Historial"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Fecha", "Tipo", "Accion", "Descripcion", "Monto"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for idx, it := range items {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Fecha.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Tipo)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), it.Accion)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), it.Descripcion)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), signedMonto(it))
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "C", 12)
	f.SetColWidth(sheet, "D", "D", 40)
	f.SetColWidth(sheet, "E", "E", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render excel: %w", err)
	}
	return buf.Bytes(), nil
}
