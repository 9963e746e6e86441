package employee

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet name used by spreadsheet exports.
const ExportSheet = "Employees"

// HeaderStyle selects the header row written by WriteCSV.
type HeaderStyle int

const (
	// NativeHeaders writes Id followed by the record field names.
	NativeHeaders HeaderStyle = iota
	// ExternalHeaders writes the personnel import headers, without Id, so the
	// file can be imported again unchanged.
	ExternalHeaders
)

var nativeHeaders = []string{
	"Id", "PayrollNumber", "Forenames", "Surname", "DateOfBirth", "Telephone",
	"Mobile", "Address", "Address2", "Postcode", "EmailHome", "StartDate",
}

func nativeRow(e Employee) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.PayrollNumber,
		e.Forenames,
		e.Surname,
		FormatDate(e.DateOfBirth),
		e.Telephone,
		e.Mobile,
		e.Address,
		e.Address2,
		e.Postcode,
		e.EmailHome,
		FormatDate(e.StartDate),
	}
}

func importRow(e Employee) []string {
	row := make([]string, len(importColumns))
	for i, c := range importColumns {
		row[i] = fieldValue(e, c.field)
	}
	return row
}

// WriteCSV writes a header row and one row per record.
func WriteCSV(w io.Writer, records []Employee, style HeaderStyle) error {
	writer := csv.NewWriter(w)
	header, row := nativeHeaders, nativeRow
	if style == ExternalHeaders {
		header, row = ImportHeaders(), importRow
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range records {
		if err := writer.Write(row(e)); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes an Employees worksheet with the native headers in row 1
// and data from row 2. Dates are stored as date cells; empty dates are left
// blank.
func WriteXLSX(w io.Writer, records []Employee) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	widths := make([]int, len(nativeHeaders))
	for i, h := range nativeHeaders {
		widths[i] = utf8.RuneCountInString(h)
	}

	header := make([]any, len(nativeHeaders))
	for i, h := range nativeHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(nativeHeaders))
	if err := f.SetCellStyle(ExportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range records {
		rowNum := i + 2
		values := nativeRow(e)
		for col, text := range values {
			if n := utf8.RuneCountInString(text); n > widths[col] {
				widths[col] = n
			}
		}
		cells := []any{
			e.ID, e.PayrollNumber, e.Forenames, e.Surname, excelDate(e.DateOfBirth),
			e.Telephone, e.Mobile, e.Address, e.Address2, e.Postcode, e.EmailHome, excelDate(e.StartDate),
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(ExportSheet, start, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
		for _, col := range []int{5, 12} {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			if err := f.SetCellStyle(ExportSheet, cell, cell, dateStyle); err != nil {
				return fmt.Errorf("style row %d: %w", rowNum, err)
			}
		}
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ExportSheet, col, col, float64(width)+2); err != nil {
			return fmt.Errorf("size column %s: %w", col, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// excelDate leaves zero dates as empty cells.
func excelDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

type rosterColumn struct {
	title string
	width float64
	value func(Employee) string
}

var rosterColumns = []rosterColumn{
	{"Payroll", 24, func(e Employee) string { return e.PayrollNumber }},
	{"Forenames", 32, func(e Employee) string { return e.Forenames }},
	{"Surname", 32, func(e Employee) string { return e.Surname }},
	{"Born", 22, func(e Employee) string { return FormatDate(e.DateOfBirth) }},
	{"Telephone", 28, func(e Employee) string { return e.Telephone }},
	{"Mobile", 28, func(e Employee) string { return e.Mobile }},
	{"Postcode", 22, func(e Employee) string { return e.Postcode }},
	{"Email", 62, func(e Employee) string { return e.EmailHome }},
	{"Started", 22, func(e Employee) string { return FormatDate(e.StartDate) }},
}

// WritePDF renders an A4 landscape roster of the records.
func WritePDF(w io.Writer, records []Employee, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Employee roster", true)
	pdf.SetAutoPageBreak(true, 12)

	printHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range rosterColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			printHeader()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Employee roster")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d employees, generated %s", len(records), generatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	printHeader()

	for _, e := range records {
		for _, col := range rosterColumns {
			text := fitText(pdf, tr(col.value(e)), col.width-2)
			pdf.CellFormat(col.width, 6, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fitText trims text until it fits within width at the current font.
func fitText(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}
