// Package export writes due reminder lists as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"faktura/internal/domain"
)

// Format is a supported export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. An empty value means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", domain.NewValidationError("format", "unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// BOM is the UTF-8 byte order mark Excel needs to detect UTF-8 CSV on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

const sheetName = "Mahnungen"

var columns = []string{
	"Rechnungsnummer",
	"Kunde",
	"E-Mail",
	"Fällig am",
	"Tage überfällig",
	"Mahnstufe",
	"Gebühr",
	"Rechnungsbetrag",
	"Offener Betrag",
}

// WriteCSV writes the due reminders as semicolon-separated CSV with a BOM,
// which is what German Excel installations open without an import dialog.
func WriteCSV(w io.Writer, due []domain.DueReminder) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range due {
		if err := cw.Write(reminderToRow(&due[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the due reminders as a single-sheet workbook. Amounts are
// written as numbers so they can be summed in the sheet.
func WriteXLSX(w io.Writer, due []domain.DueReminder) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range due {
		d := &due[i]
		fee, _ := d.Fee.Round(2).Float64()
		total, _ := d.Total.Round(2).Float64()
		open, _ := d.Total.Add(d.Fee).Round(2).Float64()
		row := []interface{}{
			d.InvoiceNumber,
			d.CustomerName,
			d.CustomerEmail,
			d.DueDate.Format("02.01.2006"),
			d.DaysSinceDue,
			d.NextStage,
			fee,
			total,
			open,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "C", 24); err != nil {
		return err
	}
	return f.Write(w)
}

func reminderToRow(d *domain.DueReminder) []string {
	return []string{
		d.InvoiceNumber,
		d.CustomerName,
		d.CustomerEmail,
		d.DueDate.Format("02.01.2006"),
		strconv.Itoa(d.DaysSinceDue),
		strconv.Itoa(d.NextStage),
		formatMoney(d.Fee.StringFixed(2)),
		formatMoney(d.Total.StringFixed(2)),
		formatMoney(d.Total.Add(d.Fee).StringFixed(2)),
	}
}

// formatMoney switches the decimal point to a comma.
func formatMoney(s string) string {
	return strings.Replace(s, ".", ",", 1)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters outside [a-zA-Z0-9_-] with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the Content-Disposition filename for a company export:
// mahnungen_{company}_{YYYY-MM-DD}.{ext}
func BuildFilename(companyName string, day time.Time, format Format) string {
	name := "mahnungen"
	if s := SanitizeFilename(companyName); s != "" {
		name += "_" + s
	}
	return fmt.Sprintf("%s_%s.%s", name, day.Format("2006-01-02"), format)
}
