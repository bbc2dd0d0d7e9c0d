package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"faktura/internal/domain"
)

func sampleDue() []domain.DueReminder {
	return []domain.DueReminder{
		{
			ReminderEligibility: domain.ReminderEligibility{
				InvoiceID:    uuid.New(),
				NextStage:    2,
				IsEligible:   true,
				DaysSinceDue: 21,
				Fee:          decimal.NewFromInt(5),
				Reason:       domain.EligibilityReasonEligible,
			},
			InvoiceNumber: "RE-2025-001",
			CustomerName:  "Müller GmbH",
			CustomerEmail: "buchhaltung@mueller.de",
			DueDate:       time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
			Total:         decimal.RequireFromString("116.37"),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleDue()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, BOM))

	r := csv.NewReader(bytes.NewReader(data[len(BOM):]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, columns, rows[0])
	assert.Equal(t, []string{
		"RE-2025-001", "Müller GmbH", "buchhaltung@mueller.de", "27.02.2025",
		"21", "2", "5,00", "116,37", "121,37",
	}, rows[1])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleDue()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rechnungsnummer", rows[0][0])
	assert.Equal(t, "RE-2025-001", rows[1][0])
	assert.Equal(t, "27.02.2025", rows[1][3])

	open, err := f.GetCellValue(sheetName, "I2")
	require.NoError(t, err)
	assert.Equal(t, "121.37", open)
}

func TestBuildFilename(t *testing.T) {
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "mahnungen_Muster_S_hne_GmbH_2025-03-20.xlsx", BuildFilename("Muster & Söhne GmbH", day, FormatXLSX))
	assert.Equal(t, "mahnungen_2025-03-20.csv", BuildFilename("!!!", day, FormatCSV))
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 150)
	assert.Len(t, SanitizeFilename(string(long)), 100)
}
