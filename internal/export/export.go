// Package export writes the ledger out as CSV or Excel workbooks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

const (
	EntriesSheet = "Entries"
	SummarySheet = "Summary"
)

var headers = []string{"ID", "Date", "Kind", "Category", "Description", "Amount"}

// WriteCSV writes one header row and one row per entry. Amounts keep their
// exact decimal text. A UTF-8 BOM is emitted so spreadsheet apps pick the
// right encoding.
func WriteCSV(w io.Writer, entries []core.Entry) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{e.ID, e.Date, e.Kind.String(), e.Category, e.Description, e.Amount.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with an Entries sheet in view order and a
// Summary sheet with the totals.
func WriteXLSX(w io.Writer, view ledger.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", EntriesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 38},
		{"B", "D", 14},
		{"E", "E", 30},
		{"F", "F", 14},
	}
	for _, cw := range widths {
		if err := f.SetColWidth(EntriesSheet, cw.from, cw.to, cw.width); err != nil {
			return fmt.Errorf("set column width %s:%s: %w", cw.from, cw.to, err)
		}
	}

	if err := f.SetSheetRow(EntriesSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(EntriesSheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range view.Entries {
		row := []any{e.ID, e.Date, e.Kind.String(), e.Category, e.Description, e.Amount.InexactFloat64()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(EntriesSheet, cell, &row); err != nil {
			return fmt.Errorf("write entry %s: %w", e.ID, err)
		}
	}

	s := view.Summary
	summary := [][]any{
		{"Total income", s.TotalIncome.InexactFloat64()},
		{"Total expense", s.TotalExpense.InexactFloat64()},
		{"Balance", s.Balance.InexactFloat64()},
		{"Entries", s.Count},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 16); err != nil {
		return fmt.Errorf("set summary column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
