package exporters

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "data"

// XLSXExporter writes records as a flattened table in a single worksheet
type XLSXExporter struct {
	baseExporter
}

// Export writes data to filename, adding .xlsx when missing.
func (e *XLSXExporter) Export(data any, filename string) (string, error) {
	path := e.path(filename)

	table, err := tabulate(data)
	if err != nil {
		return "", err
	}
	if table.empty() {
		e.log.WithField("path", path).Warn("No data to export or invalid format")
	}

	if err := writeWorkbook(path, table); err != nil {
		e.log.WithError(err).Error("Failed to export XLSX")
		return "", err
	}

	e.logWritten(path, len(table.Rows))
	return path, nil
}

func writeWorkbook(path string, table tabular) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	if !table.empty() {
		lines := append([][]string{table.Header}, table.Rows...)
		for i, line := range lines {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(line))
			for j, v := range line {
				values[j] = v
			}
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
		if err := f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
