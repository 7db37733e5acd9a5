package exporters

import (
	"encoding/csv"
	"io"
)

// CSVExporter writes records as a flattened CSV table
type CSVExporter struct {
	baseExporter
}

// Export writes data to filename, adding .csv when missing. Data that is
// empty or not tabular produces an empty file.
func (e *CSVExporter) Export(data any, filename string) (string, error) {
	path := e.path(filename)

	table, err := tabulate(data)
	if err != nil {
		return "", err
	}
	if table.empty() {
		e.log.WithField("path", path).Warn("No data to export or invalid format")
	}

	err = e.writeFile(path, func(w io.Writer) error {
		if table.empty() {
			return nil
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(table.Header); err != nil {
			return err
		}
		if err := cw.WriteAll(table.Rows); err != nil {
			return err
		}
		return cw.Error()
	})
	if err != nil {
		e.log.WithError(err).Error("Failed to export CSV")
		return "", err
	}

	e.logWritten(path, len(table.Rows))
	return path, nil
}
