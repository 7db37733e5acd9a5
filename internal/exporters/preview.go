package exporters

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const previewCellWidth = 40

// Preview prints the first limit records of data as a table. Nothing is
// printed when limit is not positive or data has no rows.
func Preview(w io.Writer, data any, limit int) error {
	if limit <= 0 {
		return nil
	}

	tab, err := tabulate(data)
	if err != nil {
		return err
	}
	if tab.empty() {
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	header := make(table.Row, len(tab.Header))
	configs := make([]table.ColumnConfig, len(tab.Header))
	for i, name := range tab.Header {
		header[i] = name
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			WidthMax:         previewCellWidth,
			WidthMaxEnforcer: text.Trim,
		}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	shown := tab.Rows
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, row := range shown {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	if len(tab.Rows) > limit {
		t.SetCaption(fmt.Sprintf("showing %d of %s records", limit, humanizeCount(len(tab.Rows))))
	}

	t.Render()
	return nil
}

func humanizeCount(n int) string {
	return humanize.Comma(int64(n))
}
