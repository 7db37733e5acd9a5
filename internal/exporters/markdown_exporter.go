package exporters

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/nao1215/markdown"
)

// MarkdownExporter writes records as a GitHub-flavored markdown table
type MarkdownExporter struct {
	baseExporter
}

// Export writes data to filename, adding .md when missing. The file
// name without extension is used as the heading.
func (e *MarkdownExporter) Export(data any, filename string) (string, error) {
	path := e.path(filename)

	table, err := tabulate(data)
	if err != nil {
		return "", err
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	err = e.writeFile(path, func(w io.Writer) error {
		md := markdown.NewMarkdown(w).H1(title)
		if table.empty() {
			md.PlainText("No records.")
			return md.Build()
		}

		rows := make([][]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = escapeCell(cell)
			}
			rows = append(rows, cells)
		}

		md.PlainText(pluralize(len(rows), "record")).
			Table(markdown.TableSet{
				Header: table.Header,
				Rows:   rows,
			})
		return md.Build()
	})
	if err != nil {
		e.log.WithError(err).Error("Failed to export markdown")
		return "", err
	}

	e.logWritten(path, len(table.Rows))
	return path, nil
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun + "."
	}
	return humanizeCount(n) + " " + noun + "s."
}
