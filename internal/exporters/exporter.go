package exporters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/pkg/logger"
)

// Format is an output file format
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats in help-text order.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXLSX, FormatMarkdown}
}

// ParseFormat accepts a format name case-insensitively. "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Extension returns the file suffix, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// Exporter writes records to a file in the output directory and returns its path
type Exporter interface {
	Export(data any, filename string) (string, error)
	Format() Format
}

// New creates the exporter for format. The output directory is created
// if it does not exist.
func New(format Format, outputDir string, log logrus.FieldLogger) (Exporter, error) {
	base, err := newBaseExporter(format, outputDir, log)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return &JSONExporter{baseExporter: base}, nil
	case FormatCSV:
		return &CSVExporter{baseExporter: base}, nil
	case FormatXLSX:
		return &XLSXExporter{baseExporter: base}, nil
	case FormatMarkdown:
		return &MarkdownExporter{baseExporter: base}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

type baseExporter struct {
	format    Format
	outputDir string
	log       logrus.FieldLogger
}

func newBaseExporter(format Format, outputDir string, log logrus.FieldLogger) (baseExporter, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return baseExporter{}, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return baseExporter{
		format:    format,
		outputDir: outputDir,
		log:       logger.Component(log, string(format)+"_exporter"),
	}, nil
}

func (b baseExporter) Format() Format {
	return b.format
}

// path joins filename to the output directory, adding the extension when missing.
func (b baseExporter) path(filename string) string {
	ext := b.format.Extension()
	if !strings.HasSuffix(filename, ext) {
		filename += ext
	}
	return filepath.Join(b.outputDir, filename)
}

// writeFile creates path and hands it to write.
func (b baseExporter) writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (b baseExporter) logWritten(path string, rows int) {
	fields := logrus.Fields{"path": path}
	if rows >= 0 {
		fields["rows"] = rows
	}
	if info, err := os.Stat(path); err == nil {
		fields["size"] = humanize.Bytes(uint64(info.Size()))
	}
	b.log.WithFields(fields).Info("Exported data")
}
