package export

import (
	"fmt"
	"strings"
)

// Formats understood by New.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatYAML = "yaml"
)

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into file bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	Extension() string
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "":
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	case FormatYAML, "yml":
		return NewYAMLExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
