// Package export renders tabular reports as CSV or PDF documents.
package export

import (
	"fmt"
	"strings"
)

// Supported formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Column describes one table column. Width is a relative weight used by the PDF layout.
type Column struct {
	Key   string
	Label string
	Width float64
}

// Table is the exportable content.
type Table struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
	Footer  map[string]string
}

// Document is a rendered export ready to be streamed to a client.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Renderer turns tables into documents.
type Renderer interface {
	Render(table Table) ([]byte, error)
}

// Exporter dispatches tables to the renderer registered for a format.
type Exporter struct {
	renderers map[string]Renderer
	types     map[string]string
}

// NewExporter wires the CSV and PDF renderers.
func NewExporter() *Exporter {
	return &Exporter{
		renderers: map[string]Renderer{
			FormatCSV: NewCSVRenderer(),
			FormatPDF: NewPDFRenderer(),
		},
		types: map[string]string{
			FormatCSV: "text/csv; charset=utf-8",
			FormatPDF: "application/pdf",
		},
	}
}

// Export renders the table in the requested format. An empty format means CSV.
func (e *Exporter) Export(format, basename string, table Table) (*Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	renderer, ok := e.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("%s export requires at least one column", format)
	}
	body, err := renderer.Render(table)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    basename + "." + format,
		ContentType: e.types[format],
		Body:        body,
	}, nil
}

// Supports reports whether the format can be rendered.
func (e *Exporter) Supports(format string) bool {
	_, ok := e.renderers[strings.ToLower(strings.TrimSpace(format))]
	return ok || strings.TrimSpace(format) == ""
}
