package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title: "Payments",
		Columns: []Column{
			{Key: "student", Label: "Student", Width: 2},
			{Key: "amount", Label: "Amount"},
		},
		Rows: []map[string]string{
			{"student": "Асель Ким", "amount": "15000"},
			{"student": "Bob, Jr.", "amount": "500"},
		},
		Footer: map[string]string{"student": "Total", "amount": "15500"},
	}
}

func TestExportCSV(t *testing.T) {
	doc, err := NewExporter().Export("", "payments", sampleTable())
	require.NoError(t, err)

	assert.Equal(t, "payments.csv", doc.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	require.True(t, bytes.HasPrefix(doc.Body, utf8BOM))
	assert.Equal(t, "Student,Amount\nАсель Ким,15000\n\"Bob, Jr.\",500\nTotal,15500\n", string(doc.Body[len(utf8BOM):]))
}

func TestExportPDF(t *testing.T) {
	doc, err := NewExporter().Export("PDF", "payments", sampleTable())
	require.NoError(t, err)

	assert.Equal(t, "payments.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	e := NewExporter()
	_, err := e.Export("xlsx", "payments", sampleTable())
	assert.Error(t, err)
	assert.False(t, e.Supports("xlsx"))
	assert.True(t, e.Supports("csv"))

	_, err = e.Export("csv", "payments", Table{})
	assert.Error(t, err)
}

func TestColumnWidthsUseWeights(t *testing.T) {
	widths := columnWidths(sampleTable().Columns)
	assert.InDelta(t, pdfUsableWidth*2/3, widths[0], 0.001)
	assert.InDelta(t, pdfUsableWidth/3, widths[1], 0.001)
}
