package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/pkg/export"
)

func TestExportPayments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	payments := f.paymentService()
	svc := NewExportService(payments, nil, f.opts)

	s := mustCreateStudent(t, f, obj{"name": "Dilnoza", "balance": 500})
	_, err := payments.Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": 120.5, "description": "June"}))
	require.NoError(t, err)
	_, err = payments.Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": 80}))
	require.NoError(t, err)

	doc, err := svc.ExportPayments(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "payments-2024-06-01.csv", doc.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	body := string(bytes.TrimPrefix(doc.Body, []byte("\xef\xbb\xbf")))
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Date,Student,Amount"))
	assert.Contains(t, lines[1], "Dilnoza")
	assert.Contains(t, lines[1], "120.5")
	assert.Contains(t, lines[3], "Total")
	assert.Contains(t, lines[3], "200.5")

	doc, err = svc.ExportPayments(ctx, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF")))

	_, err = svc.ExportPayments(ctx, "xlsx")
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))
}

func TestSystemService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewSystemService(f.store, f.metrics, []string{"students", "groups"})

	info := svc.Info()
	assert.Equal(t, "memory", info.Driver)
	assert.Equal(t, "/groups", info.Endpoints["groups"])

	require.NoError(t, svc.Ready(ctx))
	health := svc.Health()
	assert.Equal(t, "ok", health.Status)
	assert.NotZero(t, health.Metrics.StoreOperations)
}

func TestMetricsServiceIsNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordRosterChange(RosterAdd)
	m.ObserveHTTPRequest(http.MethodGet, "/groups", http.StatusOK, 0)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}
