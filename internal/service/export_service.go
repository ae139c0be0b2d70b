package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/export"
)

type paymentViewLister interface {
	List(ctx context.Context) ([]models.PaymentView, error)
}

type documentExporter interface {
	Supports(format string) bool
	Export(format, basename string, table export.Table) (*export.Document, error)
}

var paymentReportColumns = []export.Column{
	{Key: "id", Label: "ID", Width: 1.4},
	{Key: "paymentDate", Label: "Date", Width: 1.1},
	{Key: "student", Label: "Student", Width: 2},
	{Key: "amount", Label: "Amount", Width: 1},
	{Key: "paymentType", Label: "Type", Width: 0.8},
	{Key: "description", Label: "Description", Width: 2.2},
	{Key: "createdAt", Label: "Recorded", Width: 1.5},
}

// ExportService renders payment reports.
type ExportService struct {
	payments paymentViewLister
	exporter documentExporter
	logger   *zap.Logger
	now      func() string
}

// NewExportService constructs an ExportService. A nil exporter uses the CSV and PDF renderers.
func NewExportService(payments paymentViewLister, exporter documentExporter, opts Options) *ExportService {
	if exporter == nil {
		exporter = export.NewExporter()
	}
	b := newBase(opts)
	return &ExportService{payments: payments, exporter: exporter, logger: b.logger, now: b.today}
}

// ExportPayments renders every payment with the payer's name and a total row.
func (s *ExportService) ExportPayments(ctx context.Context, format string) (*export.Document, error) {
	if !s.exporter.Supports(format) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	views, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Payments report " + s.now(),
		Columns: paymentReportColumns,
		Rows:    make([]map[string]string, 0, len(views)),
	}
	var total float64
	for _, v := range views {
		p := v.Payment
		total += float64(p.Amount)
		table.Rows = append(table.Rows, map[string]string{
			"id":          p.ID.String(),
			"paymentDate": p.PaymentDate,
			"student":     v.StudentName,
			"amount":      formatAmount(float64(p.Amount)),
			"paymentType": p.PaymentType,
			"description": p.Description,
			"createdAt":   p.CreatedAt,
		})
	}
	table.Footer = map[string]string{"student": "Total", "amount": formatAmount(total)}

	doc, err := s.exporter.Export(format, "payments-"+s.now(), table)
	if err != nil {
		return nil, internalError(err, "failed to render payments report")
	}
	s.logger.Info("payments exported", zap.String("format", format), zap.Int("rows", len(views)))
	return doc, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
