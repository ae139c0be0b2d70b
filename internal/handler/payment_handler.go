package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/export"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

type paymentService interface {
	List(ctx context.Context) ([]models.PaymentView, error)
	Create(ctx context.Context, patch models.Patch) (*models.Payment, error)
	Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Payment, error)
	Delete(ctx context.Context, id models.ID) error
}

type paymentExporter interface {
	ExportPayments(ctx context.Context, format string) (*export.Document, error)
}

// PaymentHandler wires payment services to HTTP routes.
type PaymentHandler struct {
	payments paymentService
	exports  paymentExporter
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments paymentService, exports paymentExporter) *PaymentHandler {
	return &PaymentHandler{payments: payments, exports: exports}
}

// List godoc
// @Summary List payments with student names
// @Tags Payments
// @Produce json
// @Success 200 {array} models.PaymentView
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.payments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payments)
}

// Create godoc
// @Summary Record a payment and deduct it from the student's balance
// @Tags Payments
// @Accept json
// @Produce json
// @Success 201 {object} models.Payment
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	patch, ok := bindPatch(c, "payment")
	if !ok {
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Update godoc
// @Summary Update payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} models.Payment
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch, ok := bindPatch(c, "payment")
	if !ok {
		return
	}
	payment, err := h.payments.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payment)
}

// Delete godoc
// @Summary Delete payment and restore the balance
// @Tags Payments
// @Param id path int true "Payment ID"
// @Success 200 {object} response.MessageBody
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Payment")
}

// Export godoc
// @Summary Download the payments report
// @Tags Payments
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	doc, err := h.exports.ExportPayments(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
