package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// PaymentRepository manages persistence for payments.
type PaymentRepository struct {
	*Collection[models.Payment]
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(s *store.Store) *PaymentRepository {
	return &PaymentRepository{Collection: NewCollection[models.Payment](s, CollectionPayments)}
}

// ListByStudent returns the payments of one student.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID models.ID) ([]models.Payment, error) {
	return r.Filter(ctx, func(p models.Payment) bool { return p.StudentID == studentID })
}
