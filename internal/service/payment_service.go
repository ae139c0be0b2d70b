package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type paymentRepository interface {
	recordStore[models.Payment]
}

// PaymentService records payments and keeps student balances in step with them.
type PaymentService struct {
	base
	repo     paymentRepository
	students studentRepository
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, students studentRepository, opts Options) *PaymentService {
	return &PaymentService{base: newBase(opts), repo: repo, students: students}
}

// List returns payments with the payer's name.
func (s *PaymentService) List(ctx context.Context) ([]models.PaymentView, error) {
	payments, err := listRecords[models.Payment](ctx, s.repo)
	if err != nil {
		return nil, err
	}
	students, err := listRecords[models.Student](ctx, s.students)
	if err != nil {
		return nil, err
	}
	return ResolvePayments(payments, students), nil
}

// Create records a payment and deducts it from the student's balance.
func (s *PaymentService) Create(ctx context.Context, patch models.Patch) (*models.Payment, error) {
	payment, err := patchRecord(models.Payment{
		ID:          s.nextID(),
		PaymentDate: s.today(),
		PaymentType: models.PaymentTypeCash,
		CreatedAt:   s.timestamp(),
	}, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(payment, "payment"); err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	student, err := findRecord[models.Student](ctx, s.students, payment.StudentID, "student")
	if err != nil {
		return nil, err
	}
	student.Balance -= payment.Amount
	student.SettleStatus()

	if err := s.students.Replace(ctx, *student); err != nil {
		return nil, internalError(err, "failed to update student balance")
	}
	if err := s.repo.Insert(ctx, payment); err != nil {
		return nil, internalError(err, "failed to record payment")
	}

	s.logger.Info("payment recorded",
		zap.Int64("payment_id", int64(payment.ID)),
		zap.Int64("student_id", int64(student.ID)),
		zap.Float64("amount", float64(payment.Amount)),
		zap.Float64("balance", float64(student.Balance)),
	)
	return &payment, nil
}

// Update merges patch into a payment. A changed amount moves the student's balance by
// the difference.
func (s *PaymentService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Payment, error) {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	current, err := findRecord[models.Payment](ctx, s.repo, id, "payment")
	if err != nil {
		return nil, err
	}
	payment, err := patchRecord(*current, patch, "id", "studentId", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(payment, "payment"); err != nil {
		return nil, err
	}

	if delta := payment.Amount - current.Amount; delta != 0 {
		if err := s.adjustBalance(ctx, payment.StudentID, -delta); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Replace(ctx, payment); err != nil {
		return nil, internalError(err, "failed to update payment")
	}
	return &payment, nil
}

// Delete removes a payment and gives its amount back to the student's balance.
func (s *PaymentService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	current, err := findRecord[models.Payment](ctx, s.repo, id, "payment")
	if err != nil {
		return err
	}
	if err := s.adjustBalance(ctx, current.StudentID, current.Amount); err != nil {
		return err
	}
	if _, err := deleteRecord[models.Payment](ctx, s.repo, id, "payment"); err != nil {
		return err
	}
	s.logger.Info("payment deleted", zap.Int64("payment_id", int64(id)))
	return nil
}

// adjustBalance adds delta to a student's balance. Payments of deleted students leave
// nothing to adjust.
func (s *PaymentService) adjustBalance(ctx context.Context, studentID models.ID, delta models.Number) error {
	student, err := findRecord[models.Student](ctx, s.students, studentID, "student")
	if err != nil {
		if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
			s.logger.Warn("payment references a missing student", zap.Int64("student_id", int64(studentID)))
			return nil
		}
		return err
	}
	student.Balance += delta
	student.SettleStatus()
	if err := s.students.Replace(ctx, *student); err != nil {
		return internalError(err, "failed to update student balance")
	}
	return nil
}
