package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/internal/models"
)

func TestPaymentLifecycleKeepsBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.paymentService()

	s := mustCreateStudent(t, f, obj{"name": "Dilnoza", "balance": 300000})
	assert.Equal(t, models.PaymentStatusUnpaid, s.PaymentStatus)

	payment, err := svc.Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": "200000", "note": "june"}))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", payment.PaymentDate)
	assert.Equal(t, "2024-06-01 10:30:00", payment.CreatedAt)
	assert.Equal(t, models.PaymentTypeCash, payment.PaymentType)
	assert.JSONEq(t, `"june"`, string(payment.Extras["note"]))

	student, err := f.students.Find(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Number(100000), student.Balance)
	assert.Equal(t, models.PaymentStatusUnpaid, student.PaymentStatus)

	_, err = svc.Update(ctx, payment.ID, patchOf(t, obj{"amount": 300000, "studentId": 9}))
	require.NoError(t, err)
	student, err = f.students.Find(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Number(0), student.Balance)
	assert.Equal(t, models.PaymentStatusPaid, student.PaymentStatus)

	stored, err := f.payments.Find(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, stored.StudentID)

	require.NoError(t, svc.Delete(ctx, payment.ID))
	student, err = f.students.Find(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Number(300000), student.Balance)
	assert.Equal(t, models.PaymentStatusUnpaid, student.PaymentStatus)

	err = svc.Delete(ctx, payment.ID)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestCreatePaymentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.paymentService()

	_, err := svc.Create(ctx, patchOf(t, obj{"studentId": 1, "amount": "ten"}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))

	_, err = svc.Create(ctx, patchOf(t, obj{"amount": 10}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))

	_, err = svc.Create(ctx, patchOf(t, obj{"studentId": 77, "amount": 10}))
	assert.Equal(t, http.StatusNotFound, errorStatus(err))

	all, err := f.payments.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPaymentOfDeletedStudentCanBeRemoved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.paymentService()

	s := mustCreateStudent(t, f, obj{"name": "Gone"})
	payment, err := svc.Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": 50}))
	require.NoError(t, err)
	require.NoError(t, f.studentService().Delete(ctx, s.ID))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, UnknownLabel, views[0].StudentName)

	require.NoError(t, svc.Delete(ctx, payment.ID))
}

func TestNegativePaymentRaisesBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.paymentService()

	s := mustCreateStudent(t, f, obj{"name": "Refund", "balance": 0})

	payment, err := svc.Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": -50}))
	require.NoError(t, err)
	assert.Equal(t, models.Number(-50), payment.Amount)

	student, err := f.students.Find(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Number(50), student.Balance)
	assert.Equal(t, models.PaymentStatusUnpaid, student.PaymentStatus)

	_, err = svc.Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": 0}))
	require.NoError(t, err)
}
