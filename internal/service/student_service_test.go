package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/internal/models"
)

func TestCreateStudentAssignsIDsAndKeepsExtras(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.studentService()

	a := mustCreateStudent(t, f, obj{"name": "A", "parentPhone": "+998", "id": 5})
	b := mustCreateStudent(t, f, obj{"name": "B"})
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, models.ID(5), a.ID)
	assert.Equal(t, models.PaymentStatusPaid, a.PaymentStatus)

	stored, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `"+998"`, string(stored.Extras["parentPhone"]))

	nameless, err := svc.Create(ctx, patchOf(t, obj{"phone": "1"}))
	require.NoError(t, err)
	assert.Equal(t, "1", nameless.Phone)
	assert.Empty(t, nameless.Name)

	_, err = svc.Get(ctx, 1)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestCreateStudentIntoGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.studentService()

	g := mustCreateGroup(t, f, obj{"name": "G", "teacherId": 1, "capacity": 1})
	s := mustCreateStudent(t, f, obj{"name": "S", "groupId": g.ID})
	require.NotNil(t, s.GroupID)
	assert.Equal(t, "G", *s.Group)

	stored, err := f.groups.Find(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.ID{s.ID}, stored.Students)

	_, err = svc.Create(ctx, patchOf(t, obj{"name": "Late", "groupId": g.ID}))
	assert.Equal(t, "CAPACITY_EXCEEDED", errorCode(err))
	_, err = svc.Create(ctx, patchOf(t, obj{"name": "Lost", "groupId": 31337}))
	assert.Equal(t, http.StatusNotFound, errorStatus(err))

	list, err := svc.List(ctx, models.StudentFilter{GroupID: &g.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateStudentCannotChangeGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.studentService()

	g := mustCreateGroup(t, f, obj{"name": "G", "teacherId": 1})
	s := mustCreateStudent(t, f, obj{"name": "S"})

	updated, err := svc.Update(ctx, s.ID, patchOf(t, obj{"groupId": g.ID, "group": "G", "balance": 10, "paymentStatus": "paid"}))
	require.NoError(t, err)
	assert.Nil(t, updated.GroupID)
	assert.Nil(t, updated.Group)
	assert.Equal(t, models.PaymentStatusUnpaid, updated.PaymentStatus)

	_, err = svc.Update(ctx, s.ID, patchOf(t, obj{"balance": "lots"}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))
}

func TestDeleteStudentUpdatesRoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	g := mustCreateGroup(t, f, obj{"name": "G", "teacherId": 1})
	s := mustCreateStudent(t, f, obj{"name": "S", "groupId": g.ID})

	require.NoError(t, f.studentService().Delete(ctx, s.ID))
	stored, err := f.groups.Find(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Students)
	assert.Equal(t, 0, stored.StudentsCount)

	assert.Equal(t, http.StatusNotFound, errorStatus(f.studentService().Delete(ctx, s.ID)))
}

func TestTeacherCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.teacherService()

	teacher := mustCreateTeacher(t, f, "Aziz")
	updated, err := svc.Update(ctx, teacher.ID, patchOf(t, obj{"subject": "Math", "id": 1, "room": 3}))
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, updated.ID)
	assert.Equal(t, "Math", updated.Subject)
	assert.JSONEq(t, `3`, string(updated.Extras["room"]))

	_, err = svc.Update(ctx, teacher.ID, patchOf(t, obj{"name": 42}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, teacher.ID))
	_, err = svc.Get(ctx, teacher.ID)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}
