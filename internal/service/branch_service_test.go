package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/internal/models"
)

func TestCompanyWithBranchesCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	companies := f.companyService()

	company, err := companies.Create(ctx, patchOf(t, obj{"name": "Bright Minds"}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, company.Status)

	_, err = f.branchService().Create(ctx, patchOf(t, obj{"companyId": company.ID, "name": "Chilonzor", "username": "chilonzor", "password": "pw"}))
	require.NoError(t, err)

	err = companies.Delete(ctx, company.ID)
	assert.Equal(t, "COMPANY_HAS_BRANCHES", errorCode(err))

	empty, err := companies.Create(ctx, patchOf(t, obj{"name": "Empty"}))
	require.NoError(t, err)
	require.NoError(t, companies.Delete(ctx, empty.ID))
	assert.Equal(t, http.StatusNotFound, errorStatus(companies.Delete(ctx, empty.ID)))
}

func TestCreateBranchAddsLoginUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	company, err := f.companyService().Create(ctx, patchOf(t, obj{"name": "Co"}))
	require.NoError(t, err)
	svc := f.branchService()

	created, err := svc.Create(ctx, patchOf(t, obj{
		"companyId": company.ID,
		"name":      "Yunusobod",
		"username":  " yunusobod ",
		"password":  "secret",
	}))
	require.NoError(t, err)
	assert.Equal(t, models.BranchLogin{Username: "yunusobod", Role: models.RoleBranch}, created.User)

	raw, err := json.Marshal(created)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"user":{"username":"yunusobod","role":"branch"}`)

	user, err := f.users.FindByUsername(ctx, "yunusobod")
	require.NoError(t, err)
	assert.NotEqual(t, created.Branch.ID, user.ID)
	assert.NotEqual(t, "secret", user.Password)
	require.NotNil(t, user.BranchID)
	assert.Equal(t, created.Branch.ID, *user.BranchID)

	_, err = svc.Create(ctx, patchOf(t, obj{"companyId": company.ID, "name": "Dup", "username": "yunusobod", "password": "x"}))
	assert.Equal(t, "USERNAME_TAKEN", errorCode(err))

	_, err = svc.Create(ctx, patchOf(t, obj{"companyId": company.ID, "name": "NoCreds"}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))

	_, err = svc.Create(ctx, patchOf(t, obj{"companyId": 404, "name": "Lost", "username": "lost", "password": "x"}))
	assert.Equal(t, http.StatusNotFound, errorStatus(err))

	require.NoError(t, svc.Delete(ctx, created.Branch.ID))
	_, err = f.users.FindByUsername(ctx, "yunusobod")
	assert.Error(t, err)
}

func TestBranchListAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c1, err := f.companyService().Create(ctx, patchOf(t, obj{"name": "C1"}))
	require.NoError(t, err)
	c2, err := f.companyService().Create(ctx, patchOf(t, obj{"name": "C2"}))
	require.NoError(t, err)
	svc := f.branchService()

	b1, err := svc.Create(ctx, patchOf(t, obj{"companyId": c1.ID, "name": "B1", "username": "b1", "password": "p"}))
	require.NoError(t, err)
	_, err = svc.Create(ctx, patchOf(t, obj{"companyId": c2.ID, "name": "B2", "username": "b2", "password": "p"}))
	require.NoError(t, err)

	mustCreateTeacher(t, f, "T")
	s := mustCreateStudent(t, f, obj{"name": "S", "status": "active", "balance": 100})
	_, err = f.paymentService().Create(ctx, patchOf(t, obj{"studentId": s.ID, "amount": 40}))
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.List(ctx, &c1.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, 1, scoped[0].StudentsCount)
	assert.Equal(t, 1, scoped[0].TeachersCount)

	stats, err := svc.Stats(ctx, b1.Branch.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stats.TotalRevenue)
	assert.Equal(t, 1, stats.ActiveStudents)

	_, err = svc.Stats(ctx, 4040)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))

	_, err = svc.Update(ctx, b1.Branch.ID, patchOf(t, obj{"companyId": 4040}))
	assert.Equal(t, http.StatusNotFound, errorStatus(err))

	moved, err := svc.Update(ctx, b1.Branch.ID, patchOf(t, obj{"companyId": c2.ID, "phone": "+998"}))
	require.NoError(t, err)
	assert.Equal(t, c2.ID, moved.CompanyID)
}
