package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

func newMemoryStore() *store.Store {
	return store.New(store.NewMemoryDriver(), nil, nil)
}

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherRepository(newMemoryStore())

	list, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Insert(ctx, models.Teacher{ID: 1, Name: "Aziz", Phone: "+998901112233"}))
	require.NoError(t, repo.Insert(ctx, models.Teacher{ID: 2, Name: "Dilnoza"}))

	found, err := repo.Find(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Dilnoza", found.Name)

	found.Subject = "English"
	require.NoError(t, repo.Replace(ctx, *found))
	found, err = repo.Find(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "English", found.Subject)

	removed, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Aziz", removed.Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollectionMissingRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepository(newMemoryStore())
	require.NoError(t, repo.Insert(ctx, models.Company{ID: 1, Name: "Acme"}))

	_, err := repo.Find(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Replace(ctx, models.Company{ID: 9}), ErrNotFound)
	_, err = repo.Delete(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEntityLookups(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore()

	students := NewStudentRepository(s)
	g := models.Group{ID: 10, Name: "G1"}
	s1 := models.Student{ID: 1, FirstName: "Ali", LastName: "Valiyev", Phone: "111", Status: "active"}
	s1.Assign(g)
	require.NoError(t, students.SaveAll(ctx, []models.Student{
		s1,
		{ID: 2, Name: "Bobur", Phone: "222", Status: "inactive"},
	}))

	members, err := students.ListByGroup(ctx, 10)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.ID(1), members[0].ID)

	inactive, err := students.List(ctx, models.StudentFilter{Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)

	found, err := students.FindByCredentials(ctx, "111", "Ali Valiyev")
	require.NoError(t, err)
	assert.Equal(t, models.ID(1), found.ID)
	_, err = students.FindByCredentials(ctx, "222", "Ali Valiyev")
	assert.ErrorIs(t, err, ErrNotFound)

	users := NewUserRepository(s)
	require.NoError(t, users.Insert(ctx, models.User{ID: 5, Username: "b1", Role: models.RoleBranch, BranchID: models.ID(3).Ptr()}))
	u, err := users.FindByUsername(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.ID(5), u.ID)
	linked, err := users.ListByBranch(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	tasks := NewTaskRepository(s)
	require.NoError(t, tasks.SaveAll(ctx, []models.Task{{ID: 1, GroupID: 10}, {ID: 2, GroupID: 11}}))
	byGroup, err := tasks.ListByGroup(ctx, 11)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, models.ID(2), byGroup[0].ID)
}

func TestEnsureCollectionsOverSQL(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS collections").WillReturnResult(sqlmock.NewResult(0, 0))
	driver, err := store.NewSQLDriver(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.NoError(t, err)

	for _, name := range AllCollections {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM collections WHERE name = ?")).
			WithArgs(name).
			WillReturnRows(sqlmock.NewRows([]string{"payload"}))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collections (name, payload)")).
			WithArgs(name, "[]").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	require.NoError(t, EnsureCollections(context.Background(), store.New(driver, nil, nil)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
