package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tutor-center-api/internal/models"
)

func TestResolveGroupsDerivesRosterFromStudents(t *testing.T) {
	gid := models.ID(1)
	groups := []models.Group{
		{ID: 1, Name: "G1", TeacherID: 10, Students: []models.ID{99}, StudentsCount: 1},
		{ID: 2, Name: "G2", TeacherID: 20},
	}
	teachers := []models.Teacher{{ID: 10, Name: "Aziz"}}
	students := []models.Student{{ID: 5, Name: "S", GroupID: &gid}}

	views := ResolveGroups(groups, teachers, students)
	assert.Equal(t, []models.ID{5}, views[0].Group.Students)
	assert.Equal(t, 1, views[0].Group.StudentsCount)
	assert.Equal(t, "Aziz", views[0].TeacherName)
	assert.Equal(t, TeacherNotFoundLabel, views[1].TeacherName)

	assert.True(t, syncRosters(groups, students))
	assert.False(t, syncRosters(groups, students))
}

func TestResolvePaymentsAndTasks(t *testing.T) {
	payments := ResolvePayments(
		[]models.Payment{{ID: 1, StudentID: 5}, {ID: 2, StudentID: 6}},
		[]models.Student{{ID: 5, FirstName: "Ali", LastName: "V"}},
	)
	assert.Equal(t, "Ali V", payments[0].StudentName)
	assert.Equal(t, UnknownLabel, payments[1].StudentName)

	tasks := ResolveTasks(
		[]models.Task{{ID: 1, GroupID: 1, TeacherID: 1}, {ID: 2, GroupID: 2, TeacherID: 2}},
		[]models.Group{{ID: 1, Name: "G"}},
		[]models.Teacher{{ID: 1, Name: "T"}},
	)
	assert.Equal(t, "G", tasks[0].GroupName)
	assert.Equal(t, "T", tasks[0].TeacherName)
	assert.Equal(t, UnknownLabel, tasks[1].GroupName)
	assert.Equal(t, UnknownLabel, tasks[1].TeacherName)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(
		[]models.Student{{ID: 1, Status: models.StudentStatusActive}, {ID: 2}},
		[]models.Teacher{{ID: 1}},
		nil,
		[]models.Payment{{Amount: 10.5}, {Amount: 4.5}},
	)
	assert.Equal(t, models.BranchStats{Students: 2, Teachers: 1, TotalRevenue: 15, ActiveStudents: 1}, stats)
}
