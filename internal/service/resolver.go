package service

import "github.com/noah-isme/tutor-center-api/internal/models"

// Labels shown when a referenced record no longer exists.
const (
	TeacherNotFoundLabel = "Teacher not found"
	UnknownLabel         = "Unknown"
)

// The functions below build read views from full collection snapshots. They never
// mutate their inputs and nothing they return is cached.

// rosterOf lists, in student order, the ids of the students whose groupId is groupID.
func rosterOf(groupID models.ID, students []models.Student) []models.ID {
	ids := []models.ID{}
	for _, s := range students {
		if s.InGroup(groupID) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func membersOf(groupID models.ID, students []models.Student) []models.Student {
	members := []models.Student{}
	for _, s := range students {
		if s.InGroup(groupID) {
			members = append(members, s)
		}
	}
	return members
}

// syncRosters rewrites every group's stored roster from student membership and
// reports whether anything changed.
func syncRosters(groups []models.Group, students []models.Student) bool {
	changed := false
	for i := range groups {
		roster := rosterOf(groups[i].ID, students)
		if !sameIDs(groups[i].Students, roster) || groups[i].StudentsCount != len(roster) {
			groups[i].SetRoster(roster)
			changed = true
		}
	}
	return changed
}

func sameIDs(a, b []models.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func teacherIndex(teachers []models.Teacher) map[models.ID]*models.Teacher {
	index := make(map[models.ID]*models.Teacher, len(teachers))
	for i := range teachers {
		index[teachers[i].ID] = &teachers[i]
	}
	return index
}

func teacherName(index map[models.ID]*models.Teacher, id models.ID, fallback string) string {
	if t, ok := index[id]; ok {
		return t.Name
	}
	return fallback
}

// ResolveGroups derives rosters and teacher names for a group listing.
func ResolveGroups(groups []models.Group, teachers []models.Teacher, students []models.Student) []models.GroupView {
	index := teacherIndex(teachers)
	views := make([]models.GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, resolveGroup(g, index, students))
	}
	return views
}

func resolveGroup(g models.Group, index map[models.ID]*models.Teacher, students []models.Student) models.GroupView {
	g.SetRoster(rosterOf(g.ID, students))
	return models.GroupView{Group: g, TeacherName: teacherName(index, g.TeacherID, TeacherNotFoundLabel)}
}

// ResolveGroupDetail embeds the group's teacher and member records.
func ResolveGroupDetail(g models.Group, teachers []models.Teacher, students []models.Student) models.GroupDetail {
	index := teacherIndex(teachers)
	members := membersOf(g.ID, students)
	g.SetRoster(rosterOf(g.ID, students))

	var teacher *models.Teacher
	if t, ok := index[g.TeacherID]; ok {
		cp := *t
		teacher = &cp
	}
	return models.GroupDetail{
		Group:       g,
		TeacherName: teacherName(index, g.TeacherID, TeacherNotFoundLabel),
		Teacher:     teacher,
		Students:    members,
	}
}

// ResolvePayments attaches the payer's display name to each payment.
func ResolvePayments(payments []models.Payment, students []models.Student) []models.PaymentView {
	names := make(map[models.ID]string, len(students))
	for _, s := range students {
		names[s.ID] = s.DisplayName()
	}
	views := make([]models.PaymentView, 0, len(payments))
	for _, p := range payments {
		name, ok := names[p.StudentID]
		if !ok || name == "" {
			name = UnknownLabel
		}
		views = append(views, models.PaymentView{Payment: p, StudentName: name})
	}
	return views
}

// ResolveTasks attaches group and teacher names to each task.
func ResolveTasks(tasks []models.Task, groups []models.Group, teachers []models.Teacher) []models.TaskView {
	groupNames := make(map[models.ID]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	index := teacherIndex(teachers)
	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		groupName, ok := groupNames[t.GroupID]
		if !ok {
			groupName = UnknownLabel
		}
		views = append(views, models.TaskView{
			Task:        t,
			GroupName:   groupName,
			TeacherName: teacherName(index, t.TeacherID, UnknownLabel),
		})
	}
	return views
}

// ResolveBranches attaches the aggregate counters. They are totals over the whole
// center, not per branch, because records carry no branch reference yet.
func ResolveBranches(branches []models.Branch, stats models.BranchStats) []models.BranchView {
	views := make([]models.BranchView, 0, len(branches))
	for _, b := range branches {
		views = append(views, models.BranchView{
			Branch:        b,
			StudentsCount: stats.Students,
			TeachersCount: stats.Teachers,
			GroupsCount:   stats.Groups,
		})
	}
	return views
}

// ComputeStats totals the center-wide numbers shown on branch dashboards.
func ComputeStats(students []models.Student, teachers []models.Teacher, groups []models.Group, payments []models.Payment) models.BranchStats {
	stats := models.BranchStats{
		Students: len(students),
		Teachers: len(teachers),
		Groups:   len(groups),
	}
	for _, p := range payments {
		stats.TotalRevenue += float64(p.Amount)
	}
	for _, s := range students {
		if s.Status == models.StudentStatusActive {
			stats.ActiveStudents++
		}
	}
	return stats
}
