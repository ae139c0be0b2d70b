package models

import "encoding/json"

// Group defaults.
const (
	DefaultGroupCapacity = 20
	GroupStatusUpcoming  = "upcoming"
)

// Group is a class led by one teacher. Students and StudentsCount mirror the students
// whose groupId points at the group; they are rewritten after every membership change.
type Group struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	TeacherID ID     `json:"teacherId" validate:"required"`
	// Schedule is free-form: clients send either a label or a list of weekdays.
	Schedule      json.RawMessage `json:"schedule,omitempty"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime"`
	Capacity      Count           `json:"capacity" validate:"gte=0"`
	Status        string          `json:"status"`
	Students      []ID            `json:"students"`
	StudentsCount int             `json:"studentsCount"`
	Extras        Extras          `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (g Group) MarshalJSON() ([]byte, error) {
	type plain Group
	if g.Students == nil {
		g.Students = []ID{}
	}
	return encodeRecord(plain(g), g.Extras)
}

// RecordID implements Record.
func (g Group) RecordID() ID { return g.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*g = Group(p)
	g.Extras = extras
	return nil
}

// SetRoster replaces the stored roster.
func (g *Group) SetRoster(ids []ID) {
	g.Students = append([]ID{}, ids...)
	g.StudentsCount = len(ids)
}

// Full reports whether a roster of n students leaves no free seat.
func (g Group) Full(n int) bool {
	return n >= int(g.Capacity)
}

// GroupView is a group as listed: derived roster plus the teacher's name.
type GroupView struct {
	Group       Group
	TeacherName string
}

// MarshalJSON implements json.Marshaler.
func (v GroupView) MarshalJSON() ([]byte, error) {
	return overlay(v.Group, map[string]interface{}{"teacherName": v.TeacherName})
}

// GroupDetail embeds the full teacher and student records of one group.
type GroupDetail struct {
	Group       Group
	TeacherName string
	Teacher     *Teacher
	Students    []Student
}

// MarshalJSON implements json.Marshaler.
func (d GroupDetail) MarshalJSON() ([]byte, error) {
	students := d.Students
	if students == nil {
		students = []Student{}
	}
	return overlay(d.Group, map[string]interface{}{
		"teacherName":   d.TeacherName,
		"teacher":       d.Teacher,
		"students":      students,
		"studentsCount": len(students),
	})
}

// MembershipRequest is the body of the add-student and remove-student operations.
type MembershipRequest struct {
	StudentID ID `json:"studentId" validate:"required"`
}

// MembershipResult reports a roster change.
type MembershipResult struct {
	Message string    `json:"message"`
	Group   GroupView `json:"group"`
}

// AssignGroupRequest moves a student into a group, or out of any group when GroupID is nil.
type AssignGroupRequest struct {
	GroupID *ID `json:"groupId"`
}
