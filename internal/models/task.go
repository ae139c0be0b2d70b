package models

// TaskStatusPending is the status of a newly created task.
const TaskStatusPending = "pending"

// Task is homework a teacher assigns to one of their groups.
type Task struct {
	ID          ID     `json:"id"`
	GroupID     ID     `json:"groupId" validate:"required"`
	TeacherID   ID     `json:"teacherId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	Extras      Extras `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return encodeRecord(plain(t), t.Extras)
}

// RecordID implements Record.
func (t Task) RecordID() ID { return t.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*t = Task(p)
	t.Extras = extras
	return nil
}

// TaskView adds group and teacher names.
type TaskView struct {
	Task        Task
	GroupName   string
	TeacherName string
}

// MarshalJSON implements json.Marshaler.
func (v TaskView) MarshalJSON() ([]byte, error) {
	return overlay(v.Task, map[string]interface{}{
		"groupName":   v.GroupName,
		"teacherName": v.TeacherName,
	})
}
