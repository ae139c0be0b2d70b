package models

import "strings"

// Payment statuses derived from a student's balance.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// StudentStatusActive marks students counted as active in branch statistics.
const StudentStatusActive = "active"

// Student is enrolled in at most one group. GroupID and Group are maintained by the
// group membership operations only.
type Student struct {
	ID            ID      `json:"id"`
	Name          string  `json:"name"`
	FirstName     string  `json:"firstName,omitempty"`
	LastName      string  `json:"lastName,omitempty"`
	Phone         string  `json:"phone"`
	GroupID       *ID     `json:"groupId"`
	Group         *string `json:"group"`
	Balance       Number  `json:"balance"`
	PaymentStatus string  `json:"paymentStatus,omitempty"`
	Status        string  `json:"status"`
	Extras        Extras  `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (s Student) MarshalJSON() ([]byte, error) {
	type plain Student
	return encodeRecord(plain(s), s.Extras)
}

// RecordID implements Record.
func (s Student) RecordID() ID { return s.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (s *Student) UnmarshalJSON(data []byte) error {
	type plain Student
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*s = Student(p)
	s.Extras = extras
	return nil
}

// DisplayName joins first and last name, falling back to name.
func (s Student) DisplayName() string {
	if s.FirstName != "" || s.LastName != "" {
		return strings.TrimSpace(s.FirstName + " " + s.LastName)
	}
	return s.Name
}

// InGroup reports whether the student belongs to the given group.
func (s Student) InGroup(id ID) bool {
	return s.GroupID != nil && *s.GroupID == id
}

// Assign moves the student into g.
func (s *Student) Assign(g Group) {
	name := g.Name
	s.GroupID = g.ID.Ptr()
	s.Group = &name
}

// Unassign clears the student's group.
func (s *Student) Unassign() {
	s.GroupID = nil
	s.Group = nil
}

// SettleStatus derives PaymentStatus from the balance.
func (s *Student) SettleStatus() {
	if s.Balance <= 0 {
		s.PaymentStatus = PaymentStatusPaid
		return
	}
	s.PaymentStatus = PaymentStatusUnpaid
}

// StudentFilter narrows student listings. Nil fields match everything.
type StudentFilter struct {
	GroupID *ID
	Status  string
}

// Matches reports whether s passes the filter.
func (f StudentFilter) Matches(s Student) bool {
	if f.GroupID != nil && !s.InGroup(*f.GroupID) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}
