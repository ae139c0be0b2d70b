package models

// StatusActive is the default status of companies and branches.
const StatusActive = "active"

// Company owns branches.
type Company struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	Extras    Extras `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (c Company) MarshalJSON() ([]byte, error) {
	type plain Company
	return encodeRecord(plain(c), c.Extras)
}

// RecordID implements Record.
func (c Company) RecordID() ID { return c.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (c *Company) UnmarshalJSON(data []byte) error {
	type plain Company
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*c = Company(p)
	c.Extras = extras
	return nil
}

// Branch is a company location. Creating one also creates its login user.
type Branch struct {
	ID        ID     `json:"id"`
	CompanyID ID     `json:"companyId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	Extras    Extras `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (b Branch) MarshalJSON() ([]byte, error) {
	type plain Branch
	return encodeRecord(plain(b), b.Extras)
}

// RecordID implements Record.
func (b Branch) RecordID() ID { return b.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (b *Branch) UnmarshalJSON(data []byte) error {
	type plain Branch
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*b = Branch(p)
	b.Extras = extras
	return nil
}

// BranchView adds the aggregate counters shown in branch listings.
type BranchView struct {
	Branch        Branch
	StudentsCount int
	TeachersCount int
	GroupsCount   int
}

// MarshalJSON implements json.Marshaler.
func (v BranchView) MarshalJSON() ([]byte, error) {
	return overlay(v.Branch, map[string]interface{}{
		"studentsCount": v.StudentsCount,
		"teachersCount": v.TeachersCount,
		"groupsCount":   v.GroupsCount,
	})
}

// BranchLogin describes the user created alongside a branch.
type BranchLogin struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// BranchCreated is the response to a branch creation.
type BranchCreated struct {
	Branch Branch
	User   BranchLogin
}

// MarshalJSON implements json.Marshaler.
func (b BranchCreated) MarshalJSON() ([]byte, error) {
	return overlay(b.Branch, map[string]interface{}{"user": b.User})
}

// BranchStats are the headline numbers of a branch dashboard.
type BranchStats struct {
	Students       int     `json:"students"`
	Teachers       int     `json:"teachers"`
	Groups         int     `json:"groups"`
	TotalRevenue   float64 `json:"totalRevenue"`
	ActiveStudents int     `json:"activeStudents"`
}
