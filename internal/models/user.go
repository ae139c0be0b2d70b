package models

// UserRole is the role a login account acts as.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCompany UserRole = "company"
	RoleBranch  UserRole = "branch"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompany, RoleBranch, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User is a login account. Password holds a bcrypt hash, or plaintext for accounts
// written before hashing was introduced.
type User struct {
	ID        ID       `json:"id"`
	Username  string   `json:"username" validate:"required"`
	Password  string   `json:"password" validate:"required"`
	Role      UserRole `json:"role" validate:"required"`
	Name      string   `json:"name"`
	CompanyID *ID      `json:"companyId,omitempty"`
	BranchID  *ID      `json:"branchId,omitempty"`
	CreatedAt string   `json:"createdAt"`
	Extras    Extras   `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return encodeRecord(plain(u), u.Extras)
}

// RecordID implements Record.
func (u User) RecordID() ID { return u.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*u = User(p)
	u.Extras = extras
	return nil
}

// Public returns the user without its password.
func (u User) Public() PublicUser {
	return PublicUser(u)
}

// PublicUser is a user as shown to clients.
type PublicUser User

// MarshalJSON implements json.Marshaler.
func (u PublicUser) MarshalJSON() ([]byte, error) {
	return overlay(User(u), map[string]interface{}{"password": nil})
}
