package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds username credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a login account.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Role     UserRole `json:"role" validate:"required"`
	Name     string   `json:"name"`
}

// PhoneLoginRequest identifies a student or teacher by phone number and name.
type PhoneLoginRequest struct {
	Phone string `json:"phone" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

// LoginResponse is returned by every login flavour and by registration.
type LoginResponse struct {
	Success bool        `json:"success"`
	User    interface{} `json:"user"`
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
}

// StudentPrincipal is a student presented as a logged-in user.
type StudentPrincipal struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Role    UserRole `json:"role"`
	GroupID *ID      `json:"groupId"`
	Group   *string  `json:"group"`
	Status  string   `json:"status"`
}

// TeacherPrincipal is a teacher presented as a logged-in user.
type TeacherPrincipal struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Role    UserRole `json:"role"`
	Subject string   `json:"subject"`
	Status  string   `json:"status"`
}

// JWTClaims is the payload of issued tokens.
type JWTClaims struct {
	UserID   ID       `json:"user_id"`
	Username string   `json:"username,omitempty"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
