package domain

import "time"

// UserRole classifies what a user does inside a laboratory organization.
type UserRole string

const (
	RoleTechnician            UserRole = "technician"
	RoleResearcher            UserRole = "researcher"
	RoleProcurementSupervisor UserRole = "procurement_supervisor"
	RoleInspector             UserRole = "inspector"
)

// User represents a registered account with its public profile fields.
// The password is never carried on this struct; it only exists as a bcrypt
// hash inside the store layer.
type User struct {
	ID                   string    `json:"id"`
	Username             string    `json:"username"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	Role                 UserRole  `json:"role,omitempty"`
	Organization         string    `json:"organization,omitempty"`
	DocumentRegistration string    `json:"documentRegistration,omitempty"`
	AvatarURL            string    `json:"avatarUrl,omitempty"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
}

// SignUpRequest is the payload accepted by POST /authentication/sign-up.
type SignUpRequest struct {
	Username             string   `json:"username"`
	Password             string   `json:"password"`
	FullName             string   `json:"fullName"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone,omitempty"`
	Role                 UserRole `json:"role,omitempty"`
	Organization         string   `json:"organization,omitempty"`
	DocumentRegistration string   `json:"documentRegistration,omitempty"`
	AvatarURL            string   `json:"avatarUrl,omitempty"`
}

// SignUpResponse is returned with a 201 after a successful registration.
type SignUpResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SignInRequest is the payload accepted by POST /authentication/sign-in.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse carries the authenticated user's profile plus the bearer
// token the client attaches to every subsequent request.
type SignInResponse struct {
	User
	Token string `json:"token"`
}
