package models

// Roles a console user can hold.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// UserProfile is the identity returned by /auth/me.
type UserProfile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResponse is the body of /auth/login and /auth/signup.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	Detail      string `json:"detail,omitempty"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Session is the signed-in state. User is set only once the token has been
// validated against /auth/me.
type Session struct {
	Token string
	Role  string
	User  *UserProfile
}

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
