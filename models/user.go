package models

// User is the authenticated dashboard user as reported by the backend.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginRequest carries the credentials posted to the login route.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the client-facing body of the login and logout routes.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Session pairs the cookie token with its resolved user.
type Session struct {
	JWTToken string `json:"jwt_token"`
	User     User   `json:"user"`
}

// SessionResponse is the body of the sessions route. A nil Session means
// "not logged in" and is a success, not an error.
type SessionResponse struct {
	Success bool     `json:"success"`
	Session *Session `json:"session"`
}

// UserData is the backend's shape for a validated token's owner.
type UserData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ValidationResponse is the body of the validate route, mirroring the
// backend's token validation contract.
type ValidationResponse struct {
	Valid    bool      `json:"valid"`
	Error    string    `json:"error,omitempty"`
	UserData *UserData `json:"user_data,omitempty"`
}
