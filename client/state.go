package client

import (
	"context"
	"sync"

	"fundiq/models"
)

// AuthState is the process-wide session cache consumed by UI code: the
// current user plus a loading flag. Authentication status is derived from
// the user pointer rather than tracked separately, so the two can't
// diverge.
type AuthState struct {
	mu      sync.Mutex
	auth    *AuthService
	user    *models.User
	loading bool
}

func NewAuthState(auth *AuthService) *AuthState {
	return &AuthState{auth: auth, loading: true}
}

// CheckSession restores the session on startup: mirror first for a
// zero-latency restore, server otherwise. Errors never escape; they
// collapse to a nil user.
func (a *AuthState) CheckSession(ctx context.Context) {
	a.setLoading(true)
	defer a.setLoading(false)

	result := a.auth.GetSession(ctx)
	if !result.Success {
		a.setUser(nil)
		return
	}

	var session models.SessionResponse
	if err := result.Decode(&session); err != nil || session.Session == nil {
		a.setUser(nil)
		return
	}
	user := session.Session.User
	a.setUser(&user)
}

// Login authenticates and updates the cached user on success. The full
// response is returned so callers can surface the failure message inline.
func (a *AuthState) Login(ctx context.Context, username, password string) models.AuthResponse {
	a.setLoading(true)
	defer a.setLoading(false)

	result := a.auth.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if !result.Success {
		return models.AuthResponse{Success: false, Message: result.Error}
	}

	var auth models.AuthResponse
	if err := result.Decode(&auth); err != nil {
		return models.AuthResponse{Success: false, Message: "Login failed due to network error"}
	}
	if auth.Success && auth.User != nil {
		a.setUser(auth.User)
	}
	return auth
}

// Logout ends the session. The cached user is cleared even when the
// request fails.
func (a *AuthState) Logout(ctx context.Context) {
	a.setLoading(true)
	defer a.setLoading(false)

	a.auth.Logout(ctx)
	a.setUser(nil)
}

// User returns the cached user, nil when unauthenticated.
func (a *AuthState) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// Loading reports whether a session operation is in flight.
func (a *AuthState) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// IsAuthenticated is derived state: true exactly when a user is cached.
func (a *AuthState) IsAuthenticated() bool {
	return a.User() != nil
}

func (a *AuthState) setUser(user *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = user
}

func (a *AuthState) setLoading(loading bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = loading
}
