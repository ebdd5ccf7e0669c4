package client

import (
	"context"
	"encoding/json"
	"net/http"

	"fundiq/models"

	"go.uber.org/zap"
)

// placeholderToken stands in for the real token in locally-served
// sessions. The actual JWT lives in an httpOnly cookie and is never
// readable here.
const placeholderToken = "stored"

// AuthService handles login, logout, and session management against the
// relay, keeping the local store mirror consistent with the server-held
// session truth.
type AuthService struct {
	Client *Client
	Store  Store
	Logger *zap.Logger
}

func NewAuthService(c *Client, store Store, logger *zap.Logger) *AuthService {
	return &AuthService{Client: c, Store: store, Logger: logger}
}

// Login posts credentials and, on success, persists the returned user into
// the local mirror.
func (s *AuthService) Login(ctx context.Context, credentials models.LoginRequest) ApiResponse {
	result := s.Client.Post(ctx, "/api/auth/login", credentials)

	if result.Success {
		var auth models.AuthResponse
		if err := result.Decode(&auth); err == nil && auth.Success && auth.User != nil {
			s.setStoredUser(auth.User)
		}
	}

	return result
}

// Logout posts to the relay and clears the local mirror regardless of the
// outcome: the user must be able to self-log-out even when the backend is
// unreachable.
func (s *AuthService) Logout(ctx context.Context) ApiResponse {
	result := s.Client.Post(ctx, "/api/auth/logout", nil)

	s.ClearStoredAuth()

	return result
}

// GetSession is local-storage-first: a locally mirrored user is returned
// immediately with a placeholder token and no network call. Only an empty
// mirror triggers the sessions route, and a server-confirmed session is
// written back into the mirror.
func (s *AuthService) GetSession(ctx context.Context) ApiResponse {
	if stored := s.StoredUser(); stored != nil {
		data, err := json.Marshal(models.SessionResponse{
			Success: true,
			Session: &models.Session{JWTToken: placeholderToken, User: *stored},
		})
		if err != nil {
			return ApiResponse{Success: false, Error: err.Error()}
		}
		return ApiResponse{Success: true, Data: data}
	}

	result := s.Client.Get(ctx, "/api/auth/sessions")

	if result.Success {
		var session models.SessionResponse
		if err := result.Decode(&session); err == nil && session.Success && session.Session != nil {
			s.setStoredUser(&session.Session.User)
		}
	}

	return result
}

// ValidateToken asks the relay to check the current session token.
func (s *AuthService) ValidateToken(ctx context.Context) ApiResponse {
	return s.Client.Request(ctx, http.MethodPost, "/api/auth/validate", nil, nil)
}

// IsAuthenticated reports whether a session exists, consulting the mirror
// first like GetSession.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	result := s.GetSession(ctx)
	if !result.Success {
		return false
	}
	var session models.SessionResponse
	if err := result.Decode(&session); err != nil {
		return false
	}
	return session.Success && session.Session != nil
}

// StoredUser returns the locally mirrored user, or nil when the mirror is
// empty or inconsistent. An unparseable mirror is cleared on sight.
func (s *AuthService) StoredUser() *models.User {
	userJSON, hasUser := s.Store.Get(StoredUserKey)
	state, hasState := s.Store.Get(AuthStateKey)

	if !hasUser || !hasState || state != authenticatedState {
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.Logger.Warn("Failed to parse stored user, clearing mirror", zap.Error(err))
		s.ClearStoredAuth()
		return nil
	}
	return &user
}

// setStoredUser writes the mirror pair. Both keys are set together or
// cleared together; an "authenticated but no user" state must not exist.
func (s *AuthService) setStoredUser(user *models.User) {
	if user == nil {
		s.ClearStoredAuth()
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		s.Logger.Warn("Failed to encode user for mirror", zap.Error(err))
		return
	}
	if err := s.Store.Set(StoredUserKey, string(data)); err != nil {
		s.Logger.Warn("Failed to write user mirror", zap.Error(err))
		return
	}
	if err := s.Store.Set(AuthStateKey, authenticatedState); err != nil {
		// Roll back the half-written pair.
		_ = s.Store.Delete(StoredUserKey)
		s.Logger.Warn("Failed to write auth state, mirror cleared", zap.Error(err))
	}
}

// ClearStoredAuth removes both mirror keys.
func (s *AuthService) ClearStoredAuth() {
	_ = s.Store.Delete(StoredUserKey)
	_ = s.Store.Delete(AuthStateKey)
}
