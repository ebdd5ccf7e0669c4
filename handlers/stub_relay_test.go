package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"fundiq/services/relay"
	"fundiq/utils"

	"github.com/gin-gonic/gin"
)

// recordedCall is one forwarded request with its raw body drained, so
// tests can assert on passthrough content.
type recordedCall struct {
	relay.Request
	RawBytes []byte
}

// stubRelay stands in for the backend. It records every forwarded request
// and answers from a scripted function.
type stubRelay struct {
	mu      sync.Mutex
	calls   []recordedCall
	respond func(req relay.Request) (*relay.Response, error)
}

func (s *stubRelay) Forward(_ context.Context, req relay.Request) (*relay.Response, error) {
	call := recordedCall{Request: req}
	if req.RawBody != nil {
		call.RawBytes, _ = io.ReadAll(req.RawBody)
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	if s.respond == nil {
		return &relay.Response{StatusCode: http.StatusOK, ContentType: "application/json", Body: []byte(`{}`)}, nil
	}
	return s.respond(req)
}

func (s *stubRelay) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubRelay) lastCall() recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func jsonResponse(status int, body string) (*relay.Response, error) {
	return &relay.Response{StatusCode: status, ContentType: "application/json", Body: []byte(body)}, nil
}

func htmlResponse(status int, body string) (*relay.Response, error) {
	return &relay.Response{StatusCode: status, ContentType: "text/html", Body: []byte(body)}, nil
}

// newRouter wires a bundle over the stub the way main does, minus the
// gate so handler-level auth checks are exercised directly.
func newRouter(stub *stubRelay, sessions *utils.SessionCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authHandler := NewAuthHandler(stub, sessions)
	applicationHandler := NewApplicationHandler(stub)
	preferenceHandler := NewPreferenceHandler(stub)

	auth := r.Group("/api/auth")
	auth.POST("/login", authHandler.LoginHandler)
	auth.POST("/logout", authHandler.LogoutHandler)
	auth.GET("/sessions", authHandler.SessionsHandler)
	auth.POST("/validate", authHandler.ValidateHandler)

	list := r.Group("/api/applications")
	list.GET("", applicationHandler.ListApplicationsHandler)
	list.POST("", applicationHandler.CreateApplicationHandler)
	list.GET("/:id/deck", applicationHandler.GetDeckHandler)

	single := r.Group("/api/application")
	single.GET("/:id", applicationHandler.GetApplicationHandler)
	single.PUT("/:id", applicationHandler.UpdateApplicationHandler)
	single.DELETE("/:id", applicationHandler.DeleteApplicationHandler)
	single.PATCH("/:id", applicationHandler.UploadDeckHandler)
	single.POST("/:id", applicationHandler.TriggerActionHandler)

	prefs := r.Group("/api/preferences")
	prefs.GET("/:firm_id", preferenceHandler.GetPreferencesHandler)
	prefs.POST("/:firm_id", preferenceHandler.SavePreferencesHandler)

	return r
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	return req
}

func setCookies(w *httptest.ResponseRecorder) []*http.Cookie {
	return w.Result().Cookies()
}
