package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fundiq/services/relay"
	"fundiq/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccessSetsCookie(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"jwt_token":"abc.def.ghi","user":{"id":"u1","username":"alice"}}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"user":{"id":"u1","username":"alice"},"message":"Login successful"}`, w.Body.String())

	cookies := setCookies(w)
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, utils.SessionCookieName, cookie.Name)
	assert.Equal(t, "abc.def.ghi", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 2592000, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)

	// The backend saw the credentials plus the resolved client address.
	call := stub.lastCall()
	assert.Equal(t, "/auth/login", call.Path)
	assert.Equal(t, "203.0.113.7", call.ClientAddr)
}

func TestLoginMissingCredentials(t *testing.T) {
	stub := &stubRelay{}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"alice"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, stub.callCount(), "backend must not be called without full credentials")
}

func TestLoginBackendRejection(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"bad credentials, internal trace id 12345"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Authentication failed"}`, w.Body.String())
	assert.Empty(t, setCookies(w), "no cookie may be set on a failed login")
}

func TestLoginNonJSONBackend(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return htmlResponse(http.StatusOK, "<html>proxy error</html>")
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid response from server"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "proxy error")
}

func TestLoginTokenWithoutUser(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"jwt_token":"abc"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, setCookies(w))
}

func TestLogoutClearsCookieOnBackendFailure(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return nil, errors.New("connection refused")
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/auth/logout", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logged out successfully"}`, w.Body.String())

	cookies := setCookies(w)
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogoutWithoutSession(t *testing.T) {
	stub := &stubRelay{}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, stub.callCount())
}

func TestLogoutPassesBackendMessage(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"success":true,"message":"Session terminated"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/auth/logout", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Session terminated"}`, w.Body.String())

	call := stub.lastCall()
	assert.Equal(t, "/auth/logout", call.Path)
	assert.Equal(t, "abc.def.ghi", call.Token)
}

func TestSessionsWithoutCookie(t *testing.T) {
	stub := &stubRelay{}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/sessions", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"session":null}`, w.Body.String())
	assert.Zero(t, stub.callCount(), "no backend call without a cookie")
}

func TestSessionsValidToken(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"valid":true,"user_data":{"user_id":"u1","username":"alice"}}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/auth/sessions", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"session":{"jwt_token":"abc.def.ghi","user":{"id":"u1","username":"alice"}}}`, w.Body.String())
	assert.Empty(t, setCookies(w))
}

func TestSessionsInvalidTokenClearsCookie(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"valid":false,"error":"token expired"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/auth/sessions", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"session":null}`, w.Body.String())

	cookies := setCookies(w)
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionsBackendUnreachableClearsCookie(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/auth/sessions", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"session":null}`, w.Body.String())

	cookies := setCookies(w)
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionsNonJSONBackendClearsCookie(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return htmlResponse(http.StatusOK, "<html>gateway</html>")
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/auth/sessions", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"session":null}`, w.Body.String())
	require.Len(t, setCookies(w), 1)
}

func TestValidateWithoutToken(t *testing.T) {
	stub := &stubRelay{}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/validate", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"valid":false,"error":"No token found"}`, w.Body.String())
}

func TestValidateValidToken(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"valid":true,"user_data":{"user_id":"u1","username":"alice"}}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/auth/validate", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"user_data":{"user_id":"u1","username":"alice"}}`, w.Body.String())
}

func TestValidateInvalidTokenClearsCookie(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, `{"valid":false,"error":"signature mismatch"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/auth/validate", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"valid":false,"error":"signature mismatch"}`, w.Body.String())

	cookies := setCookies(w)
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestValidateBackendError(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusBadGateway, `{"error":"upstream stack trace"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/auth/validate", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false,"error":"Backend error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "stack trace")
}

func TestValidateNonJSONBackend(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return htmlResponse(http.StatusOK, "<html></html>")
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/auth/validate", nil), "abc.def.ghi")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false,"error":"Invalid response format"}`, w.Body.String())
}
