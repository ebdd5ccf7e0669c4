package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fundiq/services/relay"

	"github.com/stretchr/testify/assert"
)

func TestGetPreferencesNotFoundMeansEmpty(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"no preferences for firm"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/preferences/firm1", nil), "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetPreferencesPassthrough(t *testing.T) {
	body := `{"id":"p1","use_custom_eval":true,"overall_custom_eval":"prefer B2B SaaS"}`
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusOK, body)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/preferences/firm1", nil), "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, body, w.Body.String())
	assert.Equal(t, "/vc-firms/firm1/preferences", stub.lastCall().Path)
}

func TestGetPreferencesBackendFailure(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"error":"Traceback (most recent call last): ..."}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/api/preferences/firm1", nil), "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch preferences"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "Traceback")
}

func TestSavePreferencesCreated(t *testing.T) {
	backendBody := `{"id":"p2","use_custom_eval":true}`
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusCreated, backendBody)
	}}
	r := newRouter(stub, nil)

	payload := `{"use_custom_eval":true,"overall_custom_eval":"weight traction highest"}`
	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/preferences/firm1", strings.NewReader(payload)), "tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, backendBody, w.Body.String())
	call := stub.lastCall()
	assert.Equal(t, "/vc-firms/firm1/preferences", call.Path)
	assert.JSONEq(t, payload, string(call.RawBytes))
}

func TestSavePreferencesRelaysBackendErrorField(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"error":"overall_custom_eval exceeds maximum length"}`)
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/preferences/firm1", strings.NewReader(`{}`)), "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"overall_custom_eval exceeds maximum length"}`, w.Body.String())
}

func TestSavePreferencesNonJSONBackendError(t *testing.T) {
	stub := &stubRelay{respond: func(req relay.Request) (*relay.Response, error) {
		return htmlResponse(http.StatusServiceUnavailable, "<html>maintenance</html>")
	}}
	r := newRouter(stub, nil)

	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("POST", "/api/preferences/firm1", strings.NewReader(`{}`)), "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create preference"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "maintenance")
}

func TestPreferencesRequireToken(t *testing.T) {
	stub := &stubRelay{}
	r := newRouter(stub, nil)

	for _, method := range []string{"GET", "POST"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/preferences/firm1", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Zero(t, stub.callCount())
}
