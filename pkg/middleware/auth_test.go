package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"eventy/pkg/logger"
	"eventy/pkg/model"
)

type stubVerifier struct {
	principal *Principal
	err       error
}

func (s *stubVerifier) Verify(token string) (*Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func protectedHandler(t *testing.T, called *bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*called = true
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Error("expected a principal in the request context")
		}
		if principal.UserID == "" {
			t.Error("expected a user id on the principal")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestAuthenticated_AllowsValidToken(t *testing.T) {
	verifier := &stubVerifier{principal: &Principal{UserID: "u1", Role: model.RoleUser}}
	called := false
	handle := Authenticated(verifier, testLogger())(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handle(rec, req, nil)

	if !called {
		t.Error("handler not reached")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAuthenticated_MissingHeader(t *testing.T) {
	verifier := &stubVerifier{principal: &Principal{UserID: "u1"}}
	called := false
	handle := Authenticated(verifier, testLogger())(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	rec := httptest.NewRecorder()
	handle(rec, req, nil)

	if called {
		t.Error("handler must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticated_MalformedHeader(t *testing.T) {
	verifier := &stubVerifier{principal: &Principal{UserID: "u1"}}
	called := false
	handle := Authenticated(verifier, testLogger())(protectedHandler(t, &called))

	for _, header := range []string{"some-token", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handle(rec, req, nil)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
	if called {
		t.Error("handler must not run with a malformed header")
	}
}

func TestAuthenticated_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("expired")}
	called := false
	handle := Authenticated(verifier, testLogger())(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handle(rec, req, nil)

	if called {
		t.Error("handler must not run with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAdminOnly_RejectsRegularUser(t *testing.T) {
	verifier := &stubVerifier{principal: &Principal{UserID: "u1", Role: model.RoleUser}}
	called := false
	handle := AdminOnly(verifier, testLogger())(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodDelete, "/api/events/e1", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handle(rec, req, nil)

	if called {
		t.Error("handler must not run for a non-admin")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	verifier := &stubVerifier{principal: &Principal{UserID: "a1", Role: model.RoleAdmin}}
	called := false
	handle := AdminOnly(verifier, testLogger())(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodDelete, "/api/events/e1", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handle(rec, req, nil)

	if !called {
		t.Error("handler not reached for an admin")
	}
}
