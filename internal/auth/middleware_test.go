package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler records whether it ran and which user id it saw.
func okHandler(t *testing.T, ran *bool, wantUserID int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		if id, ok := UserIDFromContext(r.Context()); !ok || id != wantUserID {
			t.Errorf("UserIDFromContext() = (%d, %v), want (%d, true)", id, ok, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePage_RedirectsWithoutSession(t *testing.T) {
	ts := newTestTokenService(t)
	var ran bool
	h := RequirePage(ts)(okHandler(t, &ran, 0))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if ran {
		t.Error("protected handler ran without a session")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequirePage_PassesWithValidSession(t *testing.T) {
	ts := newTestTokenService(t)
	var ran bool
	h := RequirePage(ts)(okHandler(t, &ran, 7))

	token, err := ts.Generate(7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if !ran {
		t.Error("protected handler did not run with a valid session")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireAPI_Returns401WithoutSession(t *testing.T) {
	ts := newTestTokenService(t)
	var ran bool
	h := RequireAPI(ts)(okHandler(t, &ran, 0))

	req := httptest.NewRequest(http.MethodPost, "/api/meals", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if ran {
		t.Error("protected handler ran without a session")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRequireAPI_RejectsTamperedToken(t *testing.T) {
	ts := newTestTokenService(t)
	var ran bool
	h := RequireAPI(ts)(okHandler(t, &ran, 0))

	token, _ := ts.Generate(7)
	req := httptest.NewRequest(http.MethodPost, "/api/meals", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token + "x"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if ran || rr.Code != http.StatusUnauthorized {
		t.Errorf("tampered token: handler ran=%v status=%d, want ran=false status=401", ran, rr.Code)
	}
}

func TestClearSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	ClearSessionCookie(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].Name != SessionCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie = %+v, want expired %q cookie", cookies[0], SessionCookie)
	}
}
