package app

import (
	"net/http"
	"testing"
)

func TestSignUpReturnsSessionContract(t *testing.T) {
	svc, _, _ := newTestService(t)
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    "ada@acme.io",
		"password": "password123",
		"fullName": "Ada Lovelace",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	if payload["accessToken"] == "" || payload["accessToken"] == nil {
		t.Fatal("expected accessToken")
	}
	if payload["refreshToken"] == "" || payload["refreshToken"] == nil {
		t.Fatal("expected refreshToken")
	}
	if payload["userName"] != "Ada Lovelace" {
		t.Fatalf("expected userName, got %v", payload["userName"])
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)
	server := NewHTTPServer(svc, "*")
	body := map[string]any{"email": "ada@acme.io", "password": "password123", "fullName": "Ada"}

	rr, _ := doJSON(t, server.Handler(), http.MethodPost, "/api/auth/signup", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", rr.Code)
	}

	rr, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/auth/signup", "", body)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	if payload["code"] != "EMAIL_EXISTS" {
		t.Fatalf("expected EMAIL_EXISTS, got %v", payload["code"])
	}
}

func TestSignInWrongPasswordUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t)
	signUpUser(t, svc, "ada@acme.io", "Ada")
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/auth/signin", "", map[string]any{
		"email":    "ada@acme.io",
		"password": "wrong-password",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	if payload["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", payload["code"])
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, _ := newTestService(t)
	sess := signUpUser(t, svc, "ada@acme.io", "Ada")
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/auth/refresh", "", map[string]any{
		"refreshToken": sess.RefreshToken,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	rotated, _ := payload["refreshToken"].(string)
	if rotated == "" || rotated == sess.RefreshToken {
		t.Fatalf("expected a rotated refresh token, got %q", rotated)
	}

	rr, _ = doJSON(t, server.Handler(), http.MethodPost, "/api/auth/refresh", "", map[string]any{
		"refreshToken": sess.RefreshToken,
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh token: expected 401, got %d", rr.Code)
	}
}

func TestProtectedRouteWithoutBearerReturnsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t)
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/contacts", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	if payload["code"] != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %v", payload["code"])
	}
}

func TestProtectedRouteWithInvalidBearerReturnsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t)
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/notes", "definitely-not-a-token", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	if payload["code"] != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %v", payload["code"])
	}
}

func TestSessionEndpointNeverErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	sess := signUpUser(t, svc, "ada@acme.io", "Ada Lovelace")
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/session", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("anonymous session check: expected 200, got %d", rr.Code)
	}
	if payload["authenticated"] != false {
		t.Fatalf("expected authenticated=false, got %v", payload["authenticated"])
	}

	rr, payload = doJSON(t, server.Handler(), http.MethodGet, "/api/session", sess.Token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("authenticated session check: expected 200, got %d", rr.Code)
	}
	if payload["authenticated"] != true || payload["userName"] != "Ada Lovelace" {
		t.Fatalf("unexpected session payload: %v", payload)
	}
}

func TestHealthAndReady(t *testing.T) {
	svc, _, _ := newTestService(t)
	server := NewHTTPServer(svc, "*")

	rr, payload := doJSON(t, server.Handler(), http.MethodGet, "/api/health", "", nil)
	if rr.Code != http.StatusOK || payload["ok"] != true {
		t.Fatalf("health: expected ok, got %d %v", rr.Code, payload)
	}

	rr, payload = doJSON(t, server.Handler(), http.MethodGet, "/api/ready", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rr.Code)
	}
	if payload["status"] != "ready" {
		t.Fatalf("ready: expected status ready, got %v", payload["status"])
	}
}
