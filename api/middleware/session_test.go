package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samcharmz/charmz-backend/pkg/config"
	"github.com/samcharmz/charmz-backend/pkg/session"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "charmz",
		ExpirationMinutes: 60,
	}
}

func TestSessionMintsOnFirstContact(t *testing.T) {
	var seenSession string
	handler := Session(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenSession == "" {
		t.Fatal("expected a minted session id in context")
	}
	token := rec.Header().Get(SessionHeader)
	if token == "" {
		t.Fatal("expected session token in response header")
	}
	claims, err := session.Parse(testJWTConfig(), token)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.SessionID != seenSession {
		t.Fatalf("token session %q != context session %q", claims.SessionID, seenSession)
	}
}

func TestSessionEchoesExistingToken(t *testing.T) {
	cfg := testJWTConfig()
	token, sid, err := session.Mint(cfg, time.Now(), "")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	var seenSession string
	handler := Session(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop", nil)
	req.Header.Set(SessionHeader, token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenSession != sid {
		t.Fatalf("expected session %q, got %q", sid, seenSession)
	}
	if got := rec.Header().Get(SessionHeader); got != token {
		t.Fatalf("expected the same token echoed back, got %q", got)
	}
}

func TestSessionAcceptsBearerAuthorization(t *testing.T) {
	cfg := testJWTConfig()
	token, sid, err := session.Mint(cfg, time.Now(), "")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	var seenSession string
	handler := Session(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenSession != sid {
		t.Fatalf("expected session %q, got %q", sid, seenSession)
	}
}

func TestSessionReplacesGarbageToken(t *testing.T) {
	var seenSession string
	handler := Session(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop", nil)
	req.Header.Set(SessionHeader, "not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenSession == "" {
		t.Fatal("expected a fresh session for a garbage token")
	}
	if rec.Header().Get(SessionHeader) == "not-a-jwt" {
		t.Fatal("garbage token must be replaced, not echoed")
	}
}
