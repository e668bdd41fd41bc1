package session

import (
	"testing"
	"time"

	"github.com/samcharmz/charmz-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "charmz-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	signed, sid, err := Mint(cfg, now, "")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if sid == "" {
		t.Fatal("expected generated session id")
	}

	claims, err := Parse(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.SessionID != sid {
		t.Fatalf("expected session id %q, got %q", sid, claims.SessionID)
	}
}

func TestMintPreservesExistingSession(t *testing.T) {
	cfg := testJWTConfig()
	signed, sid, err := Mint(cfg, time.Now(), "sess-42")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if sid != "sess-42" {
		t.Fatalf("expected supplied session id, got %q", sid)
	}
	claims, err := Parse(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.SessionID != "sess-42" {
		t.Fatalf("unexpected session id %q", claims.SessionID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, _, err := Mint(cfg, time.Now(), "sess-1")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := Parse(other, signed); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	signed, _, err := Mint(cfg, time.Now().Add(-2*time.Hour), "sess-1")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := Parse(cfg, signed); err == nil {
		t.Fatal("expected parse to reject expired token")
	}
}

func TestMintValidatesConfig(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, _, err := Mint(cfg, time.Now(), ""); err == nil {
		t.Fatal("expected error without secret")
	}

	cfg = testJWTConfig()
	cfg.ExpirationMinutes = 0
	if _, _, err := Mint(cfg, time.Now(), ""); err == nil {
		t.Fatal("expected error without expiry")
	}
}
