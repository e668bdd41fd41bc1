package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/samcharmz/charmz-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Claims identify one shopper session. Auth is mocked, so the token carries
// no role or identity beyond the session key the shop state is stored under.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Mint issues a signed token for the provided session id, generating a fresh
// id when none is supplied.
func Mint(cfg config.JWTConfig, now time.Time, sessionID string) (string, string, error) {
	if cfg.Secret == "" {
		return "", "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", "", fmt.Errorf("jwt expiration minutes must be positive")
	}

	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		sid = uuid.NewString()
	}

	claims := Claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, sid, nil
}

// Parse validates the token string and returns the typed claims.
func Parse(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing jwt: %w", err)
	}
	if strings.TrimSpace(claims.SessionID) == "" {
		return nil, fmt.Errorf("token carries no session id")
	}
	return claims, nil
}
