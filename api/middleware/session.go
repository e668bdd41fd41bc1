package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/pkg/config"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/session"
)

// SessionHeader carries the signed shopper-session token both ways: the
// client echoes the last value it saw, the server re-sends it on every
// response so a fresh client picks one up on first contact.
const SessionHeader = "X-Charmz-Session"

// Session resolves or mints the anonymous shopper session for the request.
// A missing or expired token is not an error; the shopper just starts over
// with an empty session, the way a cleared localStorage did.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := tokenFromRequest(r)
			sessionID := ""
			if token != "" {
				if claims, err := session.Parse(cfg, token); err == nil {
					sessionID = claims.SessionID
				}
			}

			if sessionID == "" {
				minted, sid, err := session.Mint(cfg, time.Now(), "")
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session"))
					return
				}
				token = minted
				sessionID = sid
			}

			w.Header().Set(SessionHeader, token)

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(SessionHeader)); token != "" {
		return token
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
