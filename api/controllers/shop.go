package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samcharmz/charmz-backend/api/middleware"
	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/internal/shop"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
)

// statePayload is the API shape of the shopping state. The profile's
// password hash never leaves the server.
func statePayload(state shop.State) map[string]any {
	user := state.User
	if user != nil {
		scrubbed := *user
		scrubbed.PasswordHash = ""
		user = &scrubbed
	}
	return map[string]any{
		"cart":       state.Cart,
		"cart_count": state.CartCount(),
		"wishlist":   state.Wishlist,
		"user":       user,
		"visibility": state.Visibility,
	}
}

// ShopState returns the session's full shopping state.
func ShopState(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		state, err := svc.Current(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}

type uiVisibilityPayload struct {
	Open *bool `json:"open" validate:"required"`
}

// UIVisibility opens or closes one drawer/modal panel for the session.
func UIVisibility(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		panel := shop.Panel(strings.ToLower(chi.URLParam(r, "panel")))
		if !shop.ValidPanel(panel) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown panel").WithDetails(map[string]any{"panel": string(panel)}))
			return
		}

		var body uiVisibilityPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Open == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "open flag is required"))
			return
		}

		state, err := svc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.SetVisibility{Panel: panel, Open: *body.Open})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}
