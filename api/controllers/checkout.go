package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/samcharmz/charmz-backend/api/middleware"
	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/api/validators"
	"github.com/samcharmz/charmz-backend/internal/checkout"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
)

type checkoutPayload struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Postcode string `json:"postcode" validate:"required"`
}

// CheckoutPlace settles the mock payment and returns the confirmation.
func CheckoutPlace(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		confirmation, err := svc.Place(ctx, middleware.SessionIDFromContext(ctx), checkout.PlaceInput{
			Email:    body.Email,
			FullName: validators.SanitizeString(body.FullName, 200),
			Address:  validators.SanitizeString(body.Address, 500),
			City:     validators.SanitizeString(body.City, 100),
			Postcode: validators.SanitizeString(body.Postcode, 20),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order": confirmation.Order,
			"state": statePayload(confirmation.State),
		})
	}
}

// OrderGet serves one placed order for the confirmation screen.
func OrderGet(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
