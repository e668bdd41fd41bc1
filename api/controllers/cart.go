package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samcharmz/charmz-backend/api/middleware"
	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/api/validators"
	"github.com/samcharmz/charmz-backend/internal/catalog"
	"github.com/samcharmz/charmz-backend/internal/shop"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
)

type cartAddPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type cartUpdatePayload struct {
	Delta int `json:"delta" validate:"required"`
}

// CartAdd resolves the product against the catalog and merges it into the
// session's cart. The cart drawer opens as a side effect of the transition.
func CartAdd(shopSvc shop.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if shopSvc == nil || catalogSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		var body cartAddPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := catalogSvc.Get(ctx, body.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := shopSvc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.AddToCart{
			Product:  *product,
			Quantity: body.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}

// CartUpdate adjusts a line's quantity by a signed delta, clamped at 1.
func CartUpdate(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		var body cartUpdatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := svc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.UpdateQuantity{
			ProductID: chi.URLParam(r, "productId"),
			Delta:     body.Delta,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}

// CartRemove drops one line. Absent ids are a silent no-op.
func CartRemove(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		state, err := svc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.RemoveFromCart{
			ProductID: chi.URLParam(r, "productId"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}

// CartClear empties the cart.
func CartClear(svc shop.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		state, err := svc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.ClearCart{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}
