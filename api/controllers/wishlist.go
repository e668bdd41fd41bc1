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

type wishlistTogglePayload struct {
	ProductID string `json:"product_id" validate:"required"`
}

// WishlistToggle adds the product to the wishlist when absent and removes it
// when present.
func WishlistToggle(shopSvc shop.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if shopSvc == nil || catalogSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		var body wishlistTogglePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := catalogSvc.Get(ctx, body.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := shopSvc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.ToggleWishlist{Product: *product})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}

// WishlistMoveToCart moves one wishlisted product into the cart as a single
// transition.
func WishlistMoveToCart(shopSvc shop.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if shopSvc == nil || catalogSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		product, err := catalogSvc.Get(ctx, chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := shopSvc.Dispatch(ctx, middleware.SessionIDFromContext(ctx), shop.MoveToCart{Product: *product})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statePayload(state))
	}
}
