package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/api/validators"
	"github.com/samcharmz/charmz-backend/internal/catalog"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
)

// CatalogList serves the browse endpoint with its filter and sort knobs.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		priceMin, err := validators.ParseQueryDecimal(r, "price_min")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		priceMax, err := validators.ParseQueryDecimal(r, "price_max")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.ListInput{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			PriceMin: priceMin,
			PriceMax: priceMax,
			Sort:     catalog.Sort(strings.TrimSpace(r.URL.Query().Get("sort"))),
		}

		products, err := svc.List(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products": products,
			"count":    len(products),
		})
	}
}

// CatalogGet serves one product by id.
func CatalogGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := svc.Get(ctx, chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
