package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/samcharmz/charmz-backend/pkg/db/models"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/types"
)

// Sort selects the ordering of a catalog listing.
type Sort string

const (
	SortDefault   Sort = "default"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// ValidSort reports whether s is a recognized sort value.
func ValidSort(s Sort) bool {
	switch s {
	case SortDefault, SortPriceAsc, SortPriceDesc, "":
		return true
	}
	return false
}

// ListInput holds the browse filters. Zero values mean "no constraint".
type ListInput struct {
	Query    string
	Category string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Sort     Sort
}

// Service exposes read access to the seeded catalog.
type Service interface {
	List(ctx context.Context, input ListInput) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
}

type lister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   lister
	Logger *logger.Logger
}

type service struct {
	repo lister
	logg *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// List applies the filters and sort in memory. The catalog is a few dozen
// seeded rows; the price column is a display string, so comparisons happen on
// the parsed decimal rather than in SQL.
func (s *service) List(ctx context.Context, input ListInput) ([]models.Product, error) {
	if !ValidSort(input.Sort) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort value")
	}

	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing catalog")
	}

	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if !matchesQuery(product, input.Query) {
			continue
		}
		if !matchesCategory(product, input.Category) {
			continue
		}
		if !matchesPrice(product, input.PriceMin, input.PriceMax) {
			continue
		}
		filtered = append(filtered, product)
	}

	sortProducts(filtered, input.Sort)
	return filtered, nil
}

// Get loads one product by id.
func (s *service) Get(ctx context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return product, nil
}

func matchesQuery(product models.Product, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(product.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Category), query) {
		return true
	}
	for _, tag := range product.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func matchesCategory(product models.Product, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return true
	}
	return strings.EqualFold(product.Category, category)
}

func matchesPrice(product models.Product, min, max *decimal.Decimal) bool {
	if min == nil && max == nil {
		return true
	}
	price, err := types.ParsePrice(product.Price)
	if err != nil {
		// Unparseable seed data never matches a price filter.
		return false
	}
	if min != nil && price.LessThan(*min) {
		return false
	}
	if max != nil && price.GreaterThan(*max) {
		return false
	}
	return true
}

func sortProducts(products []models.Product, by Sort) {
	if by != SortPriceAsc && by != SortPriceDesc {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, errA := types.ParsePrice(products[i].Price)
		b, errB := types.ParsePrice(products[j].Price)
		if errA != nil || errB != nil {
			return false
		}
		if by == SortPriceAsc {
			return a.LessThan(b)
		}
		return a.GreaterThan(b)
	})
}
