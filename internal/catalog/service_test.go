package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/samcharmz/charmz-backend/pkg/db/models"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
)

type stubRepo struct {
	products []models.Product
	listErr  error
}

func (s *stubRepo) ListAll(context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func seededService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: &stubRepo{products: SeedProducts()}})
	require.NoError(t, err)
	return svc
}

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

func TestListDefaultOrderIsCatalogOrder(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{})
	require.NoError(t, err)
	require.Len(t, products, len(SeedProducts()))
	assert.Equal(t, "b1", products[0].ID)
	assert.Equal(t, "h6", products[len(products)-1].ID)
}

func TestListQueryIsCaseInsensitiveSubstring(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{Query: "PEARL"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "h2", products[0].ID)
}

func TestListQueryMatchesTags(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{Query: "beads"})
	require.NoError(t, err)
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"b1", "b6"}, ids)
}

func TestListCategoryEquality(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{Category: "hairbands"})
	require.NoError(t, err)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, "Hairbands", p.Category)
	}
}

func TestListPriceRange(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{
		PriceMin: dec(t, "500"),
		PriceMax: dec(t, "900"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Contains(t, []string{"₹799", "₹649", "₹549", "₹899", "₹599"}, p.Price)
	}
}

func TestListSortPriceAscending(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{Sort: SortPriceAsc})
	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "h5", products[0].ID)
	assert.Equal(t, "b5", products[len(products)-1].ID)
}

func TestListSortPriceDescending(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{Sort: SortPriceDesc})
	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "b5", products[0].ID)
	assert.Equal(t, "h5", products[len(products)-1].ID)
}

func TestListRejectsUnknownSort(t *testing.T) {
	svc := seededService(t)

	_, err := svc.List(context.Background(), ListInput{Sort: "alphabetical"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestListCombinedFilters(t *testing.T) {
	svc := seededService(t)

	products, err := svc.List(context.Background(), ListInput{
		Category: "Bracelets",
		PriceMax: dec(t, "700"),
		Sort:     SortPriceAsc,
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "b1", products[0].ID)
	assert.Equal(t, "b6", products[1].ID)
	assert.Equal(t, "b4", products[2].ID)
}

func TestListWrapsRepoErrors(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubRepo{listErr: errors.New("db gone")}})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), ListInput{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}

func TestGetReturnsProduct(t *testing.T) {
	svc := seededService(t)

	product, err := svc.Get(context.Background(), "b3")
	require.NoError(t, err)
	assert.Equal(t, "Moonstone Chain Bracelet", product.Name)
}

func TestGetStaleIDIsNotFound(t *testing.T) {
	svc := seededService(t)

	_, err := svc.Get(context.Background(), "b999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestGetRequiresID(t *testing.T) {
	svc := seededService(t)

	_, err := svc.Get(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
