package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/samcharmz/charmz-backend/pkg/db/models"
)

// Repository wraps catalog persistence. The catalog is seeded once and
// read-only afterwards, so the surface is small.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every product in catalog order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads one product. Returns gorm.ErrRecordNotFound for stale ids.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// IsNotFound reports whether err is the repository's missing-record signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// UpsertAll writes the seed records, updating rows whose content changed.
// Safe to run on every boot.
func (r *Repository) UpsertAll(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "price", "image", "tags", "position", "updated_at"}),
		}).
		Create(&products).Error
}
