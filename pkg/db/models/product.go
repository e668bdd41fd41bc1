package models

import (
	"time"

	"github.com/samcharmz/charmz-backend/pkg/types"
)

// Product is a catalog record. The catalog is seeded once and read-only at
// runtime; identifiers are short stable handles ("b1", "h2") rather than
// generated keys.
type Product struct {
	ID        string           `gorm:"column:id;primaryKey" json:"id"`
	Name      string           `gorm:"column:name;not null" json:"name"`
	Category  string           `gorm:"column:category;not null" json:"category"`
	Price     string           `gorm:"column:price;not null" json:"price"`
	Image     string           `gorm:"column:image;not null" json:"image"`
	Tags      types.StringList `gorm:"column:tags;type:text" json:"tags,omitempty"`
	Position  int              `gorm:"column:position;not null;default:0" json:"-"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
