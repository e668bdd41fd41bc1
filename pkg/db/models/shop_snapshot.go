package models

import "time"

// ShopSnapshot is the persisted `{cart, wishlist, user}` document for one
// shopper session. Visibility flags are deliberately excluded; they reset on
// every load.
type ShopSnapshot struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Document  string    `gorm:"column:document;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShopSnapshot) TableName() string {
	return "shop_snapshots"
}
