package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/samcharmz/charmz-backend/pkg/types"
)

// Order captures a completed mock checkout. Lines are denormalized at
// placement time so later catalog edits cannot rewrite history.
type Order struct {
	ID        uuid.UUID           `gorm:"column:id;primaryKey"`
	SessionID string              `gorm:"column:session_id;not null;index"`
	Email     string              `gorm:"column:email"`
	Lines     types.OrderLineList `gorm:"column:lines;type:text;not null"`
	Total     string              `gorm:"column:total;not null"`
	PlacedAt  time.Time           `gorm:"column:placed_at;autoCreateTime"`
}

func (Order) TableName() string {
	return "orders"
}
