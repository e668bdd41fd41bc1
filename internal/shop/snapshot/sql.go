// Package snapshot provides the durable backends for per-session shopping
// state documents. Two implementations exist: the relational store used by
// the default sqlite/postgres deploys, and a redis store for deploys that
// already run redis for rate limiting.
package snapshot

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/samcharmz/charmz-backend/pkg/db/models"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
)

// SQLStore persists snapshots in the shop_snapshots table, one row per
// session, upserted on every write.
type SQLStore struct {
	conn *gorm.DB
}

// NewSQLStore wraps the shared GORM connection.
func NewSQLStore(conn *gorm.DB) (*SQLStore, error) {
	if conn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db connection is required")
	}
	return &SQLStore{conn: conn}, nil
}

// Load returns the stored document for the session, reporting found=false
// when the session has never been persisted.
func (s *SQLStore) Load(ctx context.Context, sessionID string) (string, bool, error) {
	var row models.ShopSnapshot
	err := s.conn.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shop snapshot")
	}
	return row.Document, true, nil
}

// Save upserts the session's document.
func (s *SQLStore) Save(ctx context.Context, sessionID, document string) error {
	row := models.ShopSnapshot{
		SessionID: sessionID,
		Document:  document,
	}
	err := s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving shop snapshot")
	}
	return nil
}
