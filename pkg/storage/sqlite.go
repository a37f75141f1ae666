package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLite persists entries in a local sqlite file through GORM.
type SQLite struct {
	client *db.Client
}

// NewSQLite wraps client, applying the embedded migrations first when migrateSchema is set.
func NewSQLite(ctx context.Context, client *db.Client, migrateSchema bool) (*SQLite, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if migrateSchema {
		sqlDB, err := client.SQL()
		if err != nil {
			return nil, fmt.Errorf("extracting sql.DB: %w", err)
		}
		if err := migrate.Up(ctx, sqlDB); err != nil {
			return nil, err
		}
	}
	return &SQLite{client: client}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.StorageEntry
	err := s.client.DB().WithContext(ctx).Where("storage_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return entry.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	entry := models.StorageEntry{Key: key, Value: value}
	err := s.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if err := s.client.DB().WithContext(ctx).Where("storage_key = ?", key).Delete(&models.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.client.Close()
}
