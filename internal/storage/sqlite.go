package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/card-stash/backend/internal/models"
)

// blobRecord is one serialized collection, keyed by its fixed channel key.
type blobRecord struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (blobRecord) TableName() string { return "blobs" }

// SQLiteStore keeps both channels in a single-table key-value store backed
// by a local sqlite file.
type SQLiteStore struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the sqlite file at dbPath and migrates the
// blob table.
func OpenSQLite(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&blobRecord{}); err != nil {
		return nil, fmt.Errorf("migrate blob table: %w", err)
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to serialize collection", zap.String("key", key), zap.Error(err))
		return err
	}
	rec := blobRecord{Key: key, Value: string(data)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		s.log.Error("failed to write collection", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// load reads and decodes the value under key into out. It reports whether a
// usable value was found; missing or corrupt data is treated as "no data yet".
func (s *SQLiteStore) load(key string, out any) bool {
	var rec blobRecord
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		s.log.Warn("failed to read collection", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(rec.Value), out); err != nil {
		s.log.Warn("stored collection is corrupt, starting empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *SQLiteStore) SaveCards(cards []models.Card) error {
	return s.save(CardsKey, cards)
}

func (s *SQLiteStore) LoadCards() []models.Card {
	var cards []models.Card
	if !s.load(CardsKey, &cards) || cards == nil {
		return []models.Card{}
	}
	return cards
}

func (s *SQLiteStore) SaveGallery(items []models.GalleryItem) error {
	return s.save(GalleryKey, items)
}

func (s *SQLiteStore) LoadGallery() []models.GalleryItem {
	var items []models.GalleryItem
	if !s.load(GalleryKey, &items) || items == nil {
		return []models.GalleryItem{}
	}
	return items
}
