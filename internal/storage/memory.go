package storage

import (
	"sync"

	"github.com/codyseavey/card-stash/backend/internal/models"
)

// MemoryStore is an in-memory Store for tests and for running without a
// database file. SaveErr, when set, is returned by every save to simulate
// a full store.
type MemoryStore struct {
	mu      sync.Mutex
	cards   []models.Card
	gallery []models.GalleryItem

	SaveErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveCards(cards []models.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.cards = append([]models.Card(nil), cards...)
	return nil
}

func (m *MemoryStore) LoadCards() []models.Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cards == nil {
		return []models.Card{}
	}
	return append([]models.Card(nil), m.cards...)
}

func (m *MemoryStore) SaveGallery(items []models.GalleryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.gallery = append([]models.GalleryItem(nil), items...)
	return nil
}

func (m *MemoryStore) LoadGallery() []models.GalleryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gallery == nil {
		return []models.GalleryItem{}
	}
	return append([]models.GalleryItem(nil), m.gallery...)
}
