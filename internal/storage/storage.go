// Package storage mirrors the in-memory collections to a local key-value
// store. Each collection has its own channel under a fixed, versioned key;
// the two channels are independently consistent but not jointly atomic.
//
// The in-memory state is always the authority: a failed save is logged and
// reported but never rolls anything back, and a failed or empty load yields
// an empty collection rather than an error.
package storage

import (
	"github.com/codyseavey/card-stash/backend/internal/models"
)

// Fixed storage keys. A schema change means a new key, not a migration.
const (
	CardsKey   = "cardstash_cards_v1"
	GalleryKey = "cardstash_gallery_v1"
)

// Store is the persistence adapter consumed by the application wiring.
// Controllers never see it directly; they get an on-change hook instead.
type Store interface {
	// SaveCards writes the full card collection. The returned error is
	// informational; callers on the cards channel are free to ignore it.
	SaveCards(cards []models.Card) error

	// LoadCards returns the persisted cards, or an empty slice when nothing
	// was stored or the stored value is unreadable. It never fails.
	LoadCards() []models.Card

	// SaveGallery writes the full gallery collection. A returned error
	// should be surfaced to the user: gallery payloads carry inlined images
	// and are the usual cause of quota exhaustion.
	SaveGallery(items []models.GalleryItem) error

	// LoadGallery returns the persisted gallery items, empty on any failure.
	LoadGallery() []models.GalleryItem
}
