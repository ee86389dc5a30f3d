// Package gallery owns the showcase list: prized card images with captions,
// kept separately from the financial records.
package gallery

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codyseavey/card-stash/backend/internal/models"
)

// Ingester turns an uploaded image file into a self-contained encoded
// payload ready for storage and direct rendering.
type Ingester interface {
	Ingest(r io.Reader) (string, error)
}

// Controller owns the gallery item list. Mutations fire the on-change hook
// with a snapshot; the hook's error is reported back to the caller as a
// storage warning because inlined images are the usual quota breaker.
type Controller struct {
	mu    sync.Mutex
	items []models.GalleryItem

	ingester Ingester
	onChange func([]models.GalleryItem) error
	newID    func() string
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Controller)

// WithOnChange installs the mutation hook. Its error marks a failed mirror
// write; the in-memory state is kept regardless.
func WithOnChange(fn func([]models.GalleryItem) error) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithIDSource overrides the unique ID generator.
func WithIDSource(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// WithClock overrides the dateAdded timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(c *Controller) { c.now = fn }
}

// New builds a controller seeded with the previously persisted items.
func New(initial []models.GalleryItem, ing Ingester, log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		items:    append([]models.GalleryItem(nil), initial...),
		ingester: ing,
		newID:    uuid.NewString,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create ingests the uploaded file and prepends the new item. The caption
// defaults to the filename's stem. On ingestion failure nothing is added.
//
// The decode/encode work runs on the caller's goroutine outside the lock;
// when several uploads race, completion order decides collection order.
// The returned warning reports a failed mirror write.
func (c *Controller) Create(filename string, r io.Reader) (item models.GalleryItem, warn bool, err error) {
	encoded, err := c.ingester.Ingest(r)
	if err != nil {
		c.log.Warn("image ingestion failed", zap.String("filename", filename), zap.Error(err))
		return models.GalleryItem{}, false, err
	}

	item = models.GalleryItem{
		Caption:   captionFromFilename(filename),
		Image:     encoded,
		DateAdded: c.now(),
	}

	c.mu.Lock()
	item.ID = c.newID()
	c.items = append([]models.GalleryItem{item}, c.items...)
	snap := append([]models.GalleryItem(nil), c.items...)
	c.mu.Unlock()

	c.log.Debug("gallery item added", zap.String("id", item.ID), zap.String("caption", item.Caption))
	return item, c.notify(snap), nil
}

// UpdateCaption replaces the caption on the matching item. Empty captions
// are allowed. It reports found=false when the ID is unknown.
func (c *Controller) UpdateCaption(id, caption string) (item models.GalleryItem, warn, found bool) {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return models.GalleryItem{}, false, false
	}
	c.items[idx].Caption = caption
	item = c.items[idx]
	snap := append([]models.GalleryItem(nil), c.items...)
	c.mu.Unlock()

	return item, c.notify(snap), true
}

// Delete removes the matching item; unknown IDs are a no-op.
func (c *Controller) Delete(id string) (warn, removed bool) {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false, false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	snap := append([]models.GalleryItem(nil), c.items...)
	c.mu.Unlock()

	c.log.Debug("gallery item deleted", zap.String("id", id))
	return c.notify(snap), true
}

// Items returns a copy of the gallery, most recent first.
func (c *Controller) Items() []models.GalleryItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.GalleryItem(nil), c.items...)
}

// Len returns the gallery size.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// notify mirrors the snapshot and reports whether the write failed.
func (c *Controller) notify(snapshot []models.GalleryItem) bool {
	if c.onChange == nil {
		return false
	}
	if err := c.onChange(snapshot); err != nil {
		c.log.Warn("gallery mirror write failed, keeping in-memory state", zap.Error(err))
		return true
	}
	return false
}

// indexOf must be called with the lock held.
func (c *Controller) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// captionFromFilename takes everything before the first dot, matching how
// the upload form names new items.
func captionFromFilename(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
