// Package collection owns the in-memory card list. It is the single source
// of truth; persistence only mirrors snapshots it hands out through the
// on-change hook.
package collection

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codyseavey/card-stash/backend/internal/models"
)

// Filter values recognized by List. An empty query matches everything.
const (
	TagAll      = "All"
	StatusAll   = "All"
	StatusOwned = "Owned"
	StatusSold  = "Sold"
)

// Filter narrows List results. All three predicates are ANDed.
type Filter struct {
	// Query is matched case-insensitively as a substring of name or set.
	Query string
	// Tag is TagAll or an exact tag membership test.
	Tag string
	// Status is StatusAll, StatusOwned (not sold) or StatusSold.
	Status string
}

// Controller owns the card list. All mutations go through it; reads get
// copies. The on-change hook fires after every mutation with a snapshot of
// the full collection, outside the controller lock.
type Controller struct {
	mu       sync.Mutex
	cards    []models.Card
	revision uint64

	onChange func([]models.Card)
	newID    func() string
	log      *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnChange installs the mutation hook. The application wires this to the
// persistence adapter; tests leave it unset or use a recorder.
func WithOnChange(fn func([]models.Card)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithIDSource overrides the unique ID generator.
func WithIDSource(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// New builds a controller seeded with the previously persisted cards.
func New(initial []models.Card, log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		cards: cloneCards(initial),
		newID: uuid.NewString,
		log:   log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates the input, assigns a fresh ID and prepends the new card.
// A validation failure creates nothing and is not a system fault.
func (c *Controller) Create(in models.CardInput) (models.Card, error) {
	card, verr := models.ValidateCardInput(in)
	if verr != nil {
		return models.Card{}, verr
	}

	c.mu.Lock()
	card.ID = c.newID()
	c.cards = append([]models.Card{card}, c.cards...)
	c.revision++
	snap := cloneCards(c.cards)
	c.mu.Unlock()

	c.log.Debug("card created", zap.String("id", card.ID), zap.String("name", card.Name))
	c.notify(snap)
	return card.Clone(), nil
}

// Update replaces every field except the ID on the matching card.
// It reports false, with nothing changed, when the ID is unknown.
func (c *Controller) Update(id string, in models.CardInput) (models.Card, bool, error) {
	card, verr := models.ValidateCardInput(in)
	if verr != nil {
		return models.Card{}, false, verr
	}

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return models.Card{}, false, nil
	}
	card.ID = id
	c.cards[idx] = card
	c.revision++
	snap := cloneCards(c.cards)
	c.mu.Unlock()

	c.notify(snap)
	return card.Clone(), true, nil
}

// Delete removes the matching card. Deleting an unknown ID is a no-op, so
// the operation is idempotent. Confirmation is the presentation layer's job.
func (c *Controller) Delete(id string) bool {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.cards = append(c.cards[:idx], c.cards[idx+1:]...)
	c.revision++
	snap := cloneCards(c.cards)
	c.mu.Unlock()

	c.log.Debug("card deleted", zap.String("id", id))
	c.notify(snap)
	return true
}

// List returns the cards matching all three filter predicates, in collection
// order. The result is a copy; mutating it does not touch the collection.
func (c *Controller) List(f Filter) []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []models.Card{}
	for _, card := range c.cards {
		if matches(card, f) {
			out = append(out, card.Clone())
		}
	}
	return out
}

// Cards returns a copy of the whole collection, most recent first.
func (c *Controller) Cards() []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneCards(c.cards)
}

// Len returns the collection size.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cards)
}

// Revision increments on every mutation. Derived views (statistics) use it
// as their memoization key.
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

func (c *Controller) notify(snapshot []models.Card) {
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}

// indexOf must be called with the lock held.
func (c *Controller) indexOf(id string) int {
	for i := range c.cards {
		if c.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func matches(card models.Card, f Filter) bool {
	if q := strings.ToLower(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(card.Name), q) &&
			!strings.Contains(strings.ToLower(card.Set), q) {
			return false
		}
	}
	if f.Tag != "" && f.Tag != TagAll {
		found := false
		for _, t := range card.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	switch f.Status {
	case StatusOwned:
		if card.IsSold {
			return false
		}
	case StatusSold:
		if !card.IsSold {
			return false
		}
	}
	return true
}

func cloneCards(cards []models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}
