package models

import (
	"time"
)

// GalleryItem is a single showcase entry: a compressed card image with a
// caption, independent of the financial Card records. Image holds the full
// encoded payload (a data URI), not a reference to external storage.
type GalleryItem struct {
	ID        string    `json:"id"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	DateAdded time.Time `json:"dateAdded"`
}
