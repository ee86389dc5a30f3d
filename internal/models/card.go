package models

// PresetTags is the fixed category vocabulary offered by the editing UI.
// Tags on a card are not validated against it; unknown labels are kept as-is.
var PresetTags = []string{
	"Basketball", "Baseball", "Football", "Soccer", "Pokemon", "F1", "Hockey", "UFC",
}

// Card is a single collectible purchase/sale record.
type Card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Year          string   `json:"year"`
	Set           string   `json:"set"` // e.g., Prizm, Optic, Topps Chrome
	PurchasePrice float64  `json:"purchasePrice"`
	PurchaseDate  string   `json:"purchaseDate"`
	IsSold        bool     `json:"isSold"`
	SoldPrice     *float64 `json:"soldPrice,omitempty"`
	SoldDate      string   `json:"soldDate,omitempty"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes,omitempty"`
}

// Profit returns the realized profit for the card. A sold card without a
// recorded sale price counts as zero proceeds, so the profit is the full
// negative cost. Unsold cards have no realized profit.
func (c Card) Profit() float64 {
	if !c.IsSold {
		return 0
	}
	sold := 0.0
	if c.SoldPrice != nil {
		sold = *c.SoldPrice
	}
	return sold - c.PurchasePrice
}

// PrimaryTag returns the first tag, or "Uncategorized" when the card has none.
func (c Card) PrimaryTag() string {
	if len(c.Tags) == 0 {
		return "Uncategorized"
	}
	return c.Tags[0]
}

// Clone returns a copy of the card that shares no mutable state.
func (c Card) Clone() Card {
	out := c
	if c.SoldPrice != nil {
		v := *c.SoldPrice
		out.SoldPrice = &v
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	return out
}

// CardInput is a card as submitted by the presentation layer: everything but
// the ID, with prices carried as entered so validation owns the parsing.
type CardInput struct {
	Name          string   `json:"name"`
	Year          string   `json:"year"`
	Set           string   `json:"set"`
	PurchasePrice string   `json:"purchasePrice"`
	PurchaseDate  string   `json:"purchaseDate"`
	IsSold        bool     `json:"isSold"`
	SoldPrice     string   `json:"soldPrice"`
	SoldDate      string   `json:"soldDate"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
}
