package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports the required fields that were missing or invalid.
// It marks an expected, recoverable rejection: no record was created.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid card input: %s", strings.Join(e.Fields, ", "))
}

// ValidateCardInput checks the required-field contract and builds the record
// the controller will store. The returned card carries no ID.
//
// Rules: name must be non-empty, purchasePrice must parse as a non-negative
// number, and a sale recorded up front needs a parseable soldPrice and a
// soldDate. Everything else is free text and passes through untouched.
func ValidateCardInput(in CardInput) (Card, *ValidationError) {
	var bad []string

	name := strings.TrimSpace(in.Name)
	if name == "" {
		bad = append(bad, "name")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.PurchasePrice), 64)
	if err != nil || price < 0 {
		bad = append(bad, "purchasePrice")
	}

	var soldPrice *float64
	var soldDate string
	if in.IsSold {
		v, err := strconv.ParseFloat(strings.TrimSpace(in.SoldPrice), 64)
		if err != nil {
			bad = append(bad, "soldPrice")
		} else {
			soldPrice = &v
		}
		soldDate = strings.TrimSpace(in.SoldDate)
		if soldDate == "" {
			bad = append(bad, "soldDate")
		}
	}

	if len(bad) > 0 {
		return Card{}, &ValidationError{Fields: bad}
	}

	// Tags stay an ordered slice and duplicates are allowed; the toggle UI
	// is what keeps them unique in practice.
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return Card{
		Name:          name,
		Year:          in.Year,
		Set:           in.Set,
		PurchasePrice: price,
		PurchaseDate:  in.PurchaseDate,
		IsSold:        in.IsSold,
		SoldPrice:     soldPrice,
		SoldDate:      soldDate,
		Tags:          append([]string(nil), tags...),
		Notes:         in.Notes,
	}, nil
}
