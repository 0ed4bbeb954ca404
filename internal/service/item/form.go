package item

import (
	"math"
	"strconv"
	"strings"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// FormValues is the working copy of the item form: one string slot per known
// field, exactly as typed. Empty string means the field was left blank.
type FormValues struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	ExpiryDate  string `json:"expiryDate"`
	PhotoURL    string `json:"photoUrl"`
}

func (v *FormValues) trimmed() FormValues {
	return FormValues{
		Barcode:     strings.TrimSpace(v.Barcode),
		Name:        strings.TrimSpace(v.Name),
		Description: strings.TrimSpace(v.Description),
		Category:    strings.TrimSpace(v.Category),
		Quantity:    strings.TrimSpace(v.Quantity),
		Price:       strings.TrimSpace(v.Price),
		ExpiryDate:  strings.TrimSpace(v.ExpiryDate),
		PhotoURL:    strings.TrimSpace(v.PhotoURL),
	}
}

// parseNumber coerces a typed numeric field. ok is false for anything that
// is not a finite number.
func parseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// validateNumbers enforces the form-boundary invariant for edits: numeric
// fields, when typed, must be finite and non-negative.
func validateNumbers(v FormValues) error {
	var errs []domain.FieldError
	for _, f := range []struct{ name, raw string }{
		{"quantity", v.Quantity},
		{"price", v.Price},
	} {
		if f.raw == "" {
			continue
		}
		if n, ok := parseNumber(f.raw); !ok || n < 0 {
			errs = append(errs, domain.FieldError{Field: f.name, Message: "must be a non-negative number"})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
