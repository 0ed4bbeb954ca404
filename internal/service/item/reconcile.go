package item

import (
	"github.com/mkravets/pantry-backend/internal/domain"
)

// buildCreatePatch computes the submission for a new record. Blank fields
// are omitted; the numeric fields are included only when they parse to a
// finite number strictly greater than zero — a typed-but-zero or invalid
// numeric entry counts as "not provided".
func buildCreatePatch(values FormValues) domain.ItemPatch {
	v := values.trimmed()

	var p domain.ItemPatch
	if v.Barcode != "" {
		p.Barcode = domain.SetString(v.Barcode)
	}
	if v.Name != "" {
		p.Name = domain.SetString(v.Name)
	}
	if v.Description != "" {
		p.Description = domain.SetString(v.Description)
	}
	if v.Category != "" {
		p.Category = domain.SetString(v.Category)
	}
	if n, ok := parseNumber(v.Quantity); ok && n > 0 {
		p.Quantity = domain.SetNumber(n)
	}
	if n, ok := parseNumber(v.Price); ok && n > 0 {
		p.Price = domain.SetNumber(n)
	}
	if v.ExpiryDate != "" {
		p.ExpiryDate = domain.SetString(v.ExpiryDate)
	}
	if v.PhotoURL != "" {
		p.PhotoURL = domain.SetString(v.PhotoURL)
	}
	return p
}

// buildUpdatePatch computes the minimal change-set between the original
// record and the edited form values. A blank field whose original had a
// value becomes an explicit clear; a blank field that was never set is a
// no-op; an unchanged field is omitted. An empty resulting change-set is a
// validation failure — the caller must not issue the update.
func buildUpdatePatch(orig domain.InventoryItem, values FormValues) (domain.ItemPatch, error) {
	v := values.trimmed()
	if err := validateNumbers(v); err != nil {
		return domain.ItemPatch{}, err
	}

	var p domain.ItemPatch
	p.Barcode = diffString(orig.Barcode, v.Barcode)
	p.Name = diffString(orig.Name, v.Name)
	p.Description = diffString(orig.Description, v.Description)
	p.Category = diffString(orig.Category, v.Category)
	p.Quantity = diffNumber(orig.Quantity, v.Quantity)
	p.Price = diffNumber(orig.Price, v.Price)
	p.ExpiryDate = diffString(orig.ExpiryDate, v.ExpiryDate)
	p.PhotoURL = diffString(orig.PhotoURL, v.PhotoURL)

	if p.IsEmpty() {
		return domain.ItemPatch{}, domain.ErrNoChanges
	}
	return p, nil
}

func diffString(orig *string, working string) domain.StringField {
	if working == "" {
		if orig != nil {
			return domain.ClearString()
		}
		return domain.StringField{}
	}
	if orig != nil && *orig == working {
		return domain.StringField{}
	}
	return domain.SetString(working)
}

// diffNumber compares by numeric equality after coercion; validateNumbers
// has already rejected unparseable input.
func diffNumber(orig *float64, working string) domain.NumberField {
	if working == "" {
		if orig != nil {
			return domain.ClearNumber()
		}
		return domain.NumberField{}
	}
	n, ok := parseNumber(working)
	if !ok {
		return domain.NumberField{}
	}
	if orig != nil && *orig == n {
		return domain.NumberField{}
	}
	return domain.SetNumber(n)
}
