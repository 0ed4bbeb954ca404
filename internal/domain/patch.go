package domain

import "encoding/json"

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldSet
	fieldClear
)

// StringField is a tri-state patch slot: unset (omitted from the wire),
// set to a value, or explicitly cleared (JSON null on the wire).
type StringField struct {
	state fieldState
	value string
}

// SetString returns a slot carrying a new value.
func SetString(v string) StringField { return StringField{state: fieldSet, value: v} }

// ClearString returns a slot that erases the field on the server.
func ClearString() StringField { return StringField{state: fieldClear} }

// Value returns the carried value and whether the slot is set (not cleared).
func (f StringField) Value() (string, bool) { return f.value, f.state == fieldSet }

// IsZero reports whether the slot is untouched.
func (f StringField) IsZero() bool { return f.state == fieldUnset }

// NumberField is the numeric counterpart of StringField.
type NumberField struct {
	state fieldState
	value float64
}

// SetNumber returns a slot carrying a new numeric value.
func SetNumber(v float64) NumberField { return NumberField{state: fieldSet, value: v} }

// ClearNumber returns a slot that erases the field on the server.
func ClearNumber() NumberField { return NumberField{state: fieldClear} }

// Value returns the carried value and whether the slot is set (not cleared).
func (f NumberField) Value() (float64, bool) { return f.value, f.state == fieldSet }

// IsZero reports whether the slot is untouched.
func (f NumberField) IsZero() bool { return f.state == fieldUnset }

// ItemPatch is the partial form of InventoryItem submitted on create and
// update: one optional slot per known field, never an open-ended map.
// Unset slots are absent from the JSON body; cleared slots serialize as null.
type ItemPatch struct {
	Barcode     StringField
	Name        StringField
	Description StringField
	Category    StringField
	Quantity    NumberField
	Price       NumberField
	ExpiryDate  StringField
	PhotoURL    StringField
}

// IsEmpty reports whether no field is set or cleared.
func (p *ItemPatch) IsEmpty() bool {
	return p.Barcode.IsZero() && p.Name.IsZero() && p.Description.IsZero() &&
		p.Category.IsZero() && p.Quantity.IsZero() && p.Price.IsZero() &&
		p.ExpiryDate.IsZero() && p.PhotoURL.IsZero()
}

// MarshalJSON writes only touched slots, with cleared slots as explicit null
// so the server distinguishes "erase this field" from "leave it alone".
func (p ItemPatch) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 8)

	addString := func(key string, f StringField) {
		switch f.state {
		case fieldSet:
			body[key] = f.value
		case fieldClear:
			body[key] = nil
		}
	}
	addNumber := func(key string, f NumberField) {
		switch f.state {
		case fieldSet:
			body[key] = f.value
		case fieldClear:
			body[key] = nil
		}
	}

	addString("barcode", p.Barcode)
	addString("name", p.Name)
	addString("description", p.Description)
	addString("category", p.Category)
	addNumber("quantity", p.Quantity)
	addNumber("price", p.Price)
	addString("expiryDate", p.ExpiryDate)
	addString("photoUrl", p.PhotoURL)

	return json.Marshal(body)
}
