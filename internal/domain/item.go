package domain

// InventoryItem is the single domain entity: one flat inventory record as
// stored by the remote inventory service. Every field except ID is optional;
// ID is assigned by the remote store and is never fabricated client-side.
type InventoryItem struct {
	ID          string   `json:"id,omitempty"`
	Barcode     *string  `json:"barcode,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ExpiryDate  *string  `json:"expiryDate,omitempty"`
	PhotoURL    *string  `json:"photoUrl,omitempty"`
}

// IsPersisted returns true once the remote store has assigned an identity.
func (i *InventoryItem) IsPersisted() bool {
	return i.ID != ""
}

// InStock returns true when the item tracks a quantity greater than zero.
// An untracked quantity (nil) counts as in stock for the storefront view.
func (i *InventoryItem) InStock() bool {
	return i.Quantity == nil || *i.Quantity > 0
}
