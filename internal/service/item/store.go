package item

import (
	"context"
)

// StoreItem is the public storefront projection of an inventory record.
type StoreItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	PhotoURL string   `json:"photoUrl,omitempty"`
	InStock  bool     `json:"inStock"`
}

// Storefront lists the records as the public store page shows them: only
// named items, with stock derived from the tracked quantity.
func (s *Service) Storefront(ctx context.Context) ([]StoreItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StoreItem, 0, len(items))
	for _, it := range items {
		if it.Name == nil || *it.Name == "" {
			continue
		}
		si := StoreItem{
			ID:      it.ID,
			Name:    *it.Name,
			Price:   it.Price,
			InStock: it.InStock(),
		}
		if it.Category != nil {
			si.Category = *it.Category
		}
		if it.PhotoURL != nil {
			si.PhotoURL = *it.PhotoURL
		}
		out = append(out, si)
	}
	return out, nil
}
