package item

import (
	"context"
	"time"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// expiryLayout is the date-only format used by the item form.
const expiryLayout = "2006-01-02"

// Dashboard summarizes the inventory for the landing view.
type Dashboard struct {
	TotalItems   int                    `json:"totalItems"`
	OutOfStock   int                    `json:"outOfStock"`
	Expired      []domain.InventoryItem `json:"expired"`
	ExpiringSoon []domain.InventoryItem `json:"expiringSoon"`
}

// Dashboard lists the remote store and derives the expiry overview: items
// already past their expiry date and items expiring within the configured
// window. Items without a parseable expiry date do not expire.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return buildDashboard(items, time.Now(), s.cfg.ExpiryWindowDays), nil
}

func buildDashboard(items []domain.InventoryItem, now time.Time, windowDays int) *Dashboard {
	d := &Dashboard{
		TotalItems:   len(items),
		Expired:      []domain.InventoryItem{},
		ExpiringSoon: []domain.InventoryItem{},
	}

	today := now.Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, windowDays)

	for _, it := range items {
		if it.Quantity != nil && *it.Quantity == 0 {
			d.OutOfStock++
		}
		if it.ExpiryDate == nil {
			continue
		}
		exp, err := time.Parse(expiryLayout, *it.ExpiryDate)
		if err != nil {
			continue
		}
		switch {
		case exp.Before(today):
			d.Expired = append(d.Expired, it)
		case !exp.After(horizon):
			d.ExpiringSoon = append(d.ExpiringSoon, it)
		}
	}
	return d
}
