package item

import (
	"context"
	"errors"
	"net/http"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// PrefillResult seeds the item form after a barcode scan.
type PrefillResult struct {
	Barcode string `json:"barcode"`
	// Existing is the already-stored record with this barcode, if any.
	Existing *domain.InventoryItem `json:"existing,omitempty"`
	// PhotoURL is the catalog image for the barcode, when one was found.
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Prefill resolves a freshly scanned barcode into form seed data: the
// existing inventory record for the barcode (a 404 from the store just
// means "new item") and a best-effort catalog photo.
func (s *Service) Prefill(ctx context.Context, barcode string) (*PrefillResult, error) {
	result := &PrefillResult{Barcode: barcode}

	existing, err := s.backend.GetByBarcode(ctx, barcode)
	switch {
	case err == nil:
		result.Existing = existing
	case isStatus(err, http.StatusNotFound):
		// New barcode; nothing stored yet.
	default:
		return nil, err
	}

	result.PhotoURL = s.images.LookupImage(ctx, barcode)
	return result, nil
}

func isStatus(err error, status int) bool {
	var re *domain.RequestError
	return errors.As(err, &re) && re.Kind == domain.RequestStatus && re.Status == status
}
