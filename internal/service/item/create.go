package item

import (
	"context"
	"log/slog"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// CreateFromForm reconciles the form into a creation submission and sends
// it. When the form carries a barcode but no photo, the public catalog is
// consulted best-effort for one before submitting; a missed lookup simply
// leaves the photo unset.
func (s *Service) CreateFromForm(ctx context.Context, values FormValues) (*domain.InventoryItem, error) {
	patch := buildCreatePatch(values)

	if barcode, ok := patch.Barcode.Value(); ok {
		if _, hasPhoto := patch.PhotoURL.Value(); !hasPhoto {
			if url := s.images.LookupImage(ctx, barcode); url != "" {
				patch.PhotoURL = domain.SetString(url)
			}
		}
	}

	seq := s.nextSeq()
	created, err := s.backend.Create(ctx, patch)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item created", slog.String("id", created.ID))
	s.applyItem(*created, seq)
	s.refresh(ctx)
	return created, nil
}
