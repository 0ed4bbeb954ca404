package item

import (
	"context"
	"log/slog"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// UpdateFromForm reconciles the edited form against the original record and
// submits only the changed fields. An edit with zero effective changes is a
// validation failure and no network call is made.
func (s *Service) UpdateFromForm(ctx context.Context, id string, values FormValues) (*domain.InventoryItem, error) {
	orig, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := buildUpdatePatch(*orig, values)
	if err != nil {
		return nil, err
	}

	seq := s.nextSeq()
	updated, err := s.backend.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item updated", slog.String("id", id))
	s.applyItem(*updated, seq)
	s.refresh(ctx)
	return updated, nil
}
