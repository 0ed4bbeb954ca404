package item

import (
	"context"
	"log/slog"
)

// Delete removes the record by id. Confirmation is a view-layer concern;
// by the time this runs the user already said yes.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "item deleted", slog.String("id", id))
	s.dropItem(id)
	s.refresh(ctx)
	return nil
}
