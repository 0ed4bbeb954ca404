package item

import (
	"context"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// List returns all inventory records in server order and refreshes the
// snapshot along the way.
func (s *Service) List(ctx context.Context) ([]domain.InventoryItem, error) {
	seq := s.nextSeq()
	items, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	s.applyList(items, seq)
	return items, nil
}

// Get returns a single record by id from the snapshot, listing first when
// the snapshot has not seen the id yet.
func (s *Service) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	if it, ok := s.cached(id); ok {
		return &it, nil
	}

	if _, err := s.List(ctx); err != nil {
		return nil, err
	}
	if it, ok := s.cached(id); ok {
		return &it, nil
	}
	return nil, domain.ErrNotFound
}
