// Package item implements the inventory view-facing business logic: form
// reconciliation, mutations against the remote store, and the derived
// dashboard and storefront views.
package item

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mkravets/pantry-backend/internal/config"
	"github.com/mkravets/pantry-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type inventoryClient interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Create(ctx context.Context, patch domain.ItemPatch) (*domain.InventoryItem, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
	GetByBarcode(ctx context.Context, barcode string) (*domain.InventoryItem, error)
}

type imageLookup interface {
	LookupImage(ctx context.Context, barcode string) string
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service owns the non-authoritative snapshot of the remote inventory. The
// remote store is the source of truth; the snapshot is a cache refreshed
// after every mutation. Responses may arrive out of submission order, so
// every backend round-trip is tagged with a monotonic sequence number and
// the snapshot only applies latest-wins per item identity.
type Service struct {
	log     *slog.Logger
	backend inventoryClient
	images  imageLookup
	cfg     config.DashboardConfig

	seq atomic.Uint64

	mu       sync.RWMutex
	snapshot map[string]snapshotEntry
	order    []string // ids in server order, as of the last full list
}

type snapshotEntry struct {
	item domain.InventoryItem
	seq  uint64
}

// NewService creates the item service.
func NewService(logger *slog.Logger, backend inventoryClient, images imageLookup, cfg config.DashboardConfig) *Service {
	return &Service{
		log:      logger.With("service", "item"),
		backend:  backend,
		images:   images,
		cfg:      cfg,
		snapshot: make(map[string]snapshotEntry),
	}
}

// nextSeq tags one backend round-trip.
func (s *Service) nextSeq() uint64 { return s.seq.Add(1) }

// applyList replaces the snapshot with a freshly listed state, keeping any
// per-item entries that a later-tagged response already wrote.
func (s *Service) applyList(items []domain.InventoryItem, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]snapshotEntry, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		order = append(order, it.ID)
		if prev, ok := s.snapshot[it.ID]; ok && prev.seq > seq {
			next[it.ID] = prev
			continue
		}
		next[it.ID] = snapshotEntry{item: it, seq: seq}
	}
	s.snapshot = next
	s.order = order
}

// applyItem writes one mutated record, unless a later response already did.
func (s *Service) applyItem(item domain.InventoryItem, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.snapshot[item.ID]; ok {
		if prev.seq > seq {
			return
		}
	} else {
		s.order = append(s.order, item.ID)
	}
	s.snapshot[item.ID] = snapshotEntry{item: item, seq: seq}
}

// dropItem removes a deleted record from the snapshot.
func (s *Service) dropItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshot, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// cached returns the snapshot copy of one item.
func (s *Service) cached(id string) (domain.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.snapshot[id]
	return e.item, ok
}

// snapshotItems returns the cached items in server order.
func (s *Service) snapshotItems() []domain.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.order))
	for _, id := range s.order {
		if e, ok := s.snapshot[id]; ok {
			items = append(items, e.item)
		}
	}
	return items
}

// refresh re-lists the remote store after a mutation. The mutation itself
// already succeeded, so a failed refresh is only logged.
func (s *Service) refresh(ctx context.Context) {
	seq := s.nextSeq()
	items, err := s.backend.List(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "snapshot refresh failed", slog.String("error", err.Error()))
		return
	}
	s.applyList(items, seq)
}
