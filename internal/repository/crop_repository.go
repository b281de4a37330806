package repository

import (
	"log/slog"
	"sync"

	"github.com/yourorg/agrimarket/internal/domain"
)

// MemoryCropRepository implements domain.CropRepository as an ordered,
// append-only in-process collection. Insertion order is the catalog
// order: readers always see listings in the order they were created.
type MemoryCropRepository struct {
	mu       sync.RWMutex
	listings []*domain.CropListing
	ids      map[string]struct{}
	logger   *slog.Logger
}

// NewMemoryCropRepository creates an empty crop catalog
func NewMemoryCropRepository(logger *slog.Logger) *MemoryCropRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryCropRepository{
		ids:    map[string]struct{}{},
		logger: logger,
	}
}

// Append adds a listing to the end of the catalog, refusing ID collisions
func (r *MemoryCropRepository) Append(listing *domain.CropListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[listing.ID]; exists {
		return domain.ErrDuplicateID
	}

	cp := *listing
	cp.Images = append([]string(nil), listing.Images...)
	r.listings = append(r.listings, &cp)
	r.ids[cp.ID] = struct{}{}

	r.logger.Debug("crop listing appended",
		slog.String("listing_id", cp.ID),
		slog.String("farmer", cp.FarmerName),
	)
	return nil
}

// List returns a snapshot of the catalog in insertion order
func (r *MemoryCropRepository) List() ([]*domain.CropListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.CropListing, 0, len(r.listings))
	for _, l := range r.listings {
		cp := *l
		cp.Images = append([]string(nil), l.Images...)
		out = append(out, &cp)
	}
	return out, nil
}

// Count returns the catalog size
func (r *MemoryCropRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listings), nil
}
