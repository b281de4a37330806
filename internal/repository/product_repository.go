package repository

import (
	"log/slog"
	"sync"

	"github.com/yourorg/agrimarket/internal/domain"
)

// MemoryProductRepository implements domain.ProductRepository as an
// ordered, append-only in-process collection
type MemoryProductRepository struct {
	mu       sync.RWMutex
	listings []*domain.ProductListing
	ids      map[string]struct{}
	logger   *slog.Logger
}

// NewMemoryProductRepository creates an empty input-product catalog
func NewMemoryProductRepository(logger *slog.Logger) *MemoryProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryProductRepository{
		ids:    map[string]struct{}{},
		logger: logger,
	}
}

// Append adds a listing to the end of the catalog, refusing ID collisions
func (r *MemoryProductRepository) Append(listing *domain.ProductListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[listing.ID]; exists {
		return domain.ErrDuplicateID
	}

	cp := cloneProduct(listing)
	r.listings = append(r.listings, cp)
	r.ids[cp.ID] = struct{}{}

	r.logger.Debug("product listing appended",
		slog.String("listing_id", cp.ID),
		slog.String("seller", cp.SellerName),
	)
	return nil
}

// List returns a snapshot of the catalog in insertion order
func (r *MemoryProductRepository) List() ([]*domain.ProductListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.ProductListing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, cloneProduct(l))
	}
	return out, nil
}

// Count returns the catalog size
func (r *MemoryProductRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listings), nil
}

func cloneProduct(p *domain.ProductListing) *domain.ProductListing {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	if p.Specifications != nil {
		specs := make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			specs[k] = v
		}
		cp.Specifications = specs
	}
	return &cp
}
