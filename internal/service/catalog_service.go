package service

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/observability/metrics"
)

// CategoryAll is the sentinel that disables category filtering
const CategoryAll = "all"

// ListingListener is notified after a listing has been appended to a
// catalog. Used by the websocket feed; may be nil.
type ListingListener func(catalog string, listing interface{})

// CatalogService is the visibility and filter engine plus the listing
// submission handler for both catalogs. Visibility is a pure function
// of (store snapshot, viewer, filters); submissions are all-or-nothing.
type CatalogService struct {
	crops    domain.CropRepository
	products domain.ProductRepository
	newID    func() string
	now      func() time.Time
	listener ListingListener
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	crops domain.CropRepository,
	products domain.ProductRepository,
	logger *slog.Logger,
) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		crops:    crops,
		products: products,
		newID:    uuid.NewString,
		now:      time.Now,
		logger:   logger,
	}
}

// SetListener registers a listener for created listings
func (s *CatalogService) SetListener(l ListingListener) {
	s.listener = l
}

// VisibleCrops returns the crop listings the viewer may see, restricted
// by search term and category, in catalog insertion order.
//
// Farmers see only their own listings (management view), buyers and
// anonymous viewers see the full catalog, and sellers have no business
// in the crop catalog: the result is empty and ErrAccessRestricted is
// returned so the caller can render an access notice rather than an
// empty grid.
func (s *CatalogService) VisibleCrops(viewer *domain.Account, search, category string) ([]*domain.CropListing, error) {
	if viewer != nil && viewer.Role == domain.RoleSeller {
		return nil, domain.ErrAccessRestricted
	}

	all, err := s.crops.List()
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(search)
	out := make([]*domain.CropListing, 0, len(all))
	for _, c := range all {
		if viewer != nil && viewer.Role == domain.RoleFarmer && c.FarmerName != viewer.Name {
			continue
		}
		if term != "" && !containsAnyFold(term, c.Name, c.Location, c.FarmerName) {
			continue
		}
		if !categoryMatches(category, c.Category) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// VisibleProducts returns the input-product listings the viewer may
// see. The role rule mirrors VisibleCrops with farmer and seller
// swapped: sellers manage their own listings, farmers and anonymous
// viewers browse everything, buyers are denied.
func (s *CatalogService) VisibleProducts(viewer *domain.Account, search, category string) ([]*domain.ProductListing, error) {
	if viewer != nil && viewer.Role == domain.RoleBuyer {
		return nil, domain.ErrAccessRestricted
	}

	all, err := s.products.List()
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(search)
	out := make([]*domain.ProductListing, 0, len(all))
	for _, p := range all {
		if viewer != nil && viewer.Role == domain.RoleSeller && p.SellerName != viewer.Name {
			continue
		}
		if term != "" && !containsAnyFold(term, p.Name, p.SellerName, p.Description) {
			continue
		}
		if !categoryMatches(category, string(p.Category)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CropDraft carries the raw form values of a proposed crop listing.
// Numeric fields arrive as strings and are parsed during validation.
type CropDraft struct {
	Name        string   `json:"name"`
	Quantity    string   `json:"quantity"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	HarvestDate string   `json:"harvestDate"`
	Images      []string `json:"images"`
}

// ProductDraft carries the raw form values of a proposed product listing
type ProductDraft struct {
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Price          string            `json:"price"`
	Stock          string            `json:"stock"`
	Description    string            `json:"description"`
	Images         []string          `json:"images"`
	Specifications map[string]string `json:"specifications"`
}

// SubmitCrop validates a crop draft and appends it to the catalog.
// FarmerName and Location come from the viewer, never the draft. The
// producing-role gate is the caller's responsibility.
func (s *CatalogService) SubmitCrop(viewer *domain.Account, draft CropDraft) (*domain.CropListing, error) {
	if viewer == nil {
		return nil, domain.ErrNotAuthenticated
	}

	verr := &domain.ValidationError{}

	if strings.TrimSpace(draft.Name) == "" {
		verr.Add("name", "required")
	}
	quantity := requireNonNegativeInt(verr, "quantity", draft.Quantity)
	price := requireNonNegativeDecimal(verr, "price", draft.Price)
	images := nonBlank(draft.Images)
	if len(images) == 0 {
		verr.Add("images", "at least one image is required")
	}

	if verr.HasErrors() {
		metrics.ObserveSubmission("crops", "invalid")
		return nil, verr
	}

	listing := &domain.CropListing{
		ID:          s.newID(),
		Name:        draft.Name,
		FarmerName:  viewer.Name,
		Quantity:    quantity,
		Price:       price,
		Location:    viewer.Location,
		Images:      images,
		Description: draft.Description,
		HarvestDate: draft.HarvestDate,
		Category:    draft.Category,
		CreatedAt:   s.now(),
	}

	if err := s.crops.Append(listing); err != nil {
		metrics.ObserveSubmission("crops", "error")
		return nil, err
	}

	metrics.ObserveSubmission("crops", "created")
	s.logger.Info("crop listed",
		slog.String("listing_id", listing.ID),
		slog.String("farmer", listing.FarmerName),
		slog.String("name", listing.Name),
	)
	if s.listener != nil {
		s.listener("crops", listing)
	}
	return listing, nil
}

// SubmitProduct validates a product draft and appends it to the catalog.
// Specification pairs with a blank key or value are discarded; when
// nothing survives, the stored record carries nil, not an empty map.
func (s *CatalogService) SubmitProduct(viewer *domain.Account, draft ProductDraft) (*domain.ProductListing, error) {
	if viewer == nil {
		return nil, domain.ErrNotAuthenticated
	}

	verr := &domain.ValidationError{}

	if strings.TrimSpace(draft.Name) == "" {
		verr.Add("name", "required")
	}
	if strings.TrimSpace(draft.Category) == "" {
		verr.Add("category", "required")
	} else if !domain.ValidProductCategory(domain.ProductCategory(draft.Category)) {
		verr.Add("category", "must be one of seeds, fertilizers, pesticides")
	}
	price := requireNonNegativeDecimal(verr, "price", draft.Price)
	stock := requireNonNegativeInt(verr, "stock", draft.Stock)
	images := nonBlank(draft.Images)
	if len(images) == 0 {
		verr.Add("images", "at least one image is required")
	}

	if verr.HasErrors() {
		metrics.ObserveSubmission("products", "invalid")
		return nil, verr
	}

	listing := &domain.ProductListing{
		ID:             s.newID(),
		Name:           draft.Name,
		SellerName:     viewer.Name,
		Category:       domain.ProductCategory(draft.Category),
		Price:          price,
		Stock:          stock,
		Description:    draft.Description,
		Images:         images,
		Specifications: trimSpecifications(draft.Specifications),
		CreatedAt:      s.now(),
	}

	if err := s.products.Append(listing); err != nil {
		metrics.ObserveSubmission("products", "error")
		return nil, err
	}

	metrics.ObserveSubmission("products", "created")
	s.logger.Info("product listed",
		slog.String("listing_id", listing.ID),
		slog.String("seller", listing.SellerName),
		slog.String("name", listing.Name),
	)
	if s.listener != nil {
		s.listener("products", listing)
	}
	return listing, nil
}

// containsAnyFold reports whether term is a substring of any candidate,
// case-insensitively. term must already be lowercased.
func containsAnyFold(term string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

// categoryMatches applies the exact-match category filter; "all" or an
// empty filter passes everything.
func categoryMatches(filter, category string) bool {
	if filter == "" || filter == CategoryAll {
		return true
	}
	return filter == category
}

// nonBlank returns the images with whitespace-only entries discarded
func nonBlank(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if strings.TrimSpace(img) != "" {
			out = append(out, img)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// trimSpecifications drops pairs where either side is blank after
// trimming and returns nil when nothing remains
func trimSpecifications(specs map[string]string) map[string]string {
	if len(specs) == 0 {
		return nil
	}
	out := make(map[string]string, len(specs))
	for k, v := range specs {
		key := strings.TrimSpace(k)
		value := strings.TrimSpace(v)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func requireNonNegativeInt(verr *domain.ValidationError, field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add(field, "required")
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(field, "must be an integer")
		return 0
	}
	if n < 0 {
		verr.Add(field, "must not be negative")
		return 0
	}
	return n
}

func requireNonNegativeDecimal(verr *domain.ValidationError, field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add(field, "required")
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		verr.Add(field, "must be a number")
		return 0
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a price, and a
	// stored NaN would break JSON encoding of the whole catalog
	if math.IsNaN(f) || math.IsInf(f, 0) {
		verr.Add(field, "must be a finite number")
		return 0
	}
	if f < 0 {
		verr.Add(field, "must not be negative")
		return 0
	}
	return f
}
