package domain

import "time"

// ProductCategory enumerates the input-product catalog categories
type ProductCategory string

const (
	CategorySeeds       ProductCategory = "seeds"
	CategoryFertilizers ProductCategory = "fertilizers"
	CategoryPesticides  ProductCategory = "pesticides"
)

// ValidProductCategory reports whether c is a known product category
func ValidProductCategory(c ProductCategory) bool {
	switch c {
	case CategorySeeds, CategoryFertilizers, CategoryPesticides:
		return true
	}
	return false
}

// CropListing represents a crop offered by a farmer.
// Listings are append-only: no update or delete path exists.
type CropListing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FarmerName  string    `json:"farmer"`
	Quantity    int       `json:"quantity"` // kg; zero means sold out
	Price       float64   `json:"price"`    // per kg
	Location    string    `json:"location"`
	Images      []string  `json:"images"` // At least one non-blank URL
	Description string    `json:"description"`
	HarvestDate string    `json:"harvestDate,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Available reports whether the listing can still be ordered (display rule only)
func (c *CropListing) Available() bool {
	return c.Quantity > 0
}

// ProductListing represents a farming input offered by a seller
type ProductListing struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SellerName  string          `json:"seller"`
	Category    ProductCategory `json:"category"`
	Price       float64         `json:"price"`
	Stock       int             `json:"stock"` // zero means out of stock
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	// Specifications is nil (not an empty map) when the seller provided none.
	Specifications map[string]string `json:"specifications,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Available reports whether the listing can still be ordered (display rule only)
func (p *ProductListing) Available() bool {
	return p.Stock > 0
}

// CropRepository defines data access for the crop catalog.
// List returns listings in insertion order; Append must refuse an ID
// that already exists in the catalog.
type CropRepository interface {
	Append(listing *CropListing) error
	List() ([]*CropListing, error)
	Count() (int, error)
}

// ProductRepository defines data access for the input-product catalog
type ProductRepository interface {
	Append(listing *ProductListing) error
	List() ([]*ProductListing, error)
	Count() (int, error)
}
