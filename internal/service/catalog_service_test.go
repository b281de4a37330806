package service

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/repository"
)

func farmer(name, location string) *domain.Account {
	return &domain.Account{ID: "f-" + name, Name: name, Role: domain.RoleFarmer, Location: location}
}

func buyer(name string) *domain.Account {
	return &domain.Account{ID: "b-" + name, Name: name, Role: domain.RoleBuyer}
}

func seller(name string) *domain.Account {
	return &domain.Account{ID: "s-" + name, Name: name, Role: domain.RoleSeller}
}

func newCatalogFixture(t *testing.T) *CatalogService {
	t.Helper()
	crops := repository.NewMemoryCropRepository(nil)
	products := repository.NewMemoryProductRepository(nil)

	cropSeed := []*domain.CropListing{
		{ID: "crop-1", Name: "Maize", FarmerName: "Ramesh Kumar", Quantity: 500, Price: 25, Location: "Punjab", Images: []string{"/a.jpg"}},
		{ID: "crop-2", Name: "Onion", FarmerName: "Kavita Patel", Quantity: 300, Price: 30, Location: "Gujarat", Images: []string{"/b.jpg"}},
		{ID: "crop-3", Name: "Wheat", FarmerName: "Ramesh Kumar", Quantity: 800, Price: 22, Location: "Punjab", Images: []string{"/c.jpg"}},
	}
	for _, c := range cropSeed {
		if err := crops.Append(c); err != nil {
			t.Fatalf("seed crop: %v", err)
		}
	}

	productSeed := []*domain.ProductListing{
		{ID: "prod-1", Name: "Hybrid Rice Seeds", SellerName: "AgroMart", Category: domain.CategorySeeds, Price: 150, Stock: 100, Images: []string{"/s.jpg"}},
		{ID: "prod-2", Name: "Organic Fertilizer", SellerName: "GreenFarms", Category: domain.CategoryFertilizers, Price: 80, Stock: 200, Images: []string{"/f.jpg"}},
		{ID: "prod-3", Name: "Corn Seeds", SellerName: "AgroMart", Category: domain.CategorySeeds, Price: 120, Stock: 75, Images: []string{"/s.jpg"}},
	}
	for _, p := range productSeed {
		if err := products.Append(p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	return NewCatalogService(crops, products, nil)
}

func cropIDs(crops []*domain.CropListing) []string {
	ids := make([]string, 0, len(crops))
	for _, c := range crops {
		ids = append(ids, c.ID)
	}
	return ids
}

func productIDs(products []*domain.ProductListing) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestVisibleCropsRoleMatrix(t *testing.T) {
	svc := newCatalogFixture(t)

	// Anonymous sees the full catalog in insertion order
	crops, err := svc.VisibleCrops(nil, "", "")
	if err != nil {
		t.Fatalf("anonymous view failed: %v", err)
	}
	if got := cropIDs(crops); !reflect.DeepEqual(got, []string{"crop-1", "crop-2", "crop-3"}) {
		t.Fatalf("anonymous crops = %v", got)
	}

	// A buyer sees everything too
	crops, err = svc.VisibleCrops(buyer("Arjun Singh"), "", "")
	if err != nil {
		t.Fatalf("buyer view failed: %v", err)
	}
	if len(crops) != 3 {
		t.Fatalf("buyer should see all crops, got %d", len(crops))
	}

	// A farmer sees only their own listings
	crops, err = svc.VisibleCrops(farmer("Ramesh Kumar", "Punjab"), "", "")
	if err != nil {
		t.Fatalf("farmer view failed: %v", err)
	}
	if got := cropIDs(crops); !reflect.DeepEqual(got, []string{"crop-1", "crop-3"}) {
		t.Fatalf("farmer crops = %v", got)
	}

	// A farmer with no listings gets an empty, non-nil result
	crops, err = svc.VisibleCrops(farmer("Newcomer", "Kerala"), "", "")
	if err != nil {
		t.Fatalf("new farmer view failed: %v", err)
	}
	if len(crops) != 0 {
		t.Fatalf("new farmer should see nothing, got %d", len(crops))
	}

	// Sellers have no business in the crop catalog
	if _, err := svc.VisibleCrops(seller("AgroMart"), "", ""); !errors.Is(err, domain.ErrAccessRestricted) {
		t.Fatalf("expected ErrAccessRestricted for seller, got %v", err)
	}
}

func TestVisibleProductsRoleMatrix(t *testing.T) {
	svc := newCatalogFixture(t)

	// Anonymous and farmers browse everything
	products, err := svc.VisibleProducts(nil, "", "")
	if err != nil {
		t.Fatalf("anonymous view failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("anonymous should see all products, got %d", len(products))
	}

	products, err = svc.VisibleProducts(farmer("Ramesh Kumar", "Punjab"), "", "")
	if err != nil {
		t.Fatalf("farmer view failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("farmer should see all products, got %d", len(products))
	}

	// A seller sees only their own listings
	products, err = svc.VisibleProducts(seller("AgroMart"), "", "")
	if err != nil {
		t.Fatalf("seller view failed: %v", err)
	}
	if got := productIDs(products); !reflect.DeepEqual(got, []string{"prod-1", "prod-3"}) {
		t.Fatalf("seller products = %v", got)
	}

	// Buyers are denied
	if _, err := svc.VisibleProducts(buyer("Arjun Singh"), "", ""); !errors.Is(err, domain.ErrAccessRestricted) {
		t.Fatalf("expected ErrAccessRestricted for buyer, got %v", err)
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	svc := newCatalogFixture(t)

	// Matches crop name regardless of case
	crops, err := svc.VisibleCrops(nil, "mAiZe", "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if got := cropIDs(crops); !reflect.DeepEqual(got, []string{"crop-1"}) {
		t.Fatalf("name search = %v", got)
	}

	// Matches location
	crops, _ = svc.VisibleCrops(nil, "punjab", "")
	if got := cropIDs(crops); !reflect.DeepEqual(got, []string{"crop-1", "crop-3"}) {
		t.Fatalf("location search = %v", got)
	}

	// Matches farmer name substring
	crops, _ = svc.VisibleCrops(nil, "kavita", "")
	if got := cropIDs(crops); !reflect.DeepEqual(got, []string{"crop-2"}) {
		t.Fatalf("farmer search = %v", got)
	}

	// No match yields empty, not an error
	crops, err = svc.VisibleCrops(nil, "zzz", "")
	if err != nil || len(crops) != 0 {
		t.Fatalf("no-match search: crops=%v err=%v", crops, err)
	}
}

func TestCategoryFilter(t *testing.T) {
	svc := newCatalogFixture(t)

	products, err := svc.VisibleProducts(nil, "", "seeds")
	if err != nil {
		t.Fatalf("category filter failed: %v", err)
	}
	if got := productIDs(products); !reflect.DeepEqual(got, []string{"prod-1", "prod-3"}) {
		t.Fatalf("seeds filter = %v", got)
	}

	// "all" disables the filter
	products, _ = svc.VisibleProducts(nil, "", "all")
	if len(products) != 3 {
		t.Fatalf("all filter should pass everything, got %d", len(products))
	}

	// Category match is exact, not substring
	products, _ = svc.VisibleProducts(nil, "", "seed")
	if len(products) != 0 {
		t.Fatalf("partial category should match nothing, got %d", len(products))
	}
}

func TestFiltersCombineConjunctively(t *testing.T) {
	svc := newCatalogFixture(t)

	// Search "seeds" alone matches prod-1 and prod-3 by name; adding the
	// fertilizers category must eliminate both.
	products, err := svc.VisibleProducts(nil, "seeds", "fertilizers")
	if err != nil {
		t.Fatalf("combined filter failed: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("conjunction should be empty, got %v", productIDs(products))
	}

	// Both constraints satisfied
	products, _ = svc.VisibleProducts(nil, "corn", "seeds")
	if got := productIDs(products); !reflect.DeepEqual(got, []string{"prod-3"}) {
		t.Fatalf("combined filter = %v", got)
	}
}

func TestSubmitCropCollectsAllFieldErrors(t *testing.T) {
	svc := newCatalogFixture(t)
	ramesh := farmer("Ramesh Kumar", "Punjab")

	before, _ := svc.crops.Count()

	_, err := svc.SubmitCrop(ramesh, CropDraft{
		Name:     "",
		Quantity: "abc",
		Price:    "-5",
		Images:   []string{"  ", ""},
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	gotFields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		gotFields = append(gotFields, f.Field)
	}
	if !reflect.DeepEqual(gotFields, []string{"name", "quantity", "price", "images"}) {
		t.Fatalf("failing fields = %v", gotFields)
	}

	// All-or-nothing: the catalog is untouched
	after, _ := svc.crops.Count()
	if before != after {
		t.Fatalf("catalog changed on invalid draft: %d -> %d", before, after)
	}
}

func TestSubmitCropStampsViewerIdentity(t *testing.T) {
	svc := newCatalogFixture(t)
	svc.newID = func() string { return "crop-new" }
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	var notifiedCatalog string
	svc.SetListener(func(catalog string, listing interface{}) {
		notifiedCatalog = catalog
	})

	listing, err := svc.SubmitCrop(farmer("Asha", "Kerala"), CropDraft{
		Name:     "Mango",
		Quantity: "120",
		Price:    "90.5",
		Images:   []string{"/mango.jpg", "   "},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if listing.ID != "crop-new" || listing.FarmerName != "Asha" || listing.Location != "Kerala" {
		t.Fatalf("identity not stamped from viewer: %+v", listing)
	}
	if listing.Quantity != 120 || listing.Price != 90.5 {
		t.Fatalf("numeric fields not parsed: %+v", listing)
	}
	if len(listing.Images) != 1 || listing.Images[0] != "/mango.jpg" {
		t.Fatalf("blank images not discarded: %v", listing.Images)
	}
	if notifiedCatalog != "crops" {
		t.Fatalf("listener not notified, catalog=%q", notifiedCatalog)
	}

	// The new listing lands at the end of the catalog and is visible to buyers
	crops, err := svc.VisibleCrops(buyer("Arjun Singh"), "", "")
	if err != nil {
		t.Fatalf("buyer view failed: %v", err)
	}
	if last := crops[len(crops)-1]; last.ID != "crop-new" {
		t.Fatalf("new listing not appended last: %v", cropIDs(crops))
	}

	// And the farmer sees it in their management view
	own, _ := svc.VisibleCrops(farmer("Asha", "Kerala"), "", "")
	if got := cropIDs(own); !reflect.DeepEqual(got, []string{"crop-new"}) {
		t.Fatalf("farmer management view = %v", got)
	}
}

func TestSubmitProductValidation(t *testing.T) {
	svc := newCatalogFixture(t)
	agromart := seller("AgroMart")

	_, err := svc.SubmitProduct(agromart, ProductDraft{
		Name:     "Mystery",
		Category: "tools",
		Price:    "10",
		Stock:    "5",
		Images:   []string{"/x.jpg"},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown category, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "category" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}

	// Unauthenticated submit is refused outright
	if _, err := svc.SubmitProduct(nil, ProductDraft{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSubmitProductTrimsSpecifications(t *testing.T) {
	svc := newCatalogFixture(t)

	listing, err := svc.SubmitProduct(seller("GreenFarms"), ProductDraft{
		Name:     "Paddy Seeds",
		Category: "seeds",
		Price:    "100",
		Stock:    "50",
		Images:   []string{"/p.jpg"},
		Specifications: map[string]string{
			"":        "orphan value",
			"Variety": "IR64",
			"Weight":  "   ",
		},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	want := map[string]string{"Variety": "IR64"}
	if !reflect.DeepEqual(listing.Specifications, want) {
		t.Fatalf("specifications = %v, want %v", listing.Specifications, want)
	}

	// All-blank pairs collapse to nil, not an empty map
	listing, err = svc.SubmitProduct(seller("GreenFarms"), ProductDraft{
		Name:           "Urea",
		Category:       "fertilizers",
		Price:          "40",
		Stock:          "10",
		Images:         []string{"/u.jpg"},
		Specifications: map[string]string{" ": " "},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if listing.Specifications != nil {
		t.Fatalf("expected nil specifications, got %v", listing.Specifications)
	}
}

func TestSubmitRejectsNonFinitePrice(t *testing.T) {
	svc := newCatalogFixture(t)
	ramesh := farmer("Ramesh Kumar", "Punjab")

	before, _ := svc.crops.Count()

	for _, raw := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		_, err := svc.SubmitCrop(ramesh, CropDraft{
			Name:     "Poison",
			Quantity: "10",
			Price:    raw,
			Images:   []string{"/p.jpg"},
		})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("price %q should fail validation, got %v", raw, err)
		}
		if len(verr.Fields) != 1 || verr.Fields[0].Field != "price" {
			t.Fatalf("price %q: unexpected fields %+v", raw, verr.Fields)
		}
	}

	// Nothing landed in the store, so the catalog stays encodable
	after, _ := svc.crops.Count()
	if before != after {
		t.Fatalf("catalog changed on non-finite price: %d -> %d", before, after)
	}
	crops, err := svc.VisibleCrops(nil, "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := json.Marshal(crops); err != nil {
		t.Fatalf("catalog no longer serializes: %v", err)
	}

	// Product stock shares the parser path for its price field
	_, err = svc.SubmitProduct(seller("AgroMart"), ProductDraft{
		Name:     "Bad Price",
		Category: "seeds",
		Price:    "NaN",
		Stock:    "5",
		Images:   []string{"/x.jpg"},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("product NaN price should fail validation, got %v", err)
	}
}

func TestZeroQuantityIsValidButUnavailable(t *testing.T) {
	svc := newCatalogFixture(t)

	listing, err := svc.SubmitCrop(farmer("Ramesh Kumar", "Punjab"), CropDraft{
		Name:     "Barley",
		Quantity: "0",
		Price:    "15",
		Images:   []string{"/b.jpg"},
	})
	if err != nil {
		t.Fatalf("zero quantity should be accepted: %v", err)
	}
	if listing.Available() {
		t.Fatalf("zero-quantity listing should be unavailable")
	}

	// Still visible in the catalog
	crops, _ := svc.VisibleCrops(nil, "barley", "")
	if len(crops) != 1 {
		t.Fatalf("sold-out listing should stay visible, got %d", len(crops))
	}
}
