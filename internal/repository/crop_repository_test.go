package repository

import (
	"errors"
	"testing"

	"github.com/yourorg/agrimarket/internal/domain"
)

func TestCropRepositoryAppendAndOrder(t *testing.T) {
	repo := NewMemoryCropRepository(nil)

	for _, id := range []string{"c1", "c2", "c3"} {
		if err := repo.Append(&domain.CropListing{ID: id, Name: "Crop " + id, Images: []string{"/x.jpg"}}); err != nil {
			t.Fatalf("append %s failed: %v", id, err)
		}
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if all[i].ID != want {
			t.Fatalf("order[%d] = %s, want %s", i, all[i].ID, want)
		}
	}

	count, _ := repo.Count()
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestCropRepositoryRefusesDuplicateID(t *testing.T) {
	repo := NewMemoryCropRepository(nil)
	repo.Append(&domain.CropListing{ID: "c1", Name: "Maize", Images: []string{"/x.jpg"}})

	err := repo.Append(&domain.CropListing{ID: "c1", Name: "Other", Images: []string{"/y.jpg"}})
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	count, _ := repo.Count()
	if count != 1 {
		t.Fatalf("duplicate append mutated the store, count=%d", count)
	}
}

func TestCropListSnapshotIsIsolated(t *testing.T) {
	repo := NewMemoryCropRepository(nil)
	repo.Append(&domain.CropListing{ID: "c1", Name: "Maize", Images: []string{"/x.jpg"}})

	snapshot, _ := repo.List()
	snapshot[0].Name = "Mutated"
	snapshot[0].Images[0] = "/hacked.jpg"

	fresh, _ := repo.List()
	if fresh[0].Name != "Maize" || fresh[0].Images[0] != "/x.jpg" {
		t.Fatalf("snapshot mutation leaked into the store: %+v", fresh[0])
	}
}

func TestProductRepositoryClonesSpecifications(t *testing.T) {
	repo := NewMemoryProductRepository(nil)
	repo.Append(&domain.ProductListing{
		ID: "p1", Name: "Seeds", Category: domain.CategorySeeds,
		Images:         []string{"/s.jpg"},
		Specifications: map[string]string{"Variety": "IR64"},
	})

	snapshot, _ := repo.List()
	snapshot[0].Specifications["Variety"] = "Mutated"

	fresh, _ := repo.List()
	if fresh[0].Specifications["Variety"] != "IR64" {
		t.Fatalf("specification mutation leaked into the store")
	}
}

func TestProductRepositoryPreservesNilSpecifications(t *testing.T) {
	repo := NewMemoryProductRepository(nil)
	repo.Append(&domain.ProductListing{
		ID: "p1", Name: "Urea", Category: domain.CategoryFertilizers,
		Images: []string{"/u.jpg"},
	})

	all, _ := repo.List()
	if all[0].Specifications != nil {
		t.Fatalf("nil specifications became %v", all[0].Specifications)
	}
}
