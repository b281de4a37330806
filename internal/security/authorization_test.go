package security

import (
	"testing"

	"github.com/yourorg/agrimarket/internal/domain"
)

func TestRolePermissionMatrix(t *testing.T) {
	svc := NewAuthorizationService(nil)

	cases := []struct {
		role       domain.Role
		permission Permission
		want       bool
	}{
		{domain.RoleFarmer, PermSubmitCrop, true},
		{domain.RoleFarmer, PermBrowseCrops, true},
		{domain.RoleFarmer, PermBrowseProducts, true},
		{domain.RoleFarmer, PermSubmitProduct, false},
		{domain.RoleBuyer, PermBrowseCrops, true},
		{domain.RoleBuyer, PermBrowseProducts, false},
		{domain.RoleBuyer, PermSubmitCrop, false},
		{domain.RoleSeller, PermSubmitProduct, true},
		{domain.RoleSeller, PermBrowseProducts, true},
		{domain.RoleSeller, PermBrowseCrops, false},
		{domain.RoleSeller, PermSubmitCrop, false},
	}

	for _, tc := range cases {
		if got := svc.HasPermission(tc.role, tc.permission); got != tc.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tc.role, tc.permission, got, tc.want)
		}
	}
}

func TestValidatePermission(t *testing.T) {
	svc := NewAuthorizationService(nil)

	if err := svc.ValidatePermission(domain.RoleFarmer, PermSubmitCrop); err != nil {
		t.Fatalf("farmer should submit crops: %v", err)
	}
	if err := svc.ValidatePermission(domain.RoleBuyer, PermSubmitCrop); err == nil {
		t.Fatalf("buyer submitting crops should be denied")
	}

	// Unknown roles have no permissions at all
	if svc.HasPermission("admin", PermBrowseCrops) {
		t.Fatalf("unknown role should have no permissions")
	}
}
