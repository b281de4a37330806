package security

import (
	"fmt"
	"log/slog"

	"github.com/yourorg/agrimarket/internal/domain"
)

// Permission represents a marketplace action permission
type Permission string

const (
	PermBrowseCrops    Permission = "browse_crops"
	PermBrowseProducts Permission = "browse_products"
	PermSubmitCrop     Permission = "submit_crop"
	PermSubmitProduct  Permission = "submit_product"
)

// RolePermissions maps each marketplace role to its permissions. Each
// catalog models a one-sided supply relationship: the producing role
// manages its own inventory, the consuming role browses the full
// catalog, and the remaining role is denied entirely.
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleFarmer: {
		PermBrowseCrops, // own listings only; enforced by the visibility engine
		PermBrowseProducts,
		PermSubmitCrop,
	},
	domain.RoleBuyer: {
		PermBrowseCrops,
	},
	domain.RoleSeller: {
		PermBrowseProducts, // own listings only
		PermSubmitProduct,
	},
}

// AuthorizationService handles role-based permission checks for the
// HTTP layer (the catalog engine applies its own visibility rules)
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{logger: logger}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("permission denied: %s role cannot %s", role, permission)
	}
	return nil
}

// GetRolePermissions returns all permissions for a role
func (as *AuthorizationService) GetRolePermissions(role domain.Role) []Permission {
	return RolePermissions[role]
}
