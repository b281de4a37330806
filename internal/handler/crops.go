package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/security"
	"github.com/yourorg/agrimarket/internal/security/middleware"
	"github.com/yourorg/agrimarket/internal/service"
)

// CropsHandler serves the crop catalog: role-filtered browsing and
// farmer submissions
type CropsHandler struct {
	catalog *service.CatalogService
	auth    *service.AuthService
	authz   *security.AuthorizationService
	logger  *slog.Logger
}

// NewCropsHandler creates a new crops handler
func NewCropsHandler(
	catalog *service.CatalogService,
	auth *service.AuthService,
	authz *security.AuthorizationService,
	logger *slog.Logger,
) *CropsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CropsHandler{
		catalog: catalog,
		auth:    auth,
		authz:   authz,
		logger:  logger,
	}
}

// CropResponse is the wire form of a crop listing. Available mirrors
// quantity > 0 so the UI can disable the order button on sold-out rows.
type CropResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Farmer      string   `json:"farmer"`
	Quantity    int      `json:"quantity"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	HarvestDate string   `json:"harvestDate,omitempty"`
	Category    string   `json:"category,omitempty"`
	Available   bool     `json:"available"`
	CreatedAt   string   `json:"createdAt"`
}

// List handles GET /api/crops?search=&category=
func (h *CropsHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := resolveViewer(r, h.auth)
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	crops, err := h.catalog.VisibleCrops(viewer, search, category)
	if err != nil {
		if errors.Is(err, domain.ErrAccessRestricted) {
			writeError(w, http.StatusForbidden, "access restricted: crop marketplace is for farmers and buyers only")
			return
		}
		h.logger.Error("failed to list crops", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list crops")
		return
	}

	items := make([]CropResponse, 0, len(crops))
	for _, c := range crops {
		items = append(items, toCropResponse(c))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crops": items,
		"total": len(items),
	})
}

// Submit handles POST /api/crops (farmer only)
func (h *CropsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	viewer := resolveViewer(r, h.auth)
	if viewer == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.authz.ValidatePermission(viewer.Role, security.PermSubmitCrop); err != nil {
		writeError(w, http.StatusForbidden, "only farmers can list crops")
		return
	}

	var draft service.CropDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Warn("failed to decode crop draft", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	listing, err := h.catalog.SubmitCrop(viewer, draft)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
			return
		}
		h.logger.Error("failed to submit crop", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to submit crop")
		return
	}

	writeJSON(w, http.StatusCreated, toCropResponse(listing))
}

func toCropResponse(c *domain.CropListing) CropResponse {
	return CropResponse{
		ID:          c.ID,
		Name:        c.Name,
		Farmer:      c.FarmerName,
		Quantity:    c.Quantity,
		Price:       c.Price,
		Location:    c.Location,
		Images:      c.Images,
		Description: c.Description,
		HarvestDate: c.HarvestDate,
		Category:    c.Category,
		Available:   c.Available(),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

// resolveViewer maps the request's token claims to an account; requests
// without a valid token are anonymous (nil viewer)
func resolveViewer(r *http.Request, auth *service.AuthService) *domain.Account {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		return nil
	}
	account, err := auth.GetByID(claims.AccountID)
	if err != nil {
		return nil
	}
	return account
}
