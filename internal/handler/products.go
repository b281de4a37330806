package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/security"
	"github.com/yourorg/agrimarket/internal/service"
)

// ProductsHandler serves the input-product catalog: role-filtered
// browsing and seller submissions
type ProductsHandler struct {
	catalog *service.CatalogService
	auth    *service.AuthService
	authz   *security.AuthorizationService
	logger  *slog.Logger
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(
	catalog *service.CatalogService,
	auth *service.AuthService,
	authz *security.AuthorizationService,
	logger *slog.Logger,
) *ProductsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProductsHandler{
		catalog: catalog,
		auth:    auth,
		authz:   authz,
		logger:  logger,
	}
}

// ProductResponse is the wire form of a product listing
type ProductResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Seller         string            `json:"seller"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Stock          int               `json:"stock"`
	Description    string            `json:"description"`
	Images         []string          `json:"images"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Available      bool              `json:"available"`
	CreatedAt      string            `json:"createdAt"`
}

// List handles GET /api/products?search=&category=
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := resolveViewer(r, h.auth)
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	products, err := h.catalog.VisibleProducts(viewer, search, category)
	if err != nil {
		if errors.Is(err, domain.ErrAccessRestricted) {
			writeError(w, http.StatusForbidden, "access restricted: input marketplace is for farmers and sellers only")
			return
		}
		h.logger.Error("failed to list products", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": items,
		"total":    len(items),
	})
}

// Submit handles POST /api/products (seller only)
func (h *ProductsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	viewer := resolveViewer(r, h.auth)
	if viewer == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.authz.ValidatePermission(viewer.Role, security.PermSubmitProduct); err != nil {
		writeError(w, http.StatusForbidden, "only sellers can list products")
		return
	}

	var draft service.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Warn("failed to decode product draft", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	listing, err := h.catalog.SubmitProduct(viewer, draft)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
			return
		}
		h.logger.Error("failed to submit product", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to submit product")
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(listing))
}

func toProductResponse(p *domain.ProductListing) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Seller:         p.SellerName,
		Category:       string(p.Category),
		Price:          p.Price,
		Stock:          p.Stock,
		Description:    p.Description,
		Images:         p.Images,
		Specifications: p.Specifications,
		Available:      p.Available(),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
