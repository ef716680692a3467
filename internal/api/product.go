package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/oakmart/storefront/internal/domain/product"
)

type productResponse struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Price    float64      `json:"price"`
	Category string       `json:"category"`
	Featured bool         `json:"featured"`
	Image    productImage `json:"image"`
}

type productImage struct {
	Thumbnail string `json:"thumbnail"`
	Mobile    string `json:"mobile"`
	Tablet    string `json:"tablet"`
	Desktop   string `json:"desktop"`
}

type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// listProducts returns every product in the catalog.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.toResponses(products))
}

// listFeatured returns the featured products via the read-through cache.
func (h *Handler) listFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListFeatured(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.toResponses(products))
}

// getProduct returns a single product by ID.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.toResponse(*p))
}

// setFeatured toggles a product's featured flag, invalidating the cached
// featured list. Admin scope required.
func (h *Handler) setFeatured(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireScope(w, r, ScopeAdmin); !ok {
		return
	}

	var req setFeaturedRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.SetFeatured(r.Context(), r.PathValue("id"), req.Featured); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeServerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toResponses(products []product.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toResponse(p)
	}
	return out
}

// toResponse converts a domain product to its wire form. Image paths are
// prefixed with the configured imageBaseURL.
func (h *Handler) toResponse(p product.Product) productResponse {
	base := h.imageBaseURL
	return productResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Category: p.Category,
		Featured: p.Featured,
		Image: productImage{
			Thumbnail: base + p.Image.Thumbnail,
			Mobile:    base + p.Image.Mobile,
			Tablet:    base + p.Image.Tablet,
			Desktop:   base + p.Image.Desktop,
		},
	}
}
