// Package api exposes the storefront over HTTP. Handlers decode requests,
// delegate to the domain services, and map domain errors to status codes.
package api

import (
	"context"
	"net/http"

	"github.com/oakmart/storefront/internal/domain/auth"
	"github.com/oakmart/storefront/internal/domain/checkout"
	"github.com/oakmart/storefront/internal/domain/order"
	"github.com/oakmart/storefront/internal/domain/product"
)

// Reconciler confirms a checkout session and returns the resulting order.
type Reconciler interface {
	Reconcile(ctx context.Context, sessionID string) (*order.Order, error)
}

// SessionBuilder turns a cart into an external payment session.
type SessionBuilder interface {
	BuildSession(ctx context.Context, userID string, items []checkout.CartItem, couponCode string) (*checkout.Session, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, paths are returned as stored.
	ImageBaseURL string
	// APIKeyPepper is the HMAC key for hashing API keys.
	APIKeyPepper []byte
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	catalog    *product.Catalog
	builder    SessionBuilder
	reconciler Reconciler
	apikeys    auth.Repository

	imageBaseURL string
	pepper       []byte
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	catalog *product.Catalog,
	builder SessionBuilder,
	reconciler Reconciler,
	apikeys auth.Repository,
) *Handler {
	return &Handler{
		catalog:      catalog,
		builder:      builder,
		reconciler:   reconciler,
		apikeys:      apikeys,
		imageBaseURL: cfg.ImageBaseURL,
		pepper:       cfg.APIKeyPepper,
	}
}

// Routes returns the API route tree. All routes require an API key; the
// featured toggle additionally requires the admin scope.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/featured", h.listFeatured)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("POST /api/products/{id}/featured", h.setFeatured)

	mux.HandleFunc("POST /api/checkout/session", h.createCheckoutSession)
	mux.HandleFunc("POST /api/checkout/confirm", h.confirmCheckout)

	return h.requireAPIKey(mux)
}
