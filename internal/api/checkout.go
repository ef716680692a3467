package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/oakmart/storefront/internal/domain/checkout"
	"github.com/oakmart/storefront/internal/domain/coupon"
	"github.com/oakmart/storefront/internal/domain/order"
	"github.com/oakmart/storefront/internal/payment"
)

type checkoutSessionRequest struct {
	Items      []checkoutItemRequest `json:"items"`
	CouponCode string                `json:"couponCode,omitempty"`
}

type checkoutItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutSessionResponse struct {
	SessionID   string  `json:"sessionId"`
	TotalAmount float64 `json:"totalAmount"`
}

type confirmRequest struct {
	SessionID string `json:"sessionId"`
}

type confirmResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// createCheckoutSession prices the cart, opens an external payment session,
// and returns its id with the preview total.
func (h *Handler) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	info, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkoutSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]checkout.CartItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = checkout.CartItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	session, err := h.builder.BuildSession(r.Context(), info.UserID, items, req.CouponCode)
	if err != nil {
		h.mapCheckoutError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, checkoutSessionResponse{
		SessionID:   session.ID,
		TotalAmount: session.Total.InexactFloat64(),
	})
}

// confirmCheckout reconciles a session against the payment processor.
// Safe to call repeatedly: duplicate confirmations return the same order.
func (h *Handler) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeBody(r, &req); err != nil || req.SessionID == "" {
		writeError(w, r, http.StatusBadRequest, "sessionId required")
		return
	}

	o, err := h.reconciler.Reconcile(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrPaymentNotConfirmed):
			writeError(w, r, http.StatusPaymentRequired, "payment not confirmed")
		case errors.Is(err, checkout.ErrMissingSnapshot):
			writeError(w, r, http.StatusUnprocessableEntity, "session carries no checkout snapshot")
		case errors.Is(err, payment.ErrProviderUnavailable):
			writeError(w, r, http.StatusBadGateway, "payment provider unavailable")
		default:
			writeServerError(w, r, err)
		}
		return
	}

	writeJSON(w, r, http.StatusOK, confirmResponse{
		OrderID: o.ID,
		Message: "payment successful, order created",
	})
}

// mapCheckoutError converts session-build failures to client responses.
func (h *Handler) mapCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pnfErr *checkout.ProductNotFoundError
		iqErr  *checkout.InvalidQuantityError
	)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, r, http.StatusBadRequest, "cart is empty")
	case errors.As(err, &iqErr):
		writeError(w, r, http.StatusUnprocessableEntity, iqErr.Error())
	case errors.As(err, &pnfErr):
		writeError(w, r, http.StatusUnprocessableEntity, pnfErr.Error())
	case errors.Is(err, coupon.ErrInvalidCoupon):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid coupon code")
	case errors.Is(err, payment.ErrProviderUnavailable):
		writeError(w, r, http.StatusBadGateway, "payment provider unavailable")
	default:
		writeServerError(w, r, err)
	}
}
