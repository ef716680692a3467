package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateSession(t *testing.T) {
	var gotAuth string
	var gotReq sessionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(sessionResponse{ID: "cs_123", PaymentStatus: StatusUnpaid})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, SecretKey: "sk_test"})
	id, err := c.CreateSession(context.Background(), CreateSessionParams{
		LineItems:  []LineItem{{Name: "Widget", UnitAmount: 5000, Quantity: 2}},
		DiscountID: "disc_1",
		Metadata:   map[string]string{"k": "v"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", id)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, []string{"disc_1"}, gotReq.Discounts)
	require.Len(t, gotReq.LineItems, 1)
	assert.Equal(t, int64(5000), gotReq.LineItems[0].UnitAmount)
	assert.Equal(t, "v", gotReq.Metadata["k"])
}

func TestClient_RetrieveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_123", r.URL.Path)

		json.NewEncoder(w).Encode(sessionResponse{
			ID:            "cs_123",
			PaymentStatus: StatusPaid,
			AmountTotal:   9000,
			Metadata:      map[string]string{"snapshot": "{}"},
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, SecretKey: "sk_test"})
	s, err := c.RetrieveSession(context.Background(), "cs_123")

	require.NoError(t, err)
	assert.True(t, s.Paid())
	assert.Equal(t, int64(9000), s.AmountTotal)
	assert.Equal(t, "{}", s.Metadata["snapshot"])
}

func TestClient_CreateDiscount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/discounts", r.URL.Path)

		var req discountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10, req.PercentOff)
		assert.Equal(t, "once", req.Duration)

		json.NewEncoder(w).Encode(discountResponse{ID: "disc_10"})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, SecretKey: "sk_test"})
	id, err := c.CreateDiscount(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, "disc_10", id)
}

func TestClient_ServerErrorIsProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, SecretKey: "sk_test"})
	_, err := c.RetrieveSession(context.Background(), "cs_123")

	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestClient_UnreachableIsProviderUnavailable(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1", SecretKey: "sk_test"})
	_, err := c.RetrieveSession(context.Background(), "cs_123")

	require.ErrorIs(t, err, ErrProviderUnavailable)
}
