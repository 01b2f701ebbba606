package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musfit/services/enrollment"
	"musfit/services/payment"
)

func TestAuthorize(t *testing.T) {
	var gotAuth, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/charges/authorize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")

		var charge enrollment.Charge
		require.NoError(t, json.NewDecoder(r.Body).Decode(&charge))
		assert.Equal(t, "Oma4Zei4", charge.UserID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(enrollment.Authorization{Reference: "ch_123", Approved: true})
	}))
	defer server.Close()

	authorizer := payment.NewAuthorizer(resty.New().SetBaseURL(server.URL), "sk_test")
	auth, err := authorizer.Authorize(context.Background(), enrollment.Charge{
		IdempotencyKey: "key-1",
		UserID:         "Oma4Zei4",
		EventID:        "M1a2b3foo",
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_123", auth.Reference)
	assert.True(t, auth.Approved)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "key-1", gotKey)
}

func TestAuthorizeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "card_declined",
			"error_description": "insufficient funds",
		})
	}))
	defer server.Close()

	authorizer := payment.NewAuthorizer(resty.New().SetBaseURL(server.URL), "sk_test")
	_, err := authorizer.Authorize(context.Background(), enrollment.Charge{IdempotencyKey: "key-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_declined")
}

func TestNoopApproves(t *testing.T) {
	auth, err := payment.Noop{}.Authorize(context.Background(), enrollment.Charge{IdempotencyKey: "abc"})
	require.NoError(t, err)
	assert.True(t, auth.Approved)
	assert.Equal(t, "noop-abc", auth.Reference)
}
