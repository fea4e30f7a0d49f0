package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/config"
)

func newStripeService(baseURL string) *StripeService {
	return NewStripeService(&config.StripeConfig{
		APIBaseURL:    baseURL,
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		Currency:      "usd",
	}, testLogger())
}

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "65000", r.PostForm.Get("amount"))
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, "card", r.PostForm.Get("payment_method_types[]"))
			assert.Equal(t, "bk-42", r.PostForm.Get("metadata[booking]"))
			assert.Equal(t, "cus_123", r.PostForm.Get("customer"))

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"pi_1","client_secret":"pi_1_secret_x","amount":65000,"currency":"usd","status":"requires_payment_method"}`)
		}))
		defer server.Close()

		service := newStripeService(server.URL)
		intent, err := service.CreatePaymentIntent(&CreateIntentParams{
			Amount:     65000,
			CustomerID: "cus_123",
			BookingID:  "bk-42",
		})
		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.ID)
		assert.Equal(t, "pi_1_secret_x", intent.ClientSecret)
	})

	t.Run("Gateway Error Surfaces Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, `{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`)
		}))
		defer server.Close()

		service := newStripeService(server.URL)
		_, err := service.CreatePaymentIntent(&CreateIntentParams{Amount: 100})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Your card was declined.")
	})

	t.Run("Missing Secret Key", func(t *testing.T) {
		service := NewStripeService(&config.StripeConfig{}, testLogger())
		_, err := service.CreatePaymentIntent(&CreateIntentParams{Amount: 100})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}

func TestEnsureCustomer(t *testing.T) {
	t.Run("Existing Customer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/customers/cus_123", r.URL.Path)
			fmt.Fprint(w, `{"id":"cus_123","name":"Jordan Reyes","email":"jordan@example.com"}`)
		}))
		defer server.Close()

		service := newStripeService(server.URL)
		customer, err := service.EnsureCustomer("cus_123", "Jordan Reyes", "jordan@example.com")
		require.NoError(t, err)
		assert.Equal(t, "cus_123", customer.ID)
	})

	t.Run("Creates On Miss", func(t *testing.T) {
		var created bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"No such customer"}}`)
				return
			}
			created = true
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "Jordan Reyes", r.PostForm.Get("name"))
			assert.Equal(t, "jordan@example.com", r.PostForm.Get("email"))
			assert.Equal(t, "user-1", r.PostForm.Get("metadata[internal_id]"))
			fmt.Fprint(w, `{"id":"cus_new","name":"Jordan Reyes","email":"jordan@example.com"}`)
		}))
		defer server.Close()

		service := newStripeService(server.URL)
		customer, err := service.EnsureCustomer("user-1", "Jordan Reyes", "jordan@example.com")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "cus_new", customer.ID)
	})
}

func TestVerifySignature(t *testing.T) {
	service := newStripeService("http://stripe.invalid")
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	t.Run("Valid", func(t *testing.T) {
		ts := now.Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))
		assert.NoError(t, service.VerifySignature(payload, header, now))
	})

	t.Run("Tampered Payload", func(t *testing.T) {
		ts := now.Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))
		err := service.VerifySignature([]byte(`{"id":"evt_2"}`), header, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		ts := now.Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_other", ts, payload))
		err := service.VerifySignature(payload, header, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Stale Timestamp", func(t *testing.T) {
		ts := now.Add(-10 * time.Minute).Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))
		err := service.VerifySignature(payload, header, now)
		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("Missing Header", func(t *testing.T) {
		err := service.VerifySignature(payload, "", now)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("Second Signature Accepted", func(t *testing.T) {
		// Stripe sends multiple v1 entries during secret rotation.
		ts := now.Unix()
		header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
			ts, signPayload("whsec_old", ts, payload), signPayload("whsec_test", ts, payload))
		assert.NoError(t, service.VerifySignature(payload, header, now))
	})
}

func TestConstructEvent(t *testing.T) {
	service := newStripeService("http://stripe.invalid")
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_1", "amount": 65000, "currency": "usd", "metadata": {"booking": "bk-42"}}}
	}`)

	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))

	event, err := service.ConstructEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, "pi_1", event.Data.Object.ID)
	assert.Equal(t, int64(65000), event.Data.Object.Amount)
	assert.Equal(t, "bk-42", event.Data.Object.Metadata["booking"])

	_, err = service.ConstructEvent(payload, "t=bad,v1=sig")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
