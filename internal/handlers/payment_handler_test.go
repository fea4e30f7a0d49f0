package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/config"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
)

const webhookTestSecret = "whsec_test"

func newPaymentHandler(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mockDB := &mockDatabase{db: db}
	logger := testLogger()

	stripeService := services.NewStripeService(&config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookTestSecret,
		Currency:      "usd",
	}, logger)

	handler := NewPaymentHandler(
		stripeService,
		database.NewPaymentRepository(mockDB),
		database.NewBookingRepository(mockDB),
		database.NewUserRepository(mockDB),
		logger,
	)
	return handler, mock, func() { db.Close() }
}

func signedWebhookRequest(payload []byte) *http.Request {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature",
		fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func webhookRouter(handler *PaymentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/payments/webhook", handler.Webhook)
	return router
}

func TestWebhook(t *testing.T) {
	succeededPayload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_unknown", "amount": 65000, "currency": "usd"}}
	}`)

	t.Run("Succeeded Event With No Matching Payment Is A No-Op", func(t *testing.T) {
		handler, mock, closeDB := newPaymentHandler(t)
		defer closeDB()
		router := webhookRouter(handler)

		mock.ExpectExec(`UPDATE payments`).
			WithArgs("pi_unknown", models.PaymentRecordSuccess).
			WillReturnResult(sqlmock.NewResult(0, 0))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, signedWebhookRequest(succeededPayload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"received":true`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Succeeded Event Flips Matching Payment", func(t *testing.T) {
		handler, mock, closeDB := newPaymentHandler(t)
		defer closeDB()
		router := webhookRouter(handler)

		mock.ExpectExec(`UPDATE payments`).
			WithArgs("pi_unknown", models.PaymentRecordSuccess).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, signedWebhookRequest(succeededPayload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Tampered Signature Rejected Before Any Write", func(t *testing.T) {
		handler, mock, closeDB := newPaymentHandler(t)
		defer closeDB()
		router := webhookRouter(handler)

		req := signedWebhookRequest(succeededPayload)
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Webhook signature verification failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failed Event Is Acknowledged Without Writes", func(t *testing.T) {
		handler, mock, closeDB := newPaymentHandler(t)
		defer closeDB()
		router := webhookRouter(handler)

		payload := []byte(`{
			"id": "evt_2",
			"type": "payment_intent.payment_failed",
			"data": {"object": {"id": "pi_9", "amount": 65000}}
		}`)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, signedWebhookRequest(payload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
