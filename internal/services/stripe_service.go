package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyvoyage/flight-booking-backend/internal/config"
)

// WebhookTolerance is the maximum accepted age of a signed webhook payload.
const WebhookTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing webhook signature header")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

// StripeService talks to the Stripe REST API directly with form-encoded
// requests. Only the handful of endpoints the booking flow needs are
// implemented.
type StripeService struct {
	config *config.StripeConfig
	logger *logrus.Logger
	client *http.Client
}

// NewStripeService creates a new Stripe gateway client
func NewStripeService(cfg *config.StripeConfig, logger *logrus.Logger) *StripeService {
	return &StripeService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StripeCustomer is the subset of the customer object the service reads.
type StripeCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Deleted bool   `json:"deleted"`
}

// PaymentIntent is the subset of the payment intent object the service reads.
type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Customer     string            `json:"customer"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
}

// CreateIntentParams carries everything needed to open a payment intent.
type CreateIntentParams struct {
	Amount     int64
	Currency   string
	CustomerID string
	BookingID  string
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *StripeService) do(method, path string, form url.Values, out interface{}) error {
	if s.config.SecretKey == "" {
		return fmt.Errorf("payment gateway not configured: missing secret key")
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, s.config.APIBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Failed to call Stripe endpoint")
		return fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var stripeErr stripeErrorBody
		if err := json.Unmarshal(raw, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, stripeErr.Error.Message)
		}
		return fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			s.logger.WithFields(logrus.Fields{
				"path":  path,
				"error": err.Error(),
			}).Error("Failed to parse Stripe response")
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// EnsureCustomer returns the Stripe customer for the given id, creating one
// with the same id in metadata when it does not exist yet. Stripe assigns its
// own customer ids, so the caller's id is carried as the name lookup key.
func (s *StripeService) EnsureCustomer(customerID, name, email string) (*StripeCustomer, error) {
	var customer StripeCustomer
	err := s.do(http.MethodGet, "/v1/customers/"+customerID, nil, &customer)
	if err == nil && !customer.Deleted {
		return &customer, nil
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("metadata[internal_id]", customerID)

	if err := s.do(http.MethodPost, "/v1/customers", form, &customer); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"email":       email,
	}).Info("Created Stripe customer")
	return &customer, nil
}

// CreatePaymentIntent opens a card payment intent and returns it with the
// client secret the frontend needs to confirm the payment.
func (s *StripeService) CreatePaymentIntent(params *CreateIntentParams) (*PaymentIntent, error) {
	currency := params.Currency
	if currency == "" {
		currency = s.config.Currency
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Add("payment_method_types[]", "card")
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	}
	if params.BookingID != "" {
		form.Set("metadata[booking]", params.BookingID)
	}

	var intent PaymentIntent
	if err := s.do(http.MethodPost, "/v1/payment_intents", form, &intent); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"intent_id": intent.ID,
		"amount":    intent.Amount,
		"currency":  intent.Currency,
		"booking":   params.BookingID,
	}).Info("Created payment intent")
	return &intent, nil
}

// WebhookEvent is a decoded Stripe event envelope.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object PaymentIntent `json:"object"`
	} `json:"data"`
}

// VerifySignature checks the Stripe-Signature header against the raw payload.
// The header carries a unix timestamp and one or more v1 signatures, each an
// HMAC-SHA256 of "<timestamp>.<payload>" keyed with the webhook secret.
func (s *StripeService) VerifySignature(payload []byte, header string, now time.Time) error {
	if header == "" {
		return ErrMissingSignature
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			ts, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}
	if now.Sub(time.Unix(timestamp, 0)) > WebhookTolerance {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(s.config.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// ConstructEvent verifies the signature and decodes the event payload.
func (s *StripeService) ConstructEvent(payload []byte, header string) (*WebhookEvent, error) {
	if err := s.VerifySignature(payload, header, time.Now()); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	return &event, nil
}
