package services

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/config"
)

// P24EnvironmentURLs maps environment names to their API base URLs
var P24EnvironmentURLs = map[string]string{
	"sandbox":    "https://sandbox.przelewy24.pl",
	"production": "https://secure.przelewy24.pl",
}

// P24Service handles hosted payment page integration with Przelewy24
type P24Service struct {
	config *config.PaymentConfig
	logger *logrus.Logger
	client *http.Client
}

// NewP24Service creates a new Przelewy24 payment service
func NewP24Service(cfg *config.PaymentConfig, logger *logrus.Logger) *P24Service {
	return &P24Service{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether merchant credentials are present
func (s *P24Service) IsConfigured() bool {
	return s.config.MerchantID != "" && s.config.CRCKey != ""
}

// p24RegisterRequest is the transaction registration payload.
// NOTE: the CRC key itself is never sent - it only feeds the sign.
type p24RegisterRequest struct {
	MerchantID  string `json:"merchantId"`
	PosID       string `json:"posId"`
	SessionID   string `json:"sessionId"`
	Amount      int64  `json:"amount"` // minor currency units
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Language    string `json:"language"`
	URLReturn   string `json:"urlReturn"`
	URLStatus   string `json:"urlStatus,omitempty"`
	Sign        string `json:"sign"`
}

// p24RegisterResponse is the registration response envelope
type p24RegisterResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
	Code  int    `json:"code,omitempty"`
}

// PaymentSessionParams carries everything needed to open a payment session
type PaymentSessionParams struct {
	SessionID   string // external id, booking reference
	Amount      int64  // minor currency units
	Currency    string
	Description string
	BuyerEmail  string
	ReturnURL   string // booking self-service link preferred
	NotifyURL   string
}

// PaymentSession is a successfully opened hosted payment session
type PaymentSession struct {
	PaymentID   string
	RedirectURL string
}

// Sign computes the SHA-512 transaction sign over the registration fields
// and the merchant CRC key.
func (s *P24Service) Sign(sessionID string, amount int64, currency string) string {
	data := fmt.Sprintf("%s|%s|%d|%s|%s",
		sessionID, s.config.MerchantID, amount, currency, s.config.CRCKey)
	sum := sha512.Sum512([]byte(data))
	return hex.EncodeToString(sum[:])
}

// VerifySign checks a notification sign against the expected value.
// Used by the payment webhook before any status change is applied.
func (s *P24Service) VerifySign(sessionID string, amount int64, currency, sign string) bool {
	return s.Sign(sessionID, amount, currency) == sign
}

// CreateSession registers a transaction and returns the hosted payment page
// redirect. The intake flow treats any error here as a degraded booking, not
// a failed one.
func (s *P24Service) CreateSession(params *PaymentSessionParams) (*PaymentSession, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("payment gateway not configured: missing merchant credentials")
	}

	baseURL, ok := P24EnvironmentURLs[s.config.Environment]
	if !ok {
		baseURL = P24EnvironmentURLs["sandbox"]
	}

	returnURL := params.ReturnURL
	if returnURL == "" {
		returnURL = s.config.ReturnURL
	}
	notifyURL := params.NotifyURL
	if notifyURL == "" {
		notifyURL = s.config.NotifyURL
	}

	request := &p24RegisterRequest{
		MerchantID:  s.config.MerchantID,
		PosID:       s.config.PosID,
		SessionID:   params.SessionID,
		Amount:      params.Amount,
		Currency:    params.Currency,
		Description: params.Description,
		Email:       params.BuyerEmail,
		Country:     "PL",
		Language:    "pl",
		URLReturn:   returnURL,
		URLStatus:   notifyURL,
		Sign:        s.Sign(params.SessionID, params.Amount, params.Currency),
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": params.SessionID,
		"amount":     params.Amount,
		"currency":   params.Currency,
		"endpoint":   baseURL,
	}).Info("Registering payment session")

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/transaction/register", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(s.config.PosID, s.config.CRCKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment gateway response: %w", err)
	}

	var registerResp p24RegisterResponse
	if err := json.Unmarshal(body, &registerResp); err != nil {
		return nil, fmt.Errorf("failed to decode payment gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || registerResp.Data.Token == "" {
		return nil, fmt.Errorf("payment gateway rejected session (status %d): %s",
			resp.StatusCode, registerResp.Error)
	}

	session := &PaymentSession{
		PaymentID:   registerResp.Data.Token,
		RedirectURL: fmt.Sprintf("%s/trnRequest/%s", baseURL, registerResp.Data.Token),
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":   params.SessionID,
		"payment_id":   session.PaymentID,
		"redirect_url": session.RedirectURL,
	}).Info("Payment session registered")

	return session, nil
}

// BaseURL returns the gateway base URL for tests and diagnostics
func (s *P24Service) BaseURL() string {
	if url, ok := P24EnvironmentURLs[s.config.Environment]; ok {
		return url
	}
	return P24EnvironmentURLs["sandbox"]
}

// SetBaseURLForTest overrides the environment URL map entry. Test helper
// for pointing the client at an httptest server.
func SetBaseURLForTest(env, url string) func() {
	prev, had := P24EnvironmentURLs[env]
	P24EnvironmentURLs[env] = url
	return func() {
		if had {
			P24EnvironmentURLs[env] = prev
		} else {
			delete(P24EnvironmentURLs, env)
		}
	}
}
