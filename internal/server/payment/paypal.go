package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shopspring/decimal"
)

// PayPalClient implements Provider against the PayPal REST payments API
// (create payment / execute payment). Reproducing the vendor SDK is out of
// scope; this client covers exactly the surface checkout needs.
type PayPalClient struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
	logger     logging.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalClient(baseURL, clientID, secret string, timeout time.Duration, logger logging.Logger) *PayPalClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PayPalClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("module", "paypal"),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *PayPalClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrPaymentProvider, err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", common.ErrPaymentProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: token request returned %d: %s", common.ErrPaymentProvider, resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", common.ErrPaymentProvider, err)
	}

	c.accessToken = tr.AccessToken
	// Refresh a minute before the provider-side expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}

type paymentLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type createPaymentResponse struct {
	ID    string        `json:"id"`
	State string        `json:"state"`
	Links []paymentLink `json:"links"`
}

func (c *PayPalClient) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*Intent, error) {
	payload := map[string]any{
		"intent": "sale",
		"payer":  map[string]any{"payment_method": "paypal"},
		"transactions": []map[string]any{{
			"amount": map[string]string{
				"total":    amount.StringFixed(2),
				"currency": currency,
			},
			"description": "ShipShopGlobal shipping charge",
		}},
		"redirect_urls": map[string]string{
			"return_url": "https://shipshopglobal.example/checkout/return",
			"cancel_url": "https://shipshopglobal.example/checkout/cancel",
		},
	}

	var out createPaymentResponse
	if err := c.post(ctx, "/v1/payments/payment", payload, &out); err != nil {
		return nil, err
	}

	intent := &Intent{ID: out.ID}
	for _, l := range out.Links {
		if l.Rel == "approval_url" {
			intent.ApprovalURL = l.Href
			break
		}
	}
	if intent.ID == "" || intent.ApprovalURL == "" {
		return nil, fmt.Errorf("%w: create payment response missing id or approval url", common.ErrPaymentProvider)
	}

	c.logger.Info(ctx, "payment intent created", "payment_id", intent.ID)
	return intent, nil
}

type executePaymentResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

func (c *PayPalClient) Execute(ctx context.Context, paymentID, payerToken string) error {
	payload := map[string]string{"payer_id": payerToken}

	var out executePaymentResponse
	path := "/v1/payments/payment/" + url.PathEscape(paymentID) + "/execute"
	if err := c.post(ctx, path, payload, &out); err != nil {
		return err
	}

	if out.State != "approved" {
		return fmt.Errorf("%w: payment %s not approved, state=%s", common.ErrPaymentProvider, paymentID, out.State)
	}

	c.logger.Info(ctx, "payment executed", "payment_id", paymentID)
	return nil
}

func (c *PayPalClient) post(ctx context.Context, path string, payload, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPaymentProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPaymentProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPaymentProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s returned %d: %s", common.ErrPaymentProvider, path, resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrPaymentProvider, err)
	}
	return nil
}
