package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chopchop-order-service/internal/config"
)

// Client wraps the provider's checkout REST API: order creation, capture
// with duplicate-capture tolerance, detail lookup and webhook signature
// verification.
type Client struct {
	cfg        config.PayPalConfig
	httpClient *http.Client
}

func New(cfg config.PayPalConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// CaptureResult is the normalized outcome of a capture attempt.
// AlreadyCaptured marks results reconstructed from an order lookup after
// the provider rejected a duplicate capture.
type CaptureResult struct {
	OrderID         string `json:"orderID"`
	CaptureID       string `json:"captureID"`
	Status          string `json:"status"`
	Amount          Amount `json:"amount"`
	AlreadyCaptured bool   `json:"alreadyCaptured,omitempty"`
}

// OrderDetails is the flattened view of a provider order and its first
// capture, if any.
type OrderDetails struct {
	OrderID       string
	Status        string
	CaptureID     string
	CaptureStatus string
	Amount        Amount
}

type captureWire struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

type orderWire struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments *struct {
			Captures []captureWire `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (w *orderWire) firstCapture() *captureWire {
	for _, pu := range w.PurchaseUnits {
		if pu.Payments != nil && len(pu.Payments.Captures) > 0 {
			return &pu.Payments.Captures[0]
		}
	}
	return nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", &AuthError{Err: fmt.Errorf("client credentials are missing")}
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Err: fmt.Errorf("token endpoint returned status %d", resp.StatusCode)}
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &AuthError{Err: err}
	}
	return body.AccessToken, nil
}

// CreateOrder registers an order with the provider and returns its
// provider-assigned identifier. Amounts are USD.
func (c *Client) CreateOrder(ctx context.Context, amountUSD float64, currency string) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", amountUSD),
			},
			"description": "ChopChop Food Order",
		}},
		"application_context": map[string]string{
			"return_url":          c.cfg.ReturnURL,
			"cancel_url":          c.cfg.CancelURL,
			"shipping_preference": "NO_SHIPPING",
			"user_action":         "PAY_NOW",
			"brand_name":          "Chop Chop",
		},
	}
	raw, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return "", &RequestError{Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("PayPal-Request-Id", fmt.Sprintf("%d", time.Now().UnixNano()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("paypal create order failed: status %d body %s", resp.StatusCode, body)
		return "", &RequestError{HTTPStatus: resp.StatusCode, Body: string(body)}
	}

	var out orderWire
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &RequestError{HTTPStatus: resp.StatusCode, Body: err.Error()}
	}
	log.Printf("paypal order created: %s", out.ID)
	return out.ID, nil
}

// CaptureOrder settles an approved provider order. A duplicate capture
// request is converted into a lookup of the existing capture and reported
// with AlreadyCaptured set instead of an error.
func (c *Client) CaptureOrder(ctx context.Context, providerOrderID string) (*CaptureResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/checkout/orders/"+providerOrderID+"/capture", nil)
	if err != nil {
		return nil, &CaptureError{Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CaptureError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if strings.Contains(string(body), "ORDER_ALREADY_CAPTURED") {
			log.Printf("paypal order %s already captured, fetching existing capture", providerOrderID)
			return c.existingCapture(ctx, providerOrderID)
		}
		log.Printf("paypal capture failed: status %d body %s", resp.StatusCode, body)
		return nil, &CaptureError{HTTPStatus: resp.StatusCode, Body: string(body)}
	}

	var out orderWire
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &CaptureError{HTTPStatus: resp.StatusCode, Body: err.Error()}
	}

	capture := out.firstCapture()
	if capture == nil || capture.Status != "COMPLETED" {
		status := ""
		if capture != nil {
			status = capture.Status
		}
		log.Printf("paypal capture not completed for %s: %s", providerOrderID, status)
		return nil, &CaptureError{HTTPStatus: resp.StatusCode, Status: status, Body: string(body)}
	}

	return &CaptureResult{
		OrderID:   out.ID,
		CaptureID: capture.ID,
		Status:    capture.Status,
		Amount:    capture.Amount,
	}, nil
}

func (c *Client) existingCapture(ctx context.Context, providerOrderID string) (*CaptureResult, error) {
	details, err := c.GetOrder(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if details.CaptureID == "" || details.CaptureStatus != "COMPLETED" {
		return nil, &CaptureError{Status: details.CaptureStatus, Body: "order reported captured but no completed capture found"}
	}
	return &CaptureResult{
		OrderID:         details.OrderID,
		CaptureID:       details.CaptureID,
		Status:          details.CaptureStatus,
		Amount:          details.Amount,
		AlreadyCaptured: true,
	}, nil
}

func (c *Client) GetOrder(ctx context.Context, providerOrderID string) (*OrderDetails, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v2/checkout/orders/"+providerOrderID, nil)
	if err != nil {
		return nil, &RequestError{Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{HTTPStatus: resp.StatusCode, Body: string(body)}
	}

	var out orderWire
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &RequestError{HTTPStatus: resp.StatusCode, Body: err.Error()}
	}

	details := &OrderDetails{OrderID: out.ID, Status: out.Status}
	if capture := out.firstCapture(); capture != nil {
		details.CaptureID = capture.ID
		details.CaptureStatus = capture.Status
		details.Amount = capture.Amount
	}
	return details, nil
}

// VerifyWebhookSignature authenticates an inbound webhook event against
// the provider. Returns false on any verification failure; errors talking
// to the provider are reported as false as well.
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers http.Header, event json.RawMessage, webhookID string) bool {
	token, err := c.accessToken(ctx)
	if err != nil {
		log.Printf("paypal webhook verify: token error: %v", err)
		return false
	}

	payload := map[string]any{
		"auth_algo":         headers.Get("Paypal-Auth-Algo"),
		"cert_id":           headers.Get("Paypal-Cert-Id"),
		"transmission_id":   headers.Get("Paypal-Transmission-Id"),
		"transmission_sig":  headers.Get("Paypal-Transmission-Sig"),
		"transmission_time": headers.Get("Paypal-Transmission-Time"),
		"webhook_id":        webhookID,
		"webhook_event":     event,
	}
	raw, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/notifications/verify-webhook-signature", bytes.NewReader(raw))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("paypal webhook verify: request error: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("paypal webhook verify: status %d", resp.StatusCode)
		return false
	}

	var out struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	return out.VerificationStatus == "SUCCESS"
}
