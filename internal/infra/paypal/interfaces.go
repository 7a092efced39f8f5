package paypal

import (
	"context"
	"encoding/json"
	"net/http"
)

type GatewayInterface interface {
	CreateOrder(ctx context.Context, amountUSD float64, currency string) (string, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (*CaptureResult, error)
	GetOrder(ctx context.Context, providerOrderID string) (*OrderDetails, error)
	VerifyWebhookSignature(ctx context.Context, headers http.Header, event json.RawMessage, webhookID string) bool
}

var _ GatewayInterface = (*Client)(nil)
