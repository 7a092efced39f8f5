package services

import (
	"context"
	"encoding/json"
	"log"

	"chopchop-order-service/internal/domain"
)

type WebhookResource struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	SupplementaryData *struct {
		RelatedIDs *struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
}

type WebhookEvent struct {
	EventType string          `json:"event_type"`
	Resource  WebhookResource `json:"resource"`
	Raw       json.RawMessage `json:"-"`
}

func (r *WebhookResource) relatedOrderID() string {
	if r.SupplementaryData != nil && r.SupplementaryData.RelatedIDs != nil {
		return r.SupplementaryData.RelatedIDs.OrderID
	}
	return ""
}

// HandleWebhookEvent applies a provider webhook to local order state.
// Events that reference no known order are logged and acknowledged; the
// provider retries on failure responses and an unknown order is not a
// condition a retry can fix.
func (s *OrderService) HandleWebhookEvent(ctx context.Context, event WebhookEvent) error {
	log.Printf("paypal webhook received: %s", event.EventType)

	switch event.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		return s.applyCaptureOutcome(ctx, event, domain.PaymentCompleted)

	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.FAILED":
		return s.applyCaptureOutcome(ctx, event, domain.PaymentFailed)

	case "CHECKOUT.ORDER.APPROVED", "CHECKOUT.ORDER.COMPLETED":
		log.Printf("checkout event for provider order %s, no state change", event.Resource.ID)
		return nil

	default:
		log.Printf("unhandled webhook event: %s", event.EventType)
		return nil
	}
}

func (s *OrderService) applyCaptureOutcome(ctx context.Context, event WebhookEvent, outcome domain.PaymentStatus) error {
	providerOrderID := event.Resource.relatedOrderID()
	if providerOrderID == "" {
		log.Printf("no provider order id in %s event, ignoring", event.EventType)
		return nil
	}

	order, err := s.orders.FindByPaypalOrderID(providerOrderID)
	if err != nil {
		return &PersistenceError{Op: "find order by provider id", Err: err}
	}
	if order == nil {
		log.Printf("no order matches provider order %s, ignoring %s", providerOrderID, event.EventType)
		return nil
	}

	captureID := ""
	if outcome == domain.PaymentCompleted {
		// For capture events the resource id is the capture id.
		captureID = event.Resource.ID
	}

	_, err = s.UpdatePaymentStatus(ctx, order.ID, outcome, providerOrderID, captureID, event.Raw)
	return err
}
