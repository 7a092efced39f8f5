package services

import (
	"context"
	"log"

	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/infra/paypal"
)

// CaptureAndReconcile captures a provider order and, when a local order
// references it, persists the settlement in the same call. Capture and
// local update used to be two client-driven round trips; folding them
// together removes the window where a captured payment had no local
// record of it.
func (s *OrderService) CaptureAndReconcile(ctx context.Context, providerOrderID string) (*paypal.CaptureResult, *domain.Order, error) {
	result, err := s.gateway.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.orders.FindByPaypalOrderID(providerOrderID)
	if err != nil {
		return result, nil, &PersistenceError{Op: "find order by provider id", Err: err}
	}
	if order == nil {
		// The client captures before submitting the cart, so no local
		// order yet is the normal first-capture path.
		log.Printf("captured provider order %s with no local order yet", providerOrderID)
		return result, nil, nil
	}

	updated, err := s.UpdatePaymentStatus(ctx, order.ID, domain.PaymentCompleted, result.OrderID, result.CaptureID, nil)
	if err != nil {
		return result, nil, err
	}
	return result, updated, nil
}

// ReconcilePendingPayments sweeps paypal orders stuck at PENDING longer
// than the configured threshold and settles them from the provider's view.
// Covers captures whose synchronous confirmation was lost and webhooks
// that never arrived. Returns the number of orders it transitioned.
func (s *OrderService) ReconcilePendingPayments(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.cfg.ReconcileAfter)
	stuck, err := s.orders.FindPendingPaypalBefore(cutoff)
	if err != nil {
		return 0, &PersistenceError{Op: "find pending paypal orders", Err: err}
	}

	updated := 0
	for i := range stuck {
		order := &stuck[i]
		details, err := s.gateway.GetOrder(ctx, order.PaypalOrderID)
		if err != nil {
			log.Printf("reconcile: lookup of provider order %s failed: %v", order.PaypalOrderID, err)
			continue
		}

		switch details.CaptureStatus {
		case "COMPLETED":
			if _, err := s.UpdatePaymentStatus(ctx, order.ID, domain.PaymentCompleted, details.OrderID, details.CaptureID, nil); err != nil {
				log.Printf("reconcile: update of order %s failed: %v", order.ID, err)
				continue
			}
			updated++
		case "DECLINED", "FAILED":
			if _, err := s.UpdatePaymentStatus(ctx, order.ID, domain.PaymentFailed, details.OrderID, "", nil); err != nil {
				log.Printf("reconcile: update of order %s failed: %v", order.ID, err)
				continue
			}
			updated++
		default:
			// Still awaiting capture on the provider side, leave it.
		}
	}

	if updated > 0 {
		log.Printf("reconcile sweep settled %d of %d pending paypal orders", updated, len(stuck))
	}
	return updated, nil
}
