package notify

import (
	"context"
	"log"
	"time"

	"chopchop-order-service/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Channel is one delivery target for an order notification.
type Channel interface {
	Name() string
	Send(ctx context.Context, order *domain.Order) error
}

// Dispatcher hands completed orders to a background consumer which fans
// them out to every configured channel. Delivery is best-effort and
// at-most-once: failures are logged, never retried, never surfaced.
type Dispatcher struct {
	channels    []Channel
	queue       chan *domain.Order
	sendTimeout time.Duration
}

func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels:    channels,
		queue:       make(chan *domain.Order, 64),
		sendTimeout: 10 * time.Second,
	}
}

// Start runs the consumer until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case order := <-d.queue:
				d.fanOut(ctx, order)
			}
		}
	}()
}

// Dispatch enqueues without blocking. A full queue drops the notification
// with a log line; the parent operation must never stall on this path.
func (d *Dispatcher) Dispatch(order *domain.Order) {
	select {
	case d.queue <- order:
	default:
		log.Printf("notification queue full, dropping order %s", order.ID)
	}
}

func (d *Dispatcher) fanOut(ctx context.Context, order *domain.Order) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(sendCtx)
	for _, ch := range d.channels {
		ch := ch
		g.Go(func() error {
			if err := ch.Send(gctx, order); err != nil {
				log.Printf("notification via %s failed for order %s: %v", ch.Name(), order.ID, err)
			}
			// Failures stay inside the fan-out.
			return nil
		})
	}
	_ = g.Wait()
	log.Printf("notifications dispatched for order %s (%d channels)", order.ID, len(d.channels))
}
