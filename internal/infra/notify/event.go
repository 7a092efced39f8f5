package notify

import (
	"context"

	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/infra/rabbitmq"
)

// EventChannel publishes completed orders onto the message broker so
// downstream consumers (kitchen display, analytics) can react.
type EventChannel struct {
	publisher rabbitmq.PublisherInterface
}

func NewEventChannel(publisher rabbitmq.PublisherInterface) *EventChannel {
	return &EventChannel{publisher: publisher}
}

func (c *EventChannel) Name() string { return "amqp" }

func (c *EventChannel) Send(ctx context.Context, order *domain.Order) error {
	evt := domain.OrderCompletedEvent{
		OrderID:         order.ID,
		AccommodationID: order.AccommodationID,
		TotalAmount:     order.TotalAmount,
		DeliveryFee:     order.DeliveryFee,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		CreatedAt:       order.CreatedAt,
	}
	return c.publisher.Publish(ctx, "order.completed", evt)
}
