package domain

import "time"

// OrderCompletedEvent is the payload published to the message broker when an
// order's payment settles.
type OrderCompletedEvent struct {
	OrderID         string        `json:"orderId"`
	AccommodationID string        `json:"accommodationId"`
	TotalAmount     int64         `json:"totalAmount"`
	DeliveryFee     int64         `json:"deliveryFee"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	CreatedAt       time.Time     `json:"createdAt"`
}
