package services

import (
	"time"

	"chopchop-order-service/internal/domain"
)

func CreateMockAccommodation(id, qrCode string) *domain.Accommodation {
	return &domain.Accommodation{
		ID:     id,
		Name:   "Test Guesthouse",
		Area:   "GANGNAM",
		QRCode: qrCode,
	}
}

func CreateMockOrder(id, accommodationID string, totalAmount int64, status domain.OrderStatus, paymentStatus domain.PaymentStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		AccommodationID: accommodationID,
		TotalAmount:     totalAmount,
		DeliveryFee:     3000,
		Status:          status,
		PaymentMethod:   domain.MethodCash,
		PaymentStatus:   paymentStatus,
		CreatedAt:       time.Now(),
	}
}

const (
	TestAccommodationID = "acc-1"
	TestOrderID         = "order-1"
	TestQRCode          = "QR_TEST_001"
	TestMenuItemID      = "menu-1"
	TestOptionID        = "opt-1"
)
