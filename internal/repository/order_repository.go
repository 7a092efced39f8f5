package repository

import (
	"time"

	"chopchop-order-service/internal/domain"
)

// Find methods return (nil, nil) when no row matches.
type OrderRepository interface {
	Create(order *domain.Order) error
	Update(order *domain.Order) error
	FindByID(id string) (*domain.Order, error)
	FindByPaypalOrderID(paypalOrderID string) (*domain.Order, error)
	FindInWindow(from, to time.Time, accommodationID string) ([]domain.Order, error)
	FindPendingPaypalBefore(cutoff time.Time) ([]domain.Order, error)
	Stats() (*domain.OrderStats, error)
}

type AccommodationRepository interface {
	FindByID(id string) (*domain.Accommodation, error)
	FindByQRCode(qrCode string) (*domain.Accommodation, error)
	FindFirst() (*domain.Accommodation, error)
}

type MenuRepository interface {
	FindOptionsByIDs(ids []string) ([]domain.MenuOption, error)
}
