package mocks

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/infra/paypal"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(id string) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaypalOrderID(paypalOrderID string) (*domain.Order, error) {
	args := m.Called(paypalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindInWindow(from, to time.Time, accommodationID string) ([]domain.Order, error) {
	args := m.Called(from, to, accommodationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPendingPaypalBefore(cutoff time.Time) ([]domain.Order, error) {
	args := m.Called(cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Stats() (*domain.OrderStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderStats), args.Error(1)
}

type MockAccommodationRepository struct {
	mock.Mock
}

func (m *MockAccommodationRepository) FindByID(id string) (*domain.Accommodation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}

func (m *MockAccommodationRepository) FindByQRCode(qrCode string) (*domain.Accommodation, error) {
	args := m.Called(qrCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}

func (m *MockAccommodationRepository) FindFirst() (*domain.Accommodation, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}

type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) FindOptionsByIDs(ids []string) ([]domain.MenuOption, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuOption), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amountUSD float64, currency string) (string, error) {
	args := m.Called(ctx, amountUSD, currency)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CaptureOrder(ctx context.Context, providerOrderID string) (*paypal.CaptureResult, error) {
	args := m.Called(ctx, providerOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.CaptureResult), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, providerOrderID string) (*paypal.OrderDetails, error) {
	args := m.Called(ctx, providerOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.OrderDetails), args.Error(1)
}

func (m *MockGateway) VerifyWebhookSignature(ctx context.Context, headers http.Header, event json.RawMessage, webhookID string) bool {
	args := m.Called(ctx, headers, event, webhookID)
	return args.Bool(0)
}

// MockDispatcher records every dispatched order; tests assert on exact
// notification counts.
type MockDispatcher struct {
	mu     sync.Mutex
	Orders []*domain.Order
}

func (m *MockDispatcher) Dispatch(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders = append(m.Orders, order)
}

func (m *MockDispatcher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Orders)
}
