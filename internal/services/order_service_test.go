package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chopchop-order-service/internal/config"
	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestService(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository, gateway *mocks.MockGateway, dispatcher *mocks.MockDispatcher) *OrderService {
	s := NewOrderService(orders, accommodations, menu, gateway, dispatcher, config.Default())
	s.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return s
}

func TestOrderService_SubmitOrder(t *testing.T) {
	tests := []struct {
		name             string
		input            SubmitOrderInput
		setupMocks       func(*mocks.MockOrderRepository, *mocks.MockAccommodationRepository, *mocks.MockMenuRepository)
		expectedErr      error
		expectPersisted  bool
		expectedDispatch int
		checkOrder       func(*testing.T, *domain.Order)
	}{
		{
			name: "cash order keeps pending state and splits delivery fee",
			input: SubmitOrderInput{
				Items:           []CartItem{{MenuItemID: TestMenuItemID, Quantity: 2, UnitPrice: 7500}},
				PaymentMethod:   domain.MethodCash,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: TestAccommodationID,
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindByID", TestAccommodationID).Return(CreateMockAccommodation(TestAccommodationID, TestQRCode), nil)
				orders.On("Create", mock.AnythingOfType("*domain.Order")).Return(nil)
				orders.On("FindByID", mock.Anything).Return(nil, nil)
			},
			expectPersisted: true,
			checkOrder: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, int64(15000), o.TotalAmount)
				assert.Equal(t, int64(3000), o.DeliveryFee)
				assert.Equal(t, domain.StatusPending, o.Status)
				assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
			},
		},
		{
			name: "paypal order with completed capture is confirmed and notified once",
			input: SubmitOrderInput{
				Items:           []CartItem{{MenuItemID: TestMenuItemID, Quantity: 1, UnitPrice: 15000}},
				PaymentMethod:   domain.MethodPaypal,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: TestAccommodationID,
				PaymentDetails:  &PaymentResult{Success: true, Status: "COMPLETED", OrderID: "PAY1", CaptureID: "CAP1"},
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindByID", TestAccommodationID).Return(CreateMockAccommodation(TestAccommodationID, TestQRCode), nil)
				orders.On("Create", mock.AnythingOfType("*domain.Order")).Return(nil)
				orders.On("FindByID", mock.Anything).Return(nil, nil)
			},
			expectPersisted:  true,
			expectedDispatch: 1,
			checkOrder: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.PaymentCompleted, o.PaymentStatus)
				assert.Equal(t, domain.StatusConfirmed, o.Status)
				assert.Equal(t, "PAY1", o.PaypalOrderID)
				assert.Equal(t, "CAP1", o.PaypalCaptureID)
			},
		},
		{
			name: "paypal order without completed capture stays pending",
			input: SubmitOrderInput{
				Items:           []CartItem{{MenuItemID: TestMenuItemID, Quantity: 1, UnitPrice: 15000}},
				PaymentMethod:   domain.MethodPaypal,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: TestAccommodationID,
				PaymentDetails:  &PaymentResult{Success: false, Status: "PENDING"},
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindByID", TestAccommodationID).Return(CreateMockAccommodation(TestAccommodationID, TestQRCode), nil)
				orders.On("Create", mock.AnythingOfType("*domain.Order")).Return(nil)
				orders.On("FindByID", mock.Anything).Return(nil, nil)
			},
			expectPersisted: true,
			checkOrder: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
				assert.Equal(t, domain.StatusPending, o.Status)
			},
		},
		{
			name: "empty cart is rejected before any write",
			input: SubmitOrderInput{
				Items:           nil,
				PaymentMethod:   domain.MethodCash,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: TestAccommodationID,
			},
			setupMocks:  func(*mocks.MockOrderRepository, *mocks.MockAccommodationRepository, *mocks.MockMenuRepository) {},
			expectedErr: ErrEmptyCart,
		},
		{
			name: "unknown accommodation id is rejected",
			input: SubmitOrderInput{
				Items:           []CartItem{{MenuItemID: TestMenuItemID, Quantity: 1, UnitPrice: 15000}},
				PaymentMethod:   domain.MethodCash,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: "missing",
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindByID", "missing").Return(nil, nil)
			},
			expectedErr: ErrInvalidAccommodation,
		},
		{
			name: "missing accommodation id falls back to first accommodation",
			input: SubmitOrderInput{
				Items:         []CartItem{{MenuItemID: TestMenuItemID, Quantity: 1, UnitPrice: 15000}},
				PaymentMethod: domain.MethodCash,
				Total:         18000,
				DeliveryFee:   3000,
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindFirst").Return(CreateMockAccommodation("acc-first", TestQRCode), nil)
				orders.On("Create", mock.AnythingOfType("*domain.Order")).Return(nil)
				orders.On("FindByID", mock.Anything).Return(nil, nil)
			},
			expectPersisted: true,
			checkOrder: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, "acc-first", o.AccommodationID)
			},
		},
		{
			name: "option selections snapshot the live option price",
			input: SubmitOrderInput{
				Items: []CartItem{{
					MenuItemID:        TestMenuItemID,
					Quantity:          1,
					UnitPrice:         15000,
					SelectedOptionIDs: []string{TestOptionID},
				}},
				PaymentMethod:   domain.MethodCash,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: TestAccommodationID,
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindByID", TestAccommodationID).Return(CreateMockAccommodation(TestAccommodationID, TestQRCode), nil)
				menu.On("FindOptionsByIDs", []string{TestOptionID}).Return([]domain.MenuOption{{ID: TestOptionID, Price: 500}}, nil)
				orders.On("Create", mock.AnythingOfType("*domain.Order")).Return(nil)
				orders.On("FindByID", mock.Anything).Return(nil, nil)
			},
			expectPersisted: true,
			checkOrder: func(t *testing.T, o *domain.Order) {
				if assert.Len(t, o.OrderItems, 1) && assert.Len(t, o.OrderItems[0].OptionSelections, 1) {
					sel := o.OrderItems[0].OptionSelections[0]
					assert.Equal(t, TestOptionID, sel.MenuOptionID)
					assert.Equal(t, int64(500), sel.UnitPrice)
				}
			},
		},
		{
			name: "storage failure surfaces as persistence error",
			input: SubmitOrderInput{
				Items:           []CartItem{{MenuItemID: TestMenuItemID, Quantity: 1, UnitPrice: 15000}},
				PaymentMethod:   domain.MethodCash,
				Total:           18000,
				DeliveryFee:     3000,
				AccommodationID: TestAccommodationID,
			},
			setupMocks: func(orders *mocks.MockOrderRepository, accommodations *mocks.MockAccommodationRepository, menu *mocks.MockMenuRepository) {
				accommodations.On("FindByID", TestAccommodationID).Return(CreateMockAccommodation(TestAccommodationID, TestQRCode), nil)
				orders.On("Create", mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(mocks.MockOrderRepository)
			accommodations := new(mocks.MockAccommodationRepository)
			menu := new(mocks.MockMenuRepository)
			gateway := new(mocks.MockGateway)
			dispatcher := new(mocks.MockDispatcher)
			tt.setupMocks(orders, accommodations, menu)

			s := newTestService(orders, accommodations, menu, gateway, dispatcher)
			order, err := s.SubmitOrder(context.Background(), tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, order)
				orders.AssertNotCalled(t, "Create", mock.Anything)
			} else if !tt.expectPersisted {
				var pe *PersistenceError
				assert.ErrorAs(t, err, &pe)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				if assert.NotNil(t, order) && tt.checkOrder != nil {
					tt.checkOrder(t, order)
				}
			}

			assert.Equal(t, tt.expectedDispatch, dispatcher.Count())
		})
	}
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	tests := []struct {
		name             string
		orderID          string
		paymentStatus    domain.PaymentStatus
		captureID        string
		setupMocks       func(*mocks.MockOrderRepository)
		expectedErr      error
		expectedStatus   domain.OrderStatus
		expectedDispatch int
	}{
		{
			name:          "completed promotes order to confirmed and notifies",
			orderID:       TestOrderID,
			paymentStatus: domain.PaymentCompleted,
			captureID:     "CAP1",
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindByID", TestOrderID).Return(CreateMockOrder(TestOrderID, TestAccommodationID, 15000, domain.StatusPending, domain.PaymentPending), nil)
				orders.On("Update", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedStatus:   domain.StatusConfirmed,
			expectedDispatch: 1,
		},
		{
			name:          "repeating the same capture does not notify again",
			orderID:       TestOrderID,
			paymentStatus: domain.PaymentCompleted,
			captureID:     "CAP1",
			setupMocks: func(orders *mocks.MockOrderRepository) {
				existing := CreateMockOrder(TestOrderID, TestAccommodationID, 15000, domain.StatusConfirmed, domain.PaymentCompleted)
				existing.PaypalCaptureID = "CAP1"
				orders.On("FindByID", TestOrderID).Return(existing, nil)
				orders.On("Update", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedStatus:   domain.StatusConfirmed,
			expectedDispatch: 0,
		},
		{
			name:          "failed cancels the order without notifying",
			orderID:       TestOrderID,
			paymentStatus: domain.PaymentFailed,
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindByID", TestOrderID).Return(CreateMockOrder(TestOrderID, TestAccommodationID, 15000, domain.StatusPending, domain.PaymentPending), nil)
				orders.On("Update", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedStatus:   domain.StatusCancelled,
			expectedDispatch: 0,
		},
		{
			name:          "pending leaves order status untouched",
			orderID:       TestOrderID,
			paymentStatus: domain.PaymentPending,
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindByID", TestOrderID).Return(CreateMockOrder(TestOrderID, TestAccommodationID, 15000, domain.StatusPending, domain.PaymentPending), nil)
				orders.On("Update", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedStatus: domain.StatusPending,
		},
		{
			name:          "unknown order id",
			orderID:       "missing",
			paymentStatus: domain.PaymentCompleted,
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindByID", "missing").Return(nil, nil)
			},
			expectedErr: ErrOrderNotFound,
		},
		{
			name:          "invalid payment status value",
			orderID:       TestOrderID,
			paymentStatus: domain.PaymentStatus("BOGUS"),
			setupMocks:    func(*mocks.MockOrderRepository) {},
			expectedErr:   ErrInvalidPaymentStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(mocks.MockOrderRepository)
			dispatcher := new(mocks.MockDispatcher)
			tt.setupMocks(orders)

			s := newTestService(orders, new(mocks.MockAccommodationRepository), new(mocks.MockMenuRepository), new(mocks.MockGateway), dispatcher)
			order, err := s.UpdatePaymentStatus(context.Background(), tt.orderID, tt.paymentStatus, "", tt.captureID, nil)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				orders.AssertNotCalled(t, "Update", mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.paymentStatus, order.PaymentStatus)
				assert.Equal(t, tt.expectedStatus, order.Status)
			}
			assert.Equal(t, tt.expectedDispatch, dispatcher.Count())
		})
	}
}

// Settlement invariant: COMPLETED never leaves an order PENDING or
// CANCELLED, FAILED always cancels.
func TestOrderService_PaymentTransitionConsistency(t *testing.T) {
	for _, ps := range []domain.PaymentStatus{domain.PaymentCompleted, domain.PaymentFailed} {
		orders := new(mocks.MockOrderRepository)
		orders.On("FindByID", TestOrderID).Return(CreateMockOrder(TestOrderID, TestAccommodationID, 15000, domain.StatusPending, domain.PaymentPending), nil)
		orders.On("Update", mock.AnythingOfType("*domain.Order")).Return(nil)

		s := newTestService(orders, new(mocks.MockAccommodationRepository), new(mocks.MockMenuRepository), new(mocks.MockGateway), new(mocks.MockDispatcher))
		order, err := s.UpdatePaymentStatus(context.Background(), TestOrderID, ps, "", "CAPX", nil)
		assert.NoError(t, err)

		if ps == domain.PaymentCompleted {
			assert.NotEqual(t, domain.StatusPending, order.Status)
			assert.NotEqual(t, domain.StatusCancelled, order.Status)
		} else {
			assert.Equal(t, domain.StatusCancelled, order.Status)
		}
	}
}

func TestOrderService_ListOrders_UsesServiceWindow(t *testing.T) {
	orders := new(mocks.MockOrderRepository)
	loc := time.UTC
	// Clock fixed at 12:00: the window must be [today 11:00, tomorrow 00:00).
	wantFrom := time.Date(2026, 8, 28, 11, 0, 0, 0, loc)
	wantTo := time.Date(2026, 8, 29, 0, 0, 0, 0, loc)
	orders.On("FindInWindow", wantFrom, wantTo, TestAccommodationID).Return([]domain.Order{}, nil)

	s := newTestService(orders, new(mocks.MockAccommodationRepository), new(mocks.MockMenuRepository), new(mocks.MockGateway), new(mocks.MockDispatcher))
	_, err := s.ListOrders(context.Background(), TestAccommodationID)
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}
