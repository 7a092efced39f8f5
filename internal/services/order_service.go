package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"chopchop-order-service/internal/config"
	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/infra/notify"
	"chopchop-order-service/internal/infra/paypal"
	"chopchop-order-service/internal/repository"

	"github.com/google/uuid"
)

// OrderService owns the order lifecycle from cart submission through
// payment settlement, keeping local state consistent with the payment
// provider's.
type OrderService struct {
	orders         repository.OrderRepository
	accommodations repository.AccommodationRepository
	menu           repository.MenuRepository
	gateway        paypal.GatewayInterface
	notifier       notify.DispatcherInterface
	cfg            config.Config

	now   func() time.Time
	newID func() string
}

func NewOrderService(
	orders repository.OrderRepository,
	accommodations repository.AccommodationRepository,
	menu repository.MenuRepository,
	gateway paypal.GatewayInterface,
	notifier notify.DispatcherInterface,
	cfg config.Config,
) *OrderService {
	return &OrderService{
		orders:         orders,
		accommodations: accommodations,
		menu:           menu,
		gateway:        gateway,
		notifier:       notifier,
		cfg:            cfg,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

type CartItem struct {
	MenuItemID        string
	Quantity          int
	UnitPrice         int64
	SelectedOptionIDs []string
}

// PaymentResult is the client-reported outcome of a provider-side capture,
// carried on submit when the capture happened before the order was
// persisted.
type PaymentResult struct {
	Success   bool
	Status    string
	OrderID   string
	CaptureID string
	Raw       json.RawMessage
}

type SubmitOrderInput struct {
	Items           []CartItem
	PaymentMethod   domain.PaymentMethod
	Notes           string
	Total           int64
	DeliveryFee     int64
	AccommodationID string
	PaymentDetails  *PaymentResult
}

// SubmitOrder validates the cart, persists the order with its nested items
// and option snapshots, and when the payment already settled promotes it
// to CONFIRMED and queues a notification.
func (s *OrderService) SubmitOrder(ctx context.Context, in SubmitOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	accommodation, err := s.resolveAccommodation(in.AccommodationID)
	if err != nil {
		return nil, err
	}

	optionPrices, err := s.optionPrices(in.Items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              s.newID(),
		AccommodationID: accommodation.ID,
		TotalAmount:     in.Total - in.DeliveryFee,
		DeliveryFee:     in.DeliveryFee,
		Status:          domain.StatusPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		Notes:           in.Notes,
		CreatedAt:       s.now(),
	}

	for _, item := range in.Items {
		oi := domain.OrderItem{
			ID:         s.newID(),
			OrderID:    order.ID,
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
		for _, optionID := range item.SelectedOptionIDs {
			price, ok := optionPrices[optionID]
			if !ok {
				log.Printf("unknown menu option %s on order %s, skipping", optionID, order.ID)
				continue
			}
			oi.OptionSelections = append(oi.OptionSelections, domain.OrderOptionSelection{
				ID:           s.newID(),
				OrderItemID:  oi.ID,
				MenuOptionID: optionID,
				UnitPrice:    price,
			})
		}
		order.OrderItems = append(order.OrderItems, oi)
	}

	if in.PaymentMethod == domain.MethodPaypal && in.PaymentDetails != nil &&
		in.PaymentDetails.Success && in.PaymentDetails.Status == "COMPLETED" {
		order.PaymentStatus = domain.PaymentCompleted
		order.Status = domain.StatusConfirmed
		order.PaypalOrderID = in.PaymentDetails.OrderID
		order.PaypalCaptureID = in.PaymentDetails.CaptureID
		if len(in.PaymentDetails.Raw) > 0 {
			order.PaymentDetails = string(in.PaymentDetails.Raw)
		}
	}

	if err := s.orders.Create(order); err != nil {
		return nil, &PersistenceError{Op: "create order", Err: err}
	}

	created, err := s.orders.FindByID(order.ID)
	if err != nil || created == nil {
		// The row exists; serve the in-memory copy if the reload failed.
		log.Printf("order %s created but reload failed: %v", order.ID, err)
		created = order
	}

	if created.PaymentStatus == domain.PaymentCompleted {
		s.notifier.Dispatch(created)
	}

	log.Printf("order %s submitted: %s/%s, %d KRW + %d delivery",
		created.ID, created.Status, created.PaymentStatus, created.TotalAmount, created.DeliveryFee)
	return created, nil
}

func (s *OrderService) resolveAccommodation(id string) (*domain.Accommodation, error) {
	if id != "" {
		a, err := s.accommodations.FindByID(id)
		if err != nil {
			return nil, &PersistenceError{Op: "find accommodation", Err: err}
		}
		if a == nil {
			return nil, ErrInvalidAccommodation
		}
		return a, nil
	}

	// Development-mode fallback: no session binding yet, pick the oldest
	// accommodation. TODO: require an accommodation id once the QR session
	// flow carries it through checkout.
	a, err := s.accommodations.FindFirst()
	if err != nil {
		return nil, &PersistenceError{Op: "find accommodation", Err: err}
	}
	if a == nil {
		return nil, ErrInvalidAccommodation
	}
	return a, nil
}

func (s *OrderService) optionPrices(items []CartItem) (map[string]int64, error) {
	var ids []string
	for _, item := range items {
		ids = append(ids, item.SelectedOptionIDs...)
	}
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}
	options, err := s.menu.FindOptionsByIDs(ids)
	if err != nil {
		return nil, &PersistenceError{Op: "find menu options", Err: err}
	}
	prices := make(map[string]int64, len(options))
	for _, opt := range options {
		prices[opt.ID] = opt.Price
	}
	return prices, nil
}

// UpdatePaymentStatus applies a settlement outcome to an order. COMPLETED
// promotes the order to CONFIRMED, FAILED cancels it. Re-applying an
// identical COMPLETED payload is a no-op overwrite; the notification fires
// only when the capture identifier actually changes.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID string, paymentStatus domain.PaymentStatus, paypalOrderID, paypalCaptureID string, details json.RawMessage) (*domain.Order, error) {
	if !paymentStatus.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, &PersistenceError{Op: "find order", Err: err}
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	captureChanged := paypalCaptureID != "" && paypalCaptureID != order.PaypalCaptureID

	order.PaymentStatus = paymentStatus
	if paypalOrderID != "" {
		order.PaypalOrderID = paypalOrderID
	}
	if paypalCaptureID != "" {
		order.PaypalCaptureID = paypalCaptureID
	}
	if len(details) > 0 {
		order.PaymentDetails = string(details)
	}

	switch paymentStatus {
	case domain.PaymentCompleted:
		order.Status = domain.StatusConfirmed
	case domain.PaymentFailed:
		order.Status = domain.StatusCancelled
	}

	if err := s.orders.Update(order); err != nil {
		return nil, &PersistenceError{Op: "update order", Err: err}
	}

	log.Printf("order %s payment status -> %s", orderID, paymentStatus)

	if paymentStatus == domain.PaymentCompleted && captureChanged {
		s.notifier.Dispatch(order)
	}
	return order, nil
}

// UpdateOrderStatus moves an order through its delivery lifecycle without
// touching payment state.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, &PersistenceError{Op: "find order", Err: err}
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	order.Status = status
	if err := s.orders.Update(order); err != nil {
		return nil, &PersistenceError{Op: "update order", Err: err}
	}
	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, &PersistenceError{Op: "find order", Err: err}
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the current service period's orders, newest first,
// optionally filtered to one accommodation.
func (s *OrderService) ListOrders(ctx context.Context, accommodationID string) ([]domain.Order, error) {
	from, to := ServiceWindow(s.now(), s.cfg.ServiceOpenHour, s.cfg.ServiceCarryHour)
	orders, err := s.orders.FindInWindow(from, to, accommodationID)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return orders, nil
}

func (s *OrderService) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	stats, err := s.orders.Stats()
	if err != nil {
		return nil, &PersistenceError{Op: "order stats", Err: err}
	}
	return stats, nil
}

func (s *OrderService) GetAccommodationByQRCode(ctx context.Context, qrCode string) (*domain.Accommodation, error) {
	a, err := s.accommodations.FindByQRCode(qrCode)
	if err != nil {
		return nil, &PersistenceError{Op: "find accommodation", Err: err}
	}
	if a == nil {
		return nil, ErrAccommodationNotFound
	}
	return a, nil
}
