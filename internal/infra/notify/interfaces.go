package notify

import "chopchop-order-service/internal/domain"

type DispatcherInterface interface {
	Dispatch(order *domain.Order)
}

var _ DispatcherInterface = (*Dispatcher)(nil)
