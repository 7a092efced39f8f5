package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusDelivered OrderStatus = "DELIVERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusDelivered:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodPaypal PaymentMethod = "paypal"
	MethodCash   PaymentMethod = "cash"
)

// Order is one customer purchase. TotalAmount excludes the delivery fee;
// both are whole KRW. PaypalCaptureID is set at most once per order.
type Order struct {
	ID              string        `json:"id" gorm:"primaryKey;size:36"`
	AccommodationID string        `json:"accommodationId" gorm:"size:36;not null;index"`
	TotalAmount     int64         `json:"totalAmount" gorm:"not null"`
	DeliveryFee     int64         `json:"deliveryFee" gorm:"not null"`
	Status          OrderStatus   `json:"status" gorm:"type:enum('PENDING','CONFIRMED','CANCELLED','DELIVERED');default:'PENDING'"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" gorm:"size:16;not null"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"type:enum('PENDING','COMPLETED','FAILED');default:'PENDING'"`
	PaypalOrderID   string        `json:"paypalOrderId,omitempty" gorm:"size:64;index"`
	PaypalCaptureID string        `json:"paypalCaptureId,omitempty" gorm:"size:64"`
	PaymentDetails  string        `json:"paymentDetails,omitempty" gorm:"type:text"`
	Notes           string        `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`

	OrderItems    []OrderItem    `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Accommodation *Accommodation `json:"accommodation,omitempty" gorm:"foreignKey:AccommodationID"`
}

// OrderItem snapshots UnitPrice at order time so later menu price edits do
// not rewrite order history.
type OrderItem struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string `json:"orderId" gorm:"size:36;not null;index"`
	MenuItemID string `json:"menuItemId" gorm:"size:36;not null"`
	Quantity   int    `json:"quantity" gorm:"not null"`
	UnitPrice  int64  `json:"unitPrice" gorm:"not null"`

	MenuItem         *MenuItem              `json:"menuItem,omitempty" gorm:"foreignKey:MenuItemID"`
	OptionSelections []OrderOptionSelection `json:"optionSelections" gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

// OrderOptionSelection carries its own UnitPrice snapshot; the live
// MenuOption price may change after the order is placed.
type OrderOptionSelection struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	OrderItemID  string `json:"orderItemId" gorm:"size:36;not null;index"`
	MenuOptionID string `json:"menuOptionId" gorm:"size:36;not null"`
	UnitPrice    int64  `json:"unitPrice" gorm:"not null"`

	MenuOption *MenuOption `json:"menuOption,omitempty" gorm:"foreignKey:MenuOptionID"`
}

type OrderStats struct {
	TotalOrders     int64 `json:"totalOrders"`
	PendingOrders   int64 `json:"pendingOrders"`
	CompletedOrders int64 `json:"completedOrders"`
	TotalRevenue    int64 `json:"totalRevenue"`
}
