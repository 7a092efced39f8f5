package http

import "encoding/json"

type cartItemRequest struct {
	MenuItemID        string   `json:"menuItemId" binding:"required"`
	Quantity          int      `json:"quantity" binding:"required,min=1"`
	UnitPrice         int64    `json:"unitPrice" binding:"required,min=0"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
}

type paymentDetailsRequest struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	OrderID   string `json:"orderID"`
	CaptureID string `json:"captureID"`
}

type createOrderRequest struct {
	Items           []cartItemRequest      `json:"items" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required,oneof=card paypal cash"`
	Notes           string                 `json:"notes"`
	Total           int64                  `json:"total" binding:"required,min=1"`
	DeliveryFee     int64                  `json:"deliveryFee" binding:"min=0"`
	AccommodationID string                 `json:"accommodationId"`
	PaymentDetails  *paymentDetailsRequest `json:"paymentDetails"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus   string          `json:"paymentStatus" binding:"required"`
	PaypalOrderID   string          `json:"paypalOrderId"`
	PaypalCaptureID string          `json:"paypalCaptureId"`
	PaymentDetails  json.RawMessage `json:"paymentDetails"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type createPaypalOrderRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

type capturePaypalOrderRequest struct {
	OrderID string `json:"orderID" binding:"required"`
}
