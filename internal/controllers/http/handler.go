package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"chopchop-order-service/internal/config"
	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/infra/exchange"
	"chopchop-order-service/internal/infra/paypal"
	"chopchop-order-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const ordersCacheTTL = 10 * time.Second

type Handler struct {
	service *services.OrderService
	gateway paypal.GatewayInterface
	rates   *exchange.RateCache
	rdb     *redis.Client
	cfg     config.Config
}

func NewHandler(s *services.OrderService, gateway paypal.GatewayInterface, rates *exchange.RateCache, rdb *redis.Client, cfg config.Config) *Handler {
	return &Handler{service: s, gateway: gateway, rates: rates, rdb: rdb, cfg: cfg}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/stats", h.OrderStats)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	r.PATCH("/orders/:id/payment-status", h.UpdatePaymentStatus)
	r.POST("/paypal/create-order", h.CreatePaypalOrder)
	r.POST("/paypal/capture-order", h.CapturePaypalOrder)
	r.POST("/paypal/webhook", h.PaypalWebhook)
	r.GET("/exchange-rate", h.ExchangeRate)
	r.GET("/accommodations/:qrCode", h.AccommodationByQR)
}

func statusFor(err error) int {
	var gatewayAuth *paypal.AuthError
	var gatewayReq *paypal.RequestError
	var gatewayCap *paypal.CaptureError
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidAccommodation),
		errors.Is(err, services.ErrInvalidPaymentStatus),
		errors.Is(err, services.ErrInvalidOrderStatus):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAccommodationNotFound):
		return http.StatusNotFound
	case errors.As(err, &gatewayAuth), errors.As(err, &gatewayReq), errors.As(err, &gatewayCap):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.SubmitOrderInput{
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
		Total:           req.Total,
		DeliveryFee:     req.DeliveryFee,
		AccommodationID: req.AccommodationID,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, services.CartItem{
			MenuItemID:        item.MenuItemID,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			SelectedOptionIDs: item.SelectedOptionIDs,
		})
	}
	if req.PaymentDetails != nil {
		raw, _ := json.Marshal(req.PaymentDetails)
		in.PaymentDetails = &services.PaymentResult{
			Success:   req.PaymentDetails.Success,
			Status:    req.PaymentDetails.Status,
			OrderID:   req.PaymentDetails.OrderID,
			CaptureID: req.PaymentDetails.CaptureID,
			Raw:       raw,
		}
	}

	order, err := h.service.SubmitOrder(c.Request.Context(), in)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.invalidateOrdersCache(order.AccommodationID)
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	accommodationID := c.Query("accommodationId")
	cacheKey := "orders:window:" + accommodationID

	ctx := c.Request.Context()
	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var orders []domain.Order
			if json.Unmarshal([]byte(b), &orders) == nil {
				c.JSON(http.StatusOK, orders)
				return
			}
		}
	}

	orders, err := h.service.ListOrders(ctx, accommodationID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.rdb.Set(ctx, cacheKey, data, ordersCacheTTL)
		}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.service.OrderStats(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	h.invalidateOrdersCache(order.AccommodationID)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.service.UpdatePaymentStatus(
		c.Request.Context(),
		c.Param("id"),
		domain.PaymentStatus(req.PaymentStatus),
		req.PaypalOrderID,
		req.PaypalCaptureID,
		req.PaymentDetails,
	)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	h.invalidateOrdersCache(order.AccommodationID)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CreatePaypalOrder(c *gin.Context) {
	var req createPaypalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	id, err := h.gateway.CreateOrder(c.Request.Context(), req.Amount, currency)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) CapturePaypalOrder(c *gin.Context) {
	var req capturePaypalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, order, err := h.service.CaptureAndReconcile(c.Request.Context(), req.OrderID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"success":   true,
		"orderID":   result.OrderID,
		"captureID": result.CaptureID,
		"status":    result.Status,
		"amount":    result.Amount,
	}
	if result.AlreadyCaptured {
		resp["alreadyCaptured"] = true
	}
	if order != nil {
		h.invalidateOrdersCache(order.AccommodationID)
		resp["order"] = order
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PaypalWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var event services.WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}
	event.Raw = raw

	// Signature verification is mandatory against the live environment;
	// sandbox events are trusted as-is.
	if h.cfg.PayPal.Environment == "live" && h.cfg.PayPal.WebhookID != "" {
		if !h.gateway.VerifyWebhookSignature(c.Request.Context(), c.Request.Header, raw, h.cfg.PayPal.WebhookID) {
			log.Printf("paypal webhook signature verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "webhook verification failed"})
			return
		}
	}

	if err := h.service.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) ExchangeRate(c *gin.Context) {
	rate, err := h.rates.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch exchange rate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rate})
}

func (h *Handler) AccommodationByQR(c *gin.Context) {
	accommodation, err := h.service.GetAccommodationByQRCode(c.Request.Context(), c.Param("qrCode"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accommodation)
}

func (h *Handler) invalidateOrdersCache(accommodationID string) {
	if h.rdb == nil {
		return
	}
	ctx := context.Background()
	h.rdb.Del(ctx, "orders:window:")
	if accommodationID != "" {
		h.rdb.Del(ctx, "orders:window:"+accommodationID)
	}
}
