package mysql

import (
	"errors"
	"log"
	"time"

	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// withNested preloads the full order graph: items, their menu items with
// restaurant, option selections with menu option, and the accommodation.
func withNested(db *gorm.DB) *gorm.DB {
	return db.
		Preload("OrderItems.MenuItem.Restaurant").
		Preload("OrderItems.OptionSelections.MenuOption").
		Preload("Accommodation")
}

func (r *orderRepo) Create(order *domain.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		log.Printf("order create error: %v", err)
		return err
	}
	return nil
}

func (r *orderRepo) Update(order *domain.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		log.Printf("order update error: %v", err)
		return err
	}
	return nil
}

func (r *orderRepo) FindByID(id string) (*domain.Order, error) {
	var o domain.Order
	if err := withNested(r.db).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order find by id error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByPaypalOrderID(paypalOrderID string) (*domain.Order, error) {
	var o domain.Order
	if err := withNested(r.db).First(&o, "paypal_order_id = ?", paypalOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order find by paypal id error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindInWindow(from, to time.Time, accommodationID string) ([]domain.Order, error) {
	q := withNested(r.db).Where("created_at >= ? AND created_at < ?", from, to)
	if accommodationID != "" {
		q = q.Where("accommodation_id = ?", accommodationID)
	}
	var out []domain.Order
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		log.Printf("order window query error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindPendingPaypalBefore(cutoff time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.
		Where("payment_method = ?", domain.MethodPaypal).
		Where("payment_status = ?", domain.PaymentPending).
		Where("paypal_order_id <> ''").
		Where("created_at < ?", cutoff).
		Find(&out).Error
	if err != nil {
		log.Printf("pending paypal query error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Stats() (*domain.OrderStats, error) {
	var stats domain.OrderStats
	if err := r.db.Model(&domain.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.Order{}).Where("status = ?", domain.StatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.Order{}).Where("status = ?", domain.StatusDelivered).Count(&stats.CompletedOrders).Error; err != nil {
		return nil, err
	}
	var revenue struct{ Total int64 }
	err := r.db.Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("payment_status = ?", domain.PaymentCompleted).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total
	return &stats, nil
}
