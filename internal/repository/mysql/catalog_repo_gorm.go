package mysql

import (
	"errors"
	"log"

	"chopchop-order-service/internal/domain"
	"chopchop-order-service/internal/repository"

	"gorm.io/gorm"
)

type accommodationRepo struct {
	db *gorm.DB
}

func NewAccommodationRepository(db *gorm.DB) repository.AccommodationRepository {
	return &accommodationRepo{db: db}
}

func (r *accommodationRepo) FindByID(id string) (*domain.Accommodation, error) {
	var a domain.Accommodation
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("accommodation find by id error: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *accommodationRepo) FindByQRCode(qrCode string) (*domain.Accommodation, error) {
	var a domain.Accommodation
	if err := r.db.First(&a, "qr_code = ?", qrCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("accommodation find by qr error: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *accommodationRepo) FindFirst() (*domain.Accommodation, error) {
	var a domain.Accommodation
	if err := r.db.Order("created_at ASC").First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("accommodation find first error: %v", err)
		return nil, err
	}
	return &a, nil
}

type menuRepo struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) repository.MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) FindOptionsByIDs(ids []string) ([]domain.MenuOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.MenuOption
	if err := r.db.Where("id IN ?", ids).Find(&out).Error; err != nil {
		log.Printf("menu option query error: %v", err)
		return nil, err
	}
	return out, nil
}
