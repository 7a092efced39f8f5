package domain

import "time"

// Accommodation is a delivery destination. QRCode binds a guest session to
// the accommodation and is unique across the table.
type Accommodation struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	NameEn      string    `json:"nameEn" gorm:"size:128"`
	Address     string    `json:"address" gorm:"size:256"`
	Area        string    `json:"area" gorm:"size:32;index"`
	HostName    string    `json:"hostName" gorm:"size:64"`
	HostPhone   string    `json:"hostPhone" gorm:"size:32"`
	HostEmail   string    `json:"hostEmail" gorm:"size:128"`
	QRCode      string    `json:"qrCode" gorm:"size:64;uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type Restaurant struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	NameEn      string    `json:"nameEn" gorm:"size:128"`
	Category    string    `json:"category" gorm:"size:32;index"`
	Area        string    `json:"area" gorm:"size:32;index"`
	Phone       string    `json:"phone" gorm:"size:32"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	IsOpen      bool      `json:"isOpen" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type MenuItem struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string `json:"restaurantId" gorm:"size:36;not null;index"`
	Name         string `json:"name" gorm:"size:128;not null"`
	NameEn       string `json:"nameEn" gorm:"size:128"`
	Description  string `json:"description,omitempty" gorm:"type:text"`
	Price        int64  `json:"price" gorm:"not null"`
	Category     string `json:"category" gorm:"size:32;index"`
	ImageURL     string `json:"imageUrl,omitempty" gorm:"size:256"`
	IsAvailable  bool   `json:"isAvailable" gorm:"default:true"`

	Restaurant *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
}

type MenuOption struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	MenuItemID string `json:"menuItemId" gorm:"size:36;not null;index"`
	Name       string `json:"name" gorm:"size:128;not null"`
	NameEn     string `json:"nameEn" gorm:"size:128"`
	Price      int64  `json:"price" gorm:"not null"`
}
