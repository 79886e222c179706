package models

import "time"

type Tenant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Currency       string    `gorm:"type:varchar(10);not null;default:'IDR'" json:"currency"`
	DefaultTaxRate float64   `gorm:"type:decimal(5,4);not null;default:0" json:"default_tax_rate"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
