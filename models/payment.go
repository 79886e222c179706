package models

import "time"

// Payment represents a payment transaction for an order
type Payment struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	TenantID          uint       `json:"tenant_id" gorm:"not null;index"`
	OrderID           uint       `json:"order_id" gorm:"not null;index"`
	Order             Order      `json:"-" gorm:"foreignKey:OrderID"`
	PaymentMethod     string     `json:"payment_method" gorm:"type:varchar(20);not null;default:'cash'"`
	Amount            float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	CashTendered      *float64   `json:"cash_tendered,omitempty" gorm:"type:decimal(10,2)"` // cash saja
	CashChange        *float64   `json:"cash_change,omitempty" gorm:"type:decimal(10,2)"`   // boleh negatif, disimpan apa adanya
	PaymentStatus     string     `json:"payment_status" gorm:"type:varchar(20);not null;default:'captured'"`
	ReferenceID       string     `json:"reference_id" gorm:"type:varchar(64)"`
	ProcessedByUserID uint       `json:"processed_by_user_id"`
	CapturedAt        *time.Time `json:"captured_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodQRIS         = "qris"
	PaymentMethodBankTransfer = "bank_transfer"
)
