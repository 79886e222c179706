package models

import (
	"encoding/json"
	"time"
)

type Order struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	TenantID           uint        `gorm:"not null;uniqueIndex:idx_order_number" json:"tenant_id"`
	LocationID         uint        `gorm:"not null;uniqueIndex:idx_order_number" json:"location_id"`
	Location           Location    `gorm:"foreignKey:LocationID" json:"-"`
	OrderNumber        string      `gorm:"type:varchar(30);not null;uniqueIndex:idx_order_number" json:"order_number"`
	OrderType          string      `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	OrderStatus        string      `gorm:"type:varchar(20);not null;default:'open'" json:"order_status"`
	PaymentStatus      string      `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	CustomerName       string      `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone      string      `gorm:"type:varchar(30)" json:"customer_phone"`
	Subtotal           float64     `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	TaxAmount          float64     `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	DiscountAmount     float64     `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	TotalAmount        float64     `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	AmountPaid         float64     `gorm:"type:decimal(10,2);not null;default:0" json:"amount_paid"`
	AmountDue          float64     `gorm:"type:decimal(10,2);not null;default:0" json:"amount_due"`
	SentToKitchenAt    *time.Time  `json:"sent_to_kitchen_at,omitempty"`
	KitchenCompletedAt *time.Time  `json:"kitchen_completed_at,omitempty"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
	VoidedAt           *time.Time  `json:"voided_at,omitempty"`
	VoidReason         string      `gorm:"type:text" json:"void_reason,omitempty"`
	VoidedByUserID     *uint       `json:"voided_by_user_id,omitempty"`
	Metadata           string      `gorm:"type:text" json:"metadata"` // JSON, lihat OrderMetadata
	OrderItems         []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	Payments           []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	CreatedAt          time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"not null" json:"updated_at"`
}

// Status order
const (
	OrderStatusOpen      = "open"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusVoided    = "voided"
)

// Status pembayaran order
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusVoid     = "void"
)

// RefundRecord dicatat di metadata order, tidak menimpa record sebelumnya.
type RefundRecord struct {
	Amount     float64   `json:"amount"`
	RefundedBy uint      `json:"refunded_by"`
	RefundedAt time.Time `json:"refunded_at"`
}

type OrderMetadata struct {
	Refunds []RefundRecord `json:"refunds,omitempty"`
}

func (o *Order) ParseMetadata() OrderMetadata {
	var meta OrderMetadata
	if o.Metadata != "" {
		_ = json.Unmarshal([]byte(o.Metadata), &meta)
	}
	return meta
}

func (o *Order) AppendRefund(rec RefundRecord) error {
	meta := o.ParseMetadata()
	meta.Refunds = append(meta.Refunds, rec)
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	o.Metadata = string(raw)
	return nil
}

// IsTerminalOrderStatus memeriksa apakah status order sudah final.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled || status == OrderStatusVoided
}
