package models

import "time"

// OrderItem menyimpan snapshot nama dan harga produk saat order dibuat.
// Perubahan katalog setelahnya tidak boleh mengubah order historis.
type OrderItem struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	TenantID            uint                `gorm:"not null;index" json:"tenant_id"`
	OrderID             uint                `gorm:"not null;index" json:"order_id"`
	Order               Order               `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID           uint                `gorm:"not null" json:"product_id"`
	ItemName            string              `gorm:"type:varchar(255);not null" json:"item_name"`
	UnitPrice           float64             `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity            int                 `gorm:"not null" json:"quantity"`
	LineTotal           float64             `gorm:"type:decimal(10,2);not null" json:"line_total"`
	SpecialInstructions string              `gorm:"type:text" json:"special_instructions"`
	SortOrder           int                 `gorm:"not null;default:0" json:"sort_order"`
	IsComboItem         bool                `gorm:"not null;default:false" json:"is_combo_item"`
	ComboProductID      *uint               `json:"combo_product_id,omitempty"`
	SelectionGroup      string              `gorm:"type:varchar(50)" json:"selection_group,omitempty"`
	Modifiers           []OrderItemModifier `gorm:"foreignKey:OrderItemID" json:"modifiers,omitempty"`
	CreatedAt           time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"not null" json:"updated_at"`
}

// OrderItemModifier adalah snapshot modifier yang dipilih untuk satu line item.
type OrderItemModifier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;index" json:"tenant_id"`
	OrderItemID uint      `gorm:"not null;index" json:"order_item_id"`
	ModifierID  uint      `gorm:"not null" json:"modifier_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	PriceType   string    `gorm:"type:varchar(20);not null" json:"price_type"`
	PriceChange float64   `gorm:"type:decimal(10,2);not null" json:"price_change"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
