package models

import "time"

// ComboItem adalah item penyusun produk combo. Harga combo sendiri independen
// dari jumlah harga item-itemnya.
type ComboItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TenantID       uint      `gorm:"not null;index" json:"tenant_id"`
	ComboProductID uint      `gorm:"not null;index" json:"combo_product_id"`
	ItemProductID  uint      `gorm:"not null;index" json:"item_product_id"`
	ItemProduct    Product   `gorm:"foreignKey:ItemProductID" json:"-"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	PriceOverride  *float64  `gorm:"type:decimal(10,2)" json:"price_override,omitempty"`
	SelectionGroup string    `gorm:"type:varchar(50)" json:"selection_group"`
	SortOrder      int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
