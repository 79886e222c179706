package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	ProductTypeSimple  = "simple"
	ProductTypeVariant = "variant"
	ProductTypeCombo   = "combo"
)

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TenantID    uint           `gorm:"not null;index" json:"tenant_id"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	Category    Category       `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	ProductType string         `gorm:"type:varchar(20);not null;default:'simple'" json:"product_type"`
	BasePrice   float64        `gorm:"type:decimal(10,2);not null" json:"base_price"`
	CostPrice   float64        `gorm:"type:decimal(10,2);not null;default:0" json:"cost_price"`
	SKU         string         `gorm:"type:varchar(100)" json:"sku"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	Metadata    string         `gorm:"type:text" json:"metadata"` // JSON, lihat ProductMetadata
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductMetadata adalah isi kolom metadata produk. Availability window bersifat
// opsional; produk tanpa window selalu tersedia. RegularPrice/Savings diisi untuk
// produk combo saat item-nya diubah dan disimpan apa adanya (boleh negatif).
type ProductMetadata struct {
	AvailableDays []string `json:"available_days,omitempty"` // "monday".."sunday"
	StartTime     string   `json:"start_time,omitempty"`     // "HH:MM"
	EndTime       string   `json:"end_time,omitempty"`       // "HH:MM"
	BlackoutDates []string `json:"blackout_dates,omitempty"` // "2006-01-02"
	RegularPrice  *float64 `json:"regular_price,omitempty"`
	Savings       *float64 `json:"savings,omitempty"`
}

func (p *Product) ParseMetadata() ProductMetadata {
	var meta ProductMetadata
	if p.Metadata != "" {
		_ = json.Unmarshal([]byte(p.Metadata), &meta)
	}
	return meta
}

func (p *Product) SetMetadata(meta ProductMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	p.Metadata = string(raw)
	return nil
}

// AvailableAt memeriksa availability window produk terhadap waktu yang diberikan.
func (m ProductMetadata) AvailableAt(t time.Time) bool {
	for _, d := range m.BlackoutDates {
		if d == t.Format("2006-01-02") {
			return false
		}
	}

	if len(m.AvailableDays) > 0 {
		day := t.Weekday().String() // "Monday" dst
		found := false
		for _, d := range m.AvailableDays {
			if strings.EqualFold(d, day) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if m.StartTime != "" && m.EndTime != "" {
		clock := t.Format("15:04")
		if clock < m.StartTime || clock > m.EndTime {
			return false
		}
	}

	return true
}

// ProductLocationPrice adalah override harga per lokasi, maksimal satu per pasangan.
type ProductLocationPrice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"not null;index" json:"tenant_id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_product_location" json:"product_id"`
	LocationID uint      `gorm:"not null;uniqueIndex:idx_product_location" json:"location_id"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
