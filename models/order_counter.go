package models

import "time"

// OrderCounter adalah sequence monotonic per (tenant, location) untuk nomor
// order. Baris di-lock FOR UPDATE di dalam transaksi pembuatan order sehingga
// dua order bersamaan tidak pernah mendapat nomor yang sama.
type OrderCounter struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"not null;uniqueIndex:idx_order_counter" json:"tenant_id"`
	LocationID uint      `gorm:"not null;uniqueIndex:idx_order_counter" json:"location_id"`
	LastNumber int64     `gorm:"not null;default:0" json:"last_number"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
