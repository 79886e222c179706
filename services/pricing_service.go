package services

import (
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/models"
)

type PricingService struct {
	db *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// EffectivePrice mengembalikan harga efektif produk: override per lokasi kalau
// ada, selain itu base price. Tidak ada konversi mata uang.
func (s *PricingService) EffectivePrice(scope Scope, productID uint, locationID *uint) (float64, error) {
	return s.EffectivePriceTx(s.db, scope, productID, locationID)
}

// EffectivePriceTx adalah varian yang berjalan di dalam transaksi milik caller,
// dipakai order creation supaya harga dibaca dari state katalog terkini.
func (s *PricingService) EffectivePriceTx(tx *gorm.DB, scope Scope, productID uint, locationID *uint) (float64, error) {
	var product models.Product
	if err := tx.Where("tenant_id = ?", scope.TenantID).First(&product, productID).Error; err != nil {
		return 0, NotFoundf("product %d not found", productID)
	}

	return s.resolvePrice(tx, scope, &product, locationID)
}

func (s *PricingService) resolvePrice(tx *gorm.DB, scope Scope, product *models.Product, locationID *uint) (float64, error) {
	if locationID == nil {
		return product.BasePrice, nil
	}

	var override models.ProductLocationPrice
	err := tx.Where("tenant_id = ? AND product_id = ? AND location_id = ?",
		scope.TenantID, product.ID, *locationID).First(&override).Error
	if err == nil {
		return override.Price, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}
	return product.BasePrice, nil
}

// SetLocationPrice membuat atau memperbarui override harga untuk satu pasangan
// (product, location).
func (s *PricingService) SetLocationPrice(scope Scope, productID, locationID uint, price float64) (*models.ProductLocationPrice, error) {
	if price < 0 {
		return nil, InvalidInputf("price cannot be negative")
	}

	var product models.Product
	if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&product, productID).Error; err != nil {
		return nil, NotFoundf("product %d not found", productID)
	}
	var location models.Location
	if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&location, locationID).Error; err != nil {
		return nil, NotFoundf("location %d not found", locationID)
	}

	var override models.ProductLocationPrice
	err := s.db.Where("tenant_id = ? AND product_id = ? AND location_id = ?",
		scope.TenantID, productID, locationID).First(&override).Error
	if err == gorm.ErrRecordNotFound {
		override = models.ProductLocationPrice{
			TenantID:   scope.TenantID,
			ProductID:  productID,
			LocationID: locationID,
			Price:      price,
		}
		if err := s.db.Create(&override).Error; err != nil {
			return nil, err
		}
		return &override, nil
	}
	if err != nil {
		return nil, err
	}

	override.Price = price
	if err := s.db.Save(&override).Error; err != nil {
		return nil, err
	}
	return &override, nil
}

func (s *PricingService) RemoveLocationPrice(scope Scope, productID, locationID uint) error {
	res := s.db.Where("tenant_id = ? AND product_id = ? AND location_id = ?",
		scope.TenantID, productID, locationID).Delete(&models.ProductLocationPrice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("no price override for product %d at location %d", productID, locationID)
	}
	return nil
}
