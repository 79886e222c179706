package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/models"
	"github.com/kasirhub/pos-app/services"
	"github.com/kasirhub/pos-app/utils"
)

type ProductController struct {
	DB        *gorm.DB
	pricing   *services.PricingService
	modifiers *services.ModifierService
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{
		DB:        db,
		pricing:   services.NewPricingService(db),
		modifiers: services.NewModifierService(db),
	}
}

// GetAllProducts -> ?category_id= untuk filter
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	scope := scopeFromContext(c)

	q := pc.DB.Where("tenant_id = ?", scope.TenantID)
	if catID := c.Query("category_id"); catID != "" {
		q = q.Where("category_id = ?", catID)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All products", products)
}

// GetProductByID
func (pc *ProductController) GetProductByID(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var product models.Product
	if err := pc.DB.Where("tenant_id = ?", scope.TenantID).First(&product, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// CreateProduct
func (pc *ProductController) CreateProduct(c *gin.Context) {
	scope := scopeFromContext(c)

	var body struct {
		CategoryID  uint                    `json:"category_id" binding:"required"`
		Name        string                  `json:"name" binding:"required"`
		ProductType string                  `json:"product_type"`
		BasePrice   float64                 `json:"base_price"`
		CostPrice   float64                 `json:"cost_price"`
		SKU         string                  `json:"sku"`
		Metadata    *models.ProductMetadata `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := pc.DB.Where("tenant_id = ?", scope.TenantID).First(&category, body.CategoryID).Error; err != nil {
		respondServiceError(c, services.NotFoundf("category %d not found", body.CategoryID))
		return
	}

	productType := body.ProductType
	if productType == "" {
		productType = models.ProductTypeSimple
	}
	switch productType {
	case models.ProductTypeSimple, models.ProductTypeVariant, models.ProductTypeCombo:
	default:
		respondServiceError(c, services.InvalidInputf("unknown product type %q", productType))
		return
	}

	product := models.Product{
		TenantID:    scope.TenantID,
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		ProductType: productType,
		BasePrice:   body.BasePrice,
		CostPrice:   body.CostPrice,
		SKU:         body.SKU,
		IsActive:    true,
	}
	if body.Metadata != nil {
		if err := product.SetMetadata(*body.Metadata); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var product models.Product
	if err := pc.DB.Where("tenant_id = ?", scope.TenantID).First(&product, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name      *string                 `json:"name"`
		BasePrice *float64                `json:"base_price"`
		CostPrice *float64                `json:"cost_price"`
		SKU       *string                 `json:"sku"`
		IsActive  *bool                   `json:"is_active"`
		Metadata  *models.ProductMetadata `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		product.Name = *body.Name
	}
	if body.BasePrice != nil {
		product.BasePrice = *body.BasePrice
	}
	if body.CostPrice != nil {
		product.CostPrice = *body.CostPrice
	}
	if body.SKU != nil {
		product.SKU = *body.SKU
	}
	if body.IsActive != nil {
		product.IsActive = *body.IsActive
	}
	if body.Metadata != nil {
		if err := product.SetMetadata(*body.Metadata); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> soft delete, ditolak kalau produk masih jadi item combo
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var product models.Product
	if err := pc.DB.Where("tenant_id = ?", scope.TenantID).First(&product, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var comboRefs int64
	if err := pc.DB.Model(&models.ComboItem{}).
		Where("tenant_id = ? AND item_product_id = ?", scope.TenantID, id).
		Count(&comboRefs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if comboRefs > 0 {
		respondServiceError(c, services.Conflictf("product %d is used by %d combo(s)", id, comboRefs))
		return
	}

	if err := pc.DB.Delete(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}

// GetEffectivePrice -> ?location_id= opsional
func (pc *ProductController) GetEffectivePrice(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var locationID *uint
	if raw := c.Query("location_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, services.InvalidInputf("invalid location_id"))
			return
		}
		v := uint(parsed)
		locationID = &v
	}

	price, err := pc.pricing.EffectivePrice(scope, uint(id), locationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Effective price", gin.H{
		"product_id": id,
		"price":      price,
	})
}

// SetLocationPrice -> upsert override harga per lokasi
func (pc *ProductController) SetLocationPrice(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var body struct {
		LocationID uint    `json:"location_id" binding:"required"`
		Price      float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	override, err := pc.pricing.SetLocationPrice(scope, uint(id), body.LocationID, body.Price)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location price set", override)
}

// RemoveLocationPrice
func (pc *ProductController) RemoveLocationPrice(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))
	locationID, _ := strconv.Atoi(c.Param("location_id"))

	if err := pc.pricing.RemoveLocationPrice(scope, uint(id), uint(locationID)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location price removed", nil)
}

// GetProductModifierGroups -> group yang berlaku untuk produk, sudah
// ter-resolve dengan override dan exclusion
func (pc *ProductController) GetProductModifierGroups(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	groups, err := pc.modifiers.ResolveGroups(scope, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product modifier groups", groups)
}

// LinkModifierGroup -> hubungkan produk dengan modifier group
func (pc *ProductController) LinkModifierGroup(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var body struct {
		ModifierGroupID     uint   `json:"modifier_group_id" binding:"required"`
		IsRequired          *bool  `json:"is_required"`
		MinSelections       *int   `json:"min_selections"`
		MaxSelections       *int   `json:"max_selections"`
		SortOrder           int    `json:"sort_order"`
		ExcludedModifierIDs []uint `json:"excluded_modifier_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.Where("tenant_id = ?", scope.TenantID).First(&product, id).Error; err != nil {
		respondServiceError(c, services.NotFoundf("product %d not found", id))
		return
	}
	var group models.ModifierGroup
	if err := pc.DB.Where("tenant_id = ?", scope.TenantID).First(&group, body.ModifierGroupID).Error; err != nil {
		respondServiceError(c, services.NotFoundf("modifier group %d not found", body.ModifierGroupID))
		return
	}

	var existing models.ProductModifierGroup
	err := pc.DB.Where("tenant_id = ? AND product_id = ? AND modifier_group_id = ?",
		scope.TenantID, id, body.ModifierGroupID).First(&existing).Error
	if err == nil {
		respondServiceError(c, services.Conflictf("product %d is already linked to group %d", id, body.ModifierGroupID))
		return
	}

	link := models.ProductModifierGroup{
		TenantID:        scope.TenantID,
		ProductID:       uint(id),
		ModifierGroupID: body.ModifierGroupID,
		IsRequired:      body.IsRequired,
		MinSelections:   body.MinSelections,
		MaxSelections:   body.MaxSelections,
		SortOrder:       body.SortOrder,
	}
	if len(body.ExcludedModifierIDs) > 0 {
		if err := link.SetMetadata(models.LinkMetadata{ExcludedModifierIDs: body.ExcludedModifierIDs}); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if err := pc.DB.Create(&link).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier group linked", link)
}

// UnlinkModifierGroup
func (pc *ProductController) UnlinkModifierGroup(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))
	groupID, _ := strconv.Atoi(c.Param("group_id"))

	res := pc.DB.Where("tenant_id = ? AND product_id = ? AND modifier_group_id = ?",
		scope.TenantID, id, groupID).Delete(&models.ProductModifierGroup{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, services.NotFoundf("link not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Modifier group unlinked", nil)
}
