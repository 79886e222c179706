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

type CategoryController struct {
	DB      *gorm.DB
	service *services.CategoryService
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db, service: services.NewCategoryService(db)}
}

// GetCategoryTree -> tree kategori; ?include_inactive=true&include_products=true
func (cc *CategoryController) GetCategoryTree(c *gin.Context) {
	scope := scopeFromContext(c)
	includeInactive := c.Query("include_inactive") == "true"
	includeProducts := c.Query("include_products") == "true"

	tree, err := cc.service.GetTree(scope, includeInactive, includeProducts)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category tree", tree)
}

// CreateCategory
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	scope := scopeFromContext(c)

	var body struct {
		Name        string `json:"name" binding:"required"`
		DisplayName string `json:"display_name"`
		SortOrder   int    `json:"sort_order"`
		ColorHex    string `json:"color_hex"`
		ParentID    *uint  `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.ParentID != nil {
		var parent models.Category
		if err := cc.DB.Where("tenant_id = ?", scope.TenantID).First(&parent, *body.ParentID).Error; err != nil {
			respondServiceError(c, services.NotFoundf("parent category %d not found", *body.ParentID))
			return
		}
	}

	category := models.Category{
		TenantID:    scope.TenantID,
		Name:        body.Name,
		DisplayName: body.DisplayName,
		SortOrder:   body.SortOrder,
		ColorHex:    body.ColorHex,
		ParentID:    body.ParentID,
		IsActive:    true,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.Where("tenant_id = ?", scope.TenantID).First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name        *string `json:"name"`
		DisplayName *string `json:"display_name"`
		SortOrder   *int    `json:"sort_order"`
		ColorHex    *string `json:"color_hex"`
		IsActive    *bool   `json:"is_active"`
		ParentID    *uint   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		category.Name = *body.Name
	}
	if body.DisplayName != nil {
		category.DisplayName = *body.DisplayName
	}
	if body.SortOrder != nil {
		category.SortOrder = *body.SortOrder
	}
	if body.ColorHex != nil {
		category.ColorHex = *body.ColorHex
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}
	if body.ParentID != nil {
		if *body.ParentID == category.ID {
			respondServiceError(c, services.InvalidInputf("category cannot be its own parent"))
			return
		}
		category.ParentID = body.ParentID
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory -> soft delete, ditolak kalau masih dipakai produk
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("cat_id"))

	if err := cc.service.DeleteCategory(scope, uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}

// AddParentRelationship -> tambah parent tambahan lewat junction table
func (cc *CategoryController) AddParentRelationship(c *gin.Context) {
	scope := scopeFromContext(c)

	var body struct {
		ParentCategoryID uint `json:"parent_category_id" binding:"required"`
		SubcategoryID    uint `json:"subcategory_id" binding:"required"`
		SortOrder        int  `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rel, err := cc.service.AddParentRelationship(scope, body.ParentCategoryID, body.SubcategoryID, body.SortOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Relationship created", rel)
}

// RemoveParentRelationship
func (cc *CategoryController) RemoveParentRelationship(c *gin.Context) {
	scope := scopeFromContext(c)
	parentID, _ := strconv.Atoi(c.Param("parent_id"))
	subID, _ := strconv.Atoi(c.Param("sub_id"))

	if err := cc.service.RemoveParentRelationship(scope, uint(parentID), uint(subID)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Relationship removed", nil)
}
