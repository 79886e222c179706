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

type ModifierController struct {
	DB *gorm.DB
}

func NewModifierController(db *gorm.DB) *ModifierController {
	return &ModifierController{DB: db}
}

// GetAllGroups
func (mc *ModifierController) GetAllGroups(c *gin.Context) {
	scope := scopeFromContext(c)

	var groups []models.ModifierGroup
	if err := mc.DB.Preload("Modifiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc")
	}).Where("tenant_id = ?", scope.TenantID).Find(&groups).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All modifier groups", groups)
}

// CreateGroup
func (mc *ModifierController) CreateGroup(c *gin.Context) {
	scope := scopeFromContext(c)

	var body struct {
		Name          string `json:"name" binding:"required"`
		SelectionType string `json:"selection_type"`
		IsRequired    bool   `json:"is_required"`
		MinSelections int    `json:"min_selections"`
		MaxSelections int    `json:"max_selections"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	selectionType := body.SelectionType
	if selectionType == "" {
		selectionType = models.SelectionTypeSingle
	}
	if selectionType != models.SelectionTypeSingle && selectionType != models.SelectionTypeMultiple {
		respondServiceError(c, services.InvalidInputf("unknown selection type %q", selectionType))
		return
	}
	if body.MinSelections < 0 || (body.MaxSelections > 0 && body.MaxSelections < body.MinSelections) {
		respondServiceError(c, services.InvalidInputf("invalid selection bounds"))
		return
	}

	group := models.ModifierGroup{
		TenantID:      scope.TenantID,
		Name:          body.Name,
		SelectionType: selectionType,
		IsRequired:    body.IsRequired,
		MinSelections: body.MinSelections,
		MaxSelections: body.MaxSelections,
	}
	if err := mc.DB.Create(&group).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier group created", group)
}

// AddModifier -> tambah modifier ke group
func (mc *ModifierController) AddModifier(c *gin.Context) {
	scope := scopeFromContext(c)
	groupID, _ := strconv.Atoi(c.Param("group_id"))

	var group models.ModifierGroup
	if err := mc.DB.Where("tenant_id = ?", scope.TenantID).First(&group, groupID).Error; err != nil {
		respondServiceError(c, services.NotFoundf("modifier group %d not found", groupID))
		return
	}

	var body struct {
		Name        string  `json:"name" binding:"required"`
		PriceType   string  `json:"price_type"`
		PriceChange float64 `json:"price_change"`
		IsDefault   bool    `json:"is_default"`
		SortOrder   int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	priceType := body.PriceType
	if priceType == "" {
		priceType = models.PriceTypeAdd
	}
	switch priceType {
	case models.PriceTypeAdd, models.PriceTypeReplace, models.PriceTypeMultiply:
	default:
		respondServiceError(c, services.InvalidInputf("unknown price type %q", priceType))
		return
	}

	modifier := models.Modifier{
		TenantID:    scope.TenantID,
		GroupID:     group.ID,
		Name:        body.Name,
		PriceType:   priceType,
		PriceChange: body.PriceChange,
		IsDefault:   body.IsDefault,
		SortOrder:   body.SortOrder,
		IsActive:    true,
	}
	if err := mc.DB.Create(&modifier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier created", modifier)
}

// UpdateModifier
func (mc *ModifierController) UpdateModifier(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("modifier_id"))

	var modifier models.Modifier
	if err := mc.DB.Where("tenant_id = ?", scope.TenantID).First(&modifier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name        *string  `json:"name"`
		PriceType   *string  `json:"price_type"`
		PriceChange *float64 `json:"price_change"`
		IsDefault   *bool    `json:"is_default"`
		SortOrder   *int     `json:"sort_order"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		modifier.Name = *body.Name
	}
	if body.PriceType != nil {
		switch *body.PriceType {
		case models.PriceTypeAdd, models.PriceTypeReplace, models.PriceTypeMultiply:
			modifier.PriceType = *body.PriceType
		default:
			respondServiceError(c, services.InvalidInputf("unknown price type %q", *body.PriceType))
			return
		}
	}
	if body.PriceChange != nil {
		modifier.PriceChange = *body.PriceChange
	}
	if body.IsDefault != nil {
		modifier.IsDefault = *body.IsDefault
	}
	if body.SortOrder != nil {
		modifier.SortOrder = *body.SortOrder
	}
	if body.IsActive != nil {
		modifier.IsActive = *body.IsActive
	}

	if err := mc.DB.Save(&modifier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Modifier updated", modifier)
}
