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

type LocationController struct {
	DB *gorm.DB
}

func NewLocationController(db *gorm.DB) *LocationController {
	return &LocationController{DB: db}
}

// GetAllLocations
func (lc *LocationController) GetAllLocations(c *gin.Context) {
	scope := scopeFromContext(c)

	var locations []models.Location
	if err := lc.DB.Where("tenant_id = ?", scope.TenantID).Find(&locations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All locations", locations)
}

// CreateLocation
func (lc *LocationController) CreateLocation(c *gin.Context) {
	scope := scopeFromContext(c)

	var body struct {
		Name     string   `json:"name" binding:"required"`
		Code     string   `json:"code" binding:"required"`
		TaxRate  *float64 `json:"tax_rate"`
		Currency string   `json:"currency"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	location := models.Location{
		TenantID: scope.TenantID,
		Name:     body.Name,
		Code:     body.Code,
		TaxRate:  body.TaxRate,
		Currency: body.Currency,
		IsActive: true,
	}
	if err := lc.DB.Create(&location).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Location created", location)
}

// UpdateLocation
func (lc *LocationController) UpdateLocation(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("location_id"))

	var location models.Location
	if err := lc.DB.Where("tenant_id = ?", scope.TenantID).First(&location, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name     *string  `json:"name"`
		Code     *string  `json:"code"`
		TaxRate  *float64 `json:"tax_rate"`
		Currency *string  `json:"currency"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		location.Name = *body.Name
	}
	if body.Code != nil {
		location.Code = *body.Code
	}
	if body.TaxRate != nil {
		location.TaxRate = body.TaxRate
	}
	if body.Currency != nil {
		location.Currency = *body.Currency
	}
	if body.IsActive != nil {
		location.IsActive = *body.IsActive
	}

	if err := lc.DB.Save(&location).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Location updated", location)
}

// DeleteLocation menolak penghapusan lokasi terakhir milik tenant
func (lc *LocationController) DeleteLocation(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("location_id"))

	var location models.Location
	if err := lc.DB.Where("tenant_id = ?", scope.TenantID).First(&location, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var count int64
	if err := lc.DB.Model(&models.Location{}).Where("tenant_id = ?", scope.TenantID).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count <= 1 {
		respondServiceError(c, services.Conflictf("cannot delete the last location of a tenant"))
		return
	}

	if err := lc.DB.Delete(&location).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location deleted", gin.H{"location_id": id})
}
