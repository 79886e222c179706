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

type ComboController struct {
	DB      *gorm.DB
	service *services.ComboService
}

func NewComboController(db *gorm.DB) *ComboController {
	return &ComboController{DB: db, service: services.NewComboService(db)}
}

// ExpandCombo -> ?quantity=&location_id=&grouped=true
func (cc *ComboController) ExpandCombo(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, services.InvalidInputf("invalid quantity"))
			return
		}
		quantity = parsed
	}

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

	expansion, err := cc.service.ExpandForOrder(scope, uint(id), quantity, locationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if c.Query("grouped") == "true" {
		utils.RespondJSON(c, http.StatusOK, "Combo expansion", gin.H{
			"expansion": expansion,
			"groups":    services.GroupBySelectionGroup(expansion.Items),
		})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Combo expansion", expansion)
}

// SetComboItems -> ganti seluruh item penyusun combo
func (cc *ComboController) SetComboItems(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var body struct {
		Items []struct {
			ItemProductID  uint     `json:"item_product_id" binding:"required"`
			Quantity       int      `json:"quantity" binding:"required"`
			PriceOverride  *float64 `json:"price_override"`
			SelectionGroup string   `json:"selection_group"`
			SortOrder      int      `json:"sort_order"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items := make([]models.ComboItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, models.ComboItem{
			ItemProductID:  item.ItemProductID,
			Quantity:       item.Quantity,
			PriceOverride:  item.PriceOverride,
			SelectionGroup: item.SelectionGroup,
			SortOrder:      item.SortOrder,
		})
	}

	saved, err := cc.service.SetComboItems(scope, uint(id), items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Combo items set", saved)
}

// GetComboItems
func (cc *ComboController) GetComboItems(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("product_id"))

	var items []models.ComboItem
	if err := cc.DB.Where("tenant_id = ? AND combo_product_id = ?", scope.TenantID, id).
		Order("sort_order asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Combo items", items)
}
