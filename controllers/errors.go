package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasirhub/pos-app/services"
	"github.com/kasirhub/pos-app/utils"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// respondServiceError memetakan kind error service ke status HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		utils.RespondError(c, http.StatusNotFound, err)
	case services.KindInvalidInput:
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.KindConflictingState:
		utils.RespondError(c, http.StatusConflict, err)
	case services.KindBusinessRule:
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// scopeFromContext membangun scope tenant/user dari context yang diisi auth
// middleware.
func scopeFromContext(c *gin.Context) services.Scope {
	return services.Scope{
		TenantID: c.GetUint("tenant_id"),
		UserID:   c.GetUint("user_id"),
	}
}
