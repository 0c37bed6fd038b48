package admin

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ClearInventoryRequest 批量清空库存请求
type ClearInventoryRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required,min=1,dive,gt=0"`
}

// ClearInventory 批量清空商品库存
func (h *Handler) ClearInventory(c *gin.Context) {
	var req ClearInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	updated, err := h.ProductService.ClearInventory(c.Request.Context(), req.ProductIDs)
	if err != nil {
		respondError(c, response.CodeInternal, "error.inventory_clear_failed", err)
		return
	}

	operatorID, _ := getOperatorID(c)
	requestLog(c).Infow("admin_inventory_cleared",
		"operator_user_id", operatorID,
		"requested", len(req.ProductIDs),
		"updated", updated,
	)
	response.Success(c, gin.H{"updated": updated})
}
