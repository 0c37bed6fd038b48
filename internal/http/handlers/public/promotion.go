package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// PromotionRequest 促销活动请求
type PromotionRequest struct {
	Description string  `json:"description" binding:"required"`
	Discount    float64 `json:"discount" binding:"gte=0,lte=1"`
}

// GetPromotions 促销活动列表
func (h *Handler) GetPromotions(c *gin.Context) {
	page, pageSize := parsePagination(c)
	promotions, total, err := h.PromotionService.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.promotion_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, promotions, response.BuildPagination(page, pageSize, total))
}

// CreatePromotion 创建促销活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", err)
		return
	}
	promotion, err := h.PromotionService.Create(service.PromotionInput{Description: req.Description, Discount: req.Discount})
	if err != nil {
		respondWithMappedError(c, err, promotionErrorRules, response.CodeInternal, "error.promotion_save_failed")
		return
	}
	response.Created(c, promotion)
}

// UpdatePromotion 更新促销活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.promotion_not_found")
	if !ok {
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", err)
		return
	}
	promotion, err := h.PromotionService.Update(id, service.PromotionInput{Description: req.Description, Discount: req.Discount})
	if err != nil {
		respondWithMappedError(c, err, promotionErrorRules, response.CodeInternal, "error.promotion_save_failed")
		return
	}
	response.Success(c, promotion)
}

// DeletePromotion 删除促销活动
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.promotion_not_found")
	if !ok {
		return
	}
	if err := h.PromotionService.Delete(id); err != nil {
		respondWithMappedError(c, err, promotionErrorRules, response.CodeInternal, "error.promotion_save_failed")
		return
	}
	response.NoContent(c)
}
