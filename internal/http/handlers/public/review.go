package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 评价请求
type ReviewRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// GetReviews 商品评价列表
func (h *Handler) GetReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	reviews, total, err := h.ReviewService.List(productID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_fetch_failed")
		return
	}
	response.SuccessWithPage(c, reviews, response.BuildPagination(page, pageSize, total))
}

// GetReview 评价详情
func (h *Handler) GetReview(c *gin.Context) {
	productID, reviewID, ok := parseReviewParams(c)
	if !ok {
		return
	}
	review, err := h.ReviewService.Get(productID, reviewID)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_fetch_failed")
		return
	}
	response.Success(c, review)
}

// CreateReview 发表评价
func (h *Handler) CreateReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.review_invalid", err)
		return
	}
	review, err := h.ReviewService.Create(productID, service.ReviewInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_save_failed")
		return
	}
	response.Created(c, review)
}

// UpdateReview 更新评价
func (h *Handler) UpdateReview(c *gin.Context) {
	productID, reviewID, ok := parseReviewParams(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.review_invalid", err)
		return
	}
	review, err := h.ReviewService.Update(productID, reviewID, service.ReviewInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_save_failed")
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除评价
func (h *Handler) DeleteReview(c *gin.Context) {
	productID, reviewID, ok := parseReviewParams(c)
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(productID, reviewID); err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_save_failed")
		return
	}
	response.NoContent(c)
}

func parseReviewParams(c *gin.Context) (uint, uint, bool) {
	productID, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok := parseIDParam(c, "review_id", "error.review_not_found")
	if !ok {
		return 0, 0, false
	}
	return productID, reviewID, true
}
