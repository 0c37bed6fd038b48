package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CollectionRequest 集合写入请求
type CollectionRequest struct {
	Title             string `json:"title" binding:"required"`
	FeaturedProductID *uint  `json:"featured_product_id"`
}

// GetCollections 集合列表
func (h *Handler) GetCollections(c *gin.Context) {
	page, pageSize := parsePagination(c)
	collections, total, err := h.CollectionService.List(c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.collection_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, collections, response.BuildPagination(page, pageSize, total))
}

// GetCollection 集合详情
func (h *Handler) GetCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.collection_not_found")
	if !ok {
		return
	}
	collection, err := h.CollectionService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, collectionErrorRules, response.CodeInternal, "error.collection_fetch_failed")
		return
	}
	response.Success(c, collection)
}

// CreateCollection 创建集合
func (h *Handler) CreateCollection(c *gin.Context) {
	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.collection_title_required", err)
		return
	}
	collection, err := h.CollectionService.Create(service.CollectionInput{
		Title:             req.Title,
		FeaturedProductID: req.FeaturedProductID,
	})
	if err != nil {
		respondWithMappedError(c, err, collectionErrorRules, response.CodeInternal, "error.collection_save_failed")
		return
	}
	response.Created(c, collection)
}

// UpdateCollection 更新集合（PUT/PATCH 共用）
func (h *Handler) UpdateCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.collection_not_found")
	if !ok {
		return
	}
	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.collection_title_required", err)
		return
	}
	collection, err := h.CollectionService.Update(id, service.CollectionInput{
		Title:             req.Title,
		FeaturedProductID: req.FeaturedProductID,
	})
	if err != nil {
		respondWithMappedError(c, err, collectionErrorRules, response.CodeInternal, "error.collection_save_failed")
		return
	}
	response.Success(c, collection)
}

// DeleteCollection 删除集合（仍有商品时拒绝）
func (h *Handler) DeleteCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.collection_not_found")
	if !ok {
		return
	}
	if err := h.CollectionService.Delete(id); err != nil {
		respondWithMappedError(c, err, collectionErrorRules, response.CodeInternal, "error.collection_save_failed")
		return
	}
	response.NoContent(c)
}
