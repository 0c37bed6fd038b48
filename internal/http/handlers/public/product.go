package public

import (
	"strconv"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/整体更新商品请求
type ProductRequest struct {
	Title        string          `json:"title" binding:"required"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Inventory    int             `json:"inventory"`
	CollectionID uint            `json:"collection" binding:"required"`
	PromotionIDs []uint          `json:"promotions"`
}

// ProductPatchRequest 商品部分更新请求
type ProductPatchRequest struct {
	Title        *string          `json:"title"`
	Slug         *string          `json:"slug"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Inventory    *int             `json:"inventory"`
	CollectionID *uint            `json:"collection"`
	PromotionIDs *[]uint          `json:"promotions"`
}

// ProductImageRequest 商品图片请求
type ProductImageRequest struct {
	Image string `json:"image" binding:"required"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:        r.Title,
		Slug:         r.Slug,
		Description:  r.Description,
		Price:        r.Price,
		Inventory:    r.Inventory,
		CollectionID: r.CollectionID,
		PromotionIDs: r.PromotionIDs,
	}
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	collectionID, _ := strconv.ParseUint(c.Query("collection_id"), 10, 64)
	products, total, err := h.ProductService.List(service.ProductListInput{
		Page:           page,
		PageSize:       pageSize,
		CollectionID:   uint(collectionID),
		Search:         c.Query("search"),
		Ordering:       c.Query("ordering"),
		InventoryLevel: c.Query("inventory"),
		LowStock:       h.catalog.LowStockThreshold,
		HighStock:      h.catalog.HighStockThreshold,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Created(c, product)
}

// UpdateProduct 整体更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// PatchProduct 部分更新商品
func (h *Handler) PatchProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ProductPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Patch(c.Request.Context(), id, service.ProductPatch{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
		PromotionIDs: req.PromotionIDs,
	})
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（被订单项引用时返回冲突）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_delete_failed")
		return
	}
	response.NoContent(c)
}

// AddProductImage 添加商品图片
func (h *Handler) AddProductImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ProductImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.product_image_invalid", err)
		return
	}
	image, err := h.ProductService.AddImage(c.Request.Context(), id, req.Image)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Created(c, image)
}

// DeleteProductImage 删除商品图片
func (h *Handler) DeleteProductImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "image_id", "error.product_image_not_found")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.NoContent(c)
}
