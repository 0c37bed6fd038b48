package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车项请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest 更新购物车项数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CreateCart 创建购物车
func (h *Handler) CreateCart(c *gin.Context) {
	cart, err := h.CartService.Create()
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}
	response.Created(c, cart)
}

// GetCart 获取购物车（含明细与合计）
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.CartService.Get(c.Param("cart_id"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, cart)
}

// DeleteCart 删除购物车
func (h *Handler) DeleteCart(c *gin.Context) {
	if err := h.CartService.Delete(c.Param("cart_id")); err != nil {
		respondCartError(c, err)
		return
	}
	response.NoContent(c)
}

// ListCartItems 获取购物车明细
func (h *Handler) ListCartItems(c *gin.Context) {
	items, err := h.CartService.ListItems(c.Param("cart_id"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, items)
}

// GetCartItem 获取单个购物车明细
func (h *Handler) GetCartItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "item_id", "error.cart_item_not_found")
	if !ok {
		return
	}
	item, err := h.CartService.GetItem(c.Param("cart_id"), itemID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, item)
}

// AddCartItem 添加商品到购物车（同一商品覆盖数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.CartService.AddItem(c.Param("cart_id"), req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateCartItem 更新购物车明细数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "item_id", "error.cart_item_not_found")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.CartService.UpdateItemQuantity(c.Param("cart_id"), itemID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteCartItem 删除购物车明细
func (h *Handler) DeleteCartItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "item_id", "error.cart_item_not_found")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(c.Param("cart_id"), itemID); err != nil {
		respondCartError(c, err)
		return
	}
	response.NoContent(c)
}
