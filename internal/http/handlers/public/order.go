package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CartID string `json:"cart_id" binding:"required,uuid"`
}

// UpdateOrderRequest 更新订单状态请求
type UpdateOrderRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,payment_status"`
}

// OrderResponse 订单响应（含合计）
type OrderResponse struct {
	*models.Order
	TotalPrice models.Money `json:"total_price"`
}

func toOrderResponse(order *models.Order) OrderResponse {
	return OrderResponse{Order: order, TotalPrice: order.Total()}
}

// CreateOrder 将购物车转换为订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 非法 cart_id 与不存在的购物车同样处理
		if req.CartID != "" {
			respondError(c, response.CodeBadRequest, "error.cart_not_exist", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "error.cart_id_required", err)
		return
	}
	order, err := h.OrderService.PlaceOrderForUser(uid, req.CartID)
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Created(c, toOrderResponse(order))
}

// GetOrders 订单列表（非员工仅返回本人订单）
func (h *Handler) GetOrders(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.List(requester, service.OrderListInput{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("payment_status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "order_id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(requester, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, toOrderResponse(order))
}

// UpdateOrder 员工更新订单支付状态
func (h *Handler) UpdateOrder(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	if !requester.IsStaff {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return
	}
	orderID, ok := parseIDParam(c, "order_id", "error.order_not_found")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_status_invalid", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(requester, orderID, req.PaymentStatus)
	if err != nil {
		respondOrderUpdateError(c, err)
		return
	}
	response.Success(c, toOrderResponse(order))
}

// DeleteOrder 员工删除订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	if !requester.IsStaff {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return
	}
	orderID, ok := parseIDParam(c, "order_id", "error.order_not_found")
	if !ok {
		return
	}
	if err := h.OrderService.Delete(requester, orderID); err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "error.order_delete_failed")
		return
	}
	response.NoContent(c)
}
