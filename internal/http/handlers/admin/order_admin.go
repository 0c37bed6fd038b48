package admin

import (
	"strconv"
	"strings"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 管理端订单列表（全量，可按状态与顾客筛选）
func (h *Handler) GetAdminOrders(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	customerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("customer_id")), 10, 64)

	orders, total, err := h.OrderService.List(requester, service.OrderListInput{
		Page:       page,
		PageSize:   pageSize,
		Status:     c.Query("status"),
		CustomerID: uint(customerID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	items := make([]gin.H, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		items = append(items, gin.H{
			"id":             order.ID,
			"customer":       order.CustomerID,
			"payment_status": order.PaymentStatus,
			"placed_at":      order.PlacedAt,
			"items":          order.Items,
			"total_price":    order.Total(),
		})
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// GetAdminOrder 管理端订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(requester, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"id":             order.ID,
		"customer":       order.CustomerID,
		"payment_status": order.PaymentStatus,
		"placed_at":      order.PlacedAt,
		"items":          order.Items,
		"total_price":    order.Total(),
	})
}
