package admin

import (
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 店铺后台接口（报表、库存、订单、会员等级、权限），挂在 StaffOnly + RBAC 之后
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// currentRequestID 审计日志中关联请求
func currentRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
