package admin

import (
	"errors"

	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, handlershared.CodeForError(err, fallbackCode), fallbackKey, err)
}

var reportErrorRules = []mappedHandlerError{
	{target: service.ErrReportRangeInvalid, code: response.CodeBadRequest, key: "error.report_range_invalid"},
	{target: service.ErrInventoryLevelInvalid, code: response.CodeBadRequest, key: "error.inventory_level_invalid"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}

var customerErrorRules = []mappedHandlerError{
	{target: service.ErrCustomerNotFound, code: response.CodeNotFound, key: "error.customer_not_found"},
	{target: service.ErrMembershipInvalid, code: response.CodeBadRequest, key: "error.membership_invalid"},
}
