package admin

import (
	"github.com/dujiao-next/storefront/internal/constants"
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

func getOperatorID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextKeyUserID, "error.user_id_invalid", "error.user_id_type_invalid")
}

func getRequester(c *gin.Context) (service.Requester, bool) {
	return handlershared.GetRequester(c)
}

func parseIDParam(c *gin.Context, name, notFoundKey string) (uint, bool) {
	return handlershared.ParseUintParam(c, name, notFoundKey)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
