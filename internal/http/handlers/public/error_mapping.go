package public

import (
	"errors"

	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

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
	// 未映射的业务错误按分类返回，其余记录日志后返回 fallback
	code := handlershared.CodeForError(err, fallbackCode)
	if code != fallbackCode {
		handlershared.RespondErrorWithMsg(c, code, err.Error(), nil)
		return
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrCartItemQuantityInvalid, code: response.CodeBadRequest, key: "error.cart_quantity_invalid"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var orderReadErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotExist, code: response.CodeBadRequest, key: "error.cart_not_exist"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCustomerNotFound, code: response.CodeBadRequest, key: "error.customer_not_found"},
	{target: service.ErrOrderCreateFailed, code: response.CodeUnavailable, key: "error.order_create_failed"},
}

var orderUpdateExtraErrorRules = []mappedHandlerError{
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
}

var collectionErrorRules = []mappedHandlerError{
	{target: service.ErrCollectionNotFound, code: response.CodeNotFound, key: "error.collection_not_found"},
	{target: service.ErrCollectionInUse, code: response.CodeConflict, key: "error.collection_in_use"},
	{target: service.ErrCollectionTitleEmpty, code: response.CodeBadRequest, key: "error.collection_title_required"},
	{target: service.ErrFeaturedProductInvalid, code: response.CodeBadRequest, key: "error.featured_product_invalid"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductInUse, code: response.CodeConflict, key: "error.product_in_use"},
	{target: service.ErrProductTitleRequired, code: response.CodeBadRequest, key: "error.product_title_required"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, key: "error.product_price_invalid"},
	{target: service.ErrProductInventoryNeg, code: response.CodeBadRequest, key: "error.product_inventory_invalid"},
	{target: service.ErrCollectionNotFound, code: response.CodeBadRequest, key: "error.collection_not_found"},
	{target: service.ErrPromotionNotFound, code: response.CodeBadRequest, key: "error.promotion_not_found"},
	{target: service.ErrProductImageNotFound, code: response.CodeNotFound, key: "error.product_image_not_found"},
	{target: service.ErrProductImageInvalid, code: response.CodeBadRequest, key: "error.product_image_invalid"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, key: "error.review_not_found"},
	{target: service.ErrReviewInvalid, code: response.CodeBadRequest, key: "error.review_invalid"},
}

var promotionErrorRules = []mappedHandlerError{
	{target: service.ErrPromotionNotFound, code: response.CodeNotFound, key: "error.promotion_not_found"},
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, key: "error.promotion_invalid"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, key: "error.password_weak"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

var customerErrorRules = []mappedHandlerError{
	{target: service.ErrCustomerNotFound, code: response.CodeNotFound, key: "error.customer_not_found"},
	{target: service.ErrMembershipInvalid, code: response.CodeBadRequest, key: "error.membership_invalid"},
	{target: service.ErrBirthDateInvalid, code: response.CodeBadRequest, key: "error.birth_date_invalid"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderReadErrorRules, orderUpdateExtraErrorRules), response.CodeInternal, "error.order_update_failed")
}
