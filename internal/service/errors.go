package service

import "errors"

// 错误分类
const (
	ErrorKindValidation  = "validation_error"
	ErrorKindNotFound    = "not_found"
	ErrorKindPermission  = "permission_error"
	ErrorKindConflict    = "conflict_error"
	ErrorKindTransaction = "transaction_error"
	ErrorKindInternal    = "internal_error"
)

// 通用错误
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidPage      = errors.New("invalid pagination")
)

// 购物车错误
var (
	ErrCartNotFound            = errors.New("cart not found")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrCartItemQuantityInvalid = errors.New("quantity must be at least 1")
)

// 订单错误
var (
	ErrCartNotExist       = errors.New("cart does not exist")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
	ErrOrderCreateFailed  = errors.New("order creation failed")
	ErrCustomerNotFound   = errors.New("customer not found")
)

// 商品目录错误
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrProductInUse           = errors.New("product is referenced by order items")
	ErrProductTitleRequired   = errors.New("product title is required")
	ErrProductPriceInvalid    = errors.New("price must be between 1 and 9999.99")
	ErrProductInventoryNeg    = errors.New("inventory must not be negative")
	ErrCollectionNotFound     = errors.New("collection not found")
	ErrCollectionInUse        = errors.New("collection still has products")
	ErrCollectionTitleEmpty   = errors.New("collection title is required")
	ErrFeaturedProductInvalid = errors.New("featured product does not exist")
	ErrProductImageNotFound   = errors.New("product image not found")
	ErrProductImageInvalid    = errors.New("product image is required")
	ErrPromotionNotFound      = errors.New("promotion not found")
	ErrPromotionInvalid       = errors.New("promotion description is required and discount must be within 0..1")
	ErrReviewNotFound         = errors.New("review not found")
	ErrReviewInvalid          = errors.New("review name and description are required")
)

// 账号与顾客错误
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMembershipInvalid  = errors.New("membership must be BASIC or Premium")
	ErrBirthDateInvalid   = errors.New("birth date must be YYYY-MM-DD")
)

// 报表错误
var (
	ErrReportRangeInvalid    = errors.New("report range invalid")
	ErrInventoryLevelInvalid = errors.New("inventory level must be low, medium or high")
)

var errorKinds = []struct {
	kind    string
	targets []error
}{
	{ErrorKindTransaction, []error{ErrOrderCreateFailed}},
	{ErrorKindPermission, []error{ErrPermissionDenied, ErrInvalidCredentials, ErrUserDisabled, ErrInvalidToken}},
	{ErrorKindConflict, []error{ErrProductInUse, ErrCollectionInUse, ErrEmailExists}},
	{ErrorKindNotFound, []error{
		ErrNotFound, ErrCartNotFound, ErrCartItemNotFound, ErrOrderNotFound, ErrCustomerNotFound,
		ErrProductNotFound, ErrCollectionNotFound, ErrProductImageNotFound, ErrPromotionNotFound, ErrReviewNotFound,
	}},
	{ErrorKindValidation, []error{
		ErrInvalidPage, ErrCartItemQuantityInvalid, ErrCartNotExist, ErrCartEmpty, ErrOrderStatusInvalid,
		ErrProductTitleRequired, ErrProductPriceInvalid, ErrProductInventoryNeg, ErrCollectionTitleEmpty,
		ErrFeaturedProductInvalid, ErrProductImageInvalid, ErrPromotionInvalid, ErrReviewInvalid,
		ErrInvalidEmail, ErrWeakPassword, ErrMembershipInvalid, ErrBirthDateInvalid, ErrReportRangeInvalid,
		ErrInventoryLevelInvalid,
	}},
}

// ErrorKind 返回错误所属分类，未识别的错误归为 internal_error
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, group := range errorKinds {
		for _, target := range group.targets {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return ErrorKindInternal
}
