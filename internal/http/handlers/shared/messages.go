package shared

// messages 错误消息表（key -> 提示文案）
var messages = map[string]string{
	"error.bad_request":               "invalid request",
	"error.unauthorized":              "authentication credentials were not provided or are invalid",
	"error.forbidden":                 "you do not have permission to perform this action",
	"error.not_found":                 "not found",
	"error.too_many_requests":         "too many requests, please retry later",
	"error.rate_limit_unavailable":    "rate limiter unavailable",
	"error.auth_too_many":             "too many authentication attempts",
	"error.internal":                  "internal server error",
	"error.user_id_invalid":           "invalid user id",
	"error.user_id_type_invalid":      "invalid user id type",
	"error.user_disabled":             "user disabled",
	"error.user_not_found":            "user not found",
	"error.email_invalid":             "invalid email",
	"error.email_exists":              "email already registered",
	"error.password_weak":             "password does not satisfy policy",
	"error.password_min_length":       "password must be at least %d characters",
	"error.password_max_length":       "password must be at most %d bytes",
	"error.password_require_letter":   "password must contain a letter",
	"error.password_require_number":   "password must contain a number",
	"error.login_invalid":             "invalid email or password",
	"error.register_failed":           "registration failed",
	"error.login_failed":              "login failed",
	"error.cart_not_found":            "cart not found",
	"error.cart_item_not_found":       "cart item not found",
	"error.cart_quantity_invalid":     "quantity must be at least 1",
	"error.cart_id_required":          "cart_id is required",
	"error.cart_not_exist":            "no cart with the given id was found",
	"error.cart_empty":                "the cart is empty",
	"error.cart_fetch_failed":         "failed to fetch cart",
	"error.cart_update_failed":        "failed to update cart",
	"error.order_not_found":           "order not found",
	"error.order_status_invalid":      "order status transition not allowed",
	"error.order_create_failed":       "order creation failed, please retry",
	"error.order_fetch_failed":        "failed to fetch orders",
	"error.order_update_failed":       "failed to update order",
	"error.order_delete_failed":       "failed to delete order",
	"error.customer_not_found":        "customer not found",
	"error.customer_fetch_failed":     "failed to fetch customers",
	"error.customer_update_failed":    "failed to update customer",
	"error.membership_invalid":        "membership must be BASIC or Premium",
	"error.birth_date_invalid":        "birth date must be YYYY-MM-DD and not in the future",
	"error.product_not_found":         "product not found",
	"error.product_in_use":            "product cannot be deleted because it is associated with an order item",
	"error.product_title_required":    "product title is required",
	"error.product_price_invalid":     "price must be between 1 and 9999.99",
	"error.product_inventory_invalid": "inventory must not be negative",
	"error.product_fetch_failed":      "failed to fetch products",
	"error.product_save_failed":       "failed to save product",
	"error.product_delete_failed":     "failed to delete product",
	"error.product_image_not_found":   "product image not found",
	"error.product_image_invalid":     "image is required",
	"error.collection_not_found":      "collection not found",
	"error.collection_in_use":         "collection cannot be deleted because it includes one or more products",
	"error.collection_title_required": "collection title is required",
	"error.featured_product_invalid":  "featured product does not exist",
	"error.collection_fetch_failed":   "failed to fetch collections",
	"error.collection_save_failed":    "failed to save collection",
	"error.promotion_not_found":       "promotion not found",
	"error.promotion_invalid":         "promotion description is required and discount must be within 0..1",
	"error.promotion_fetch_failed":    "failed to fetch promotions",
	"error.promotion_save_failed":     "failed to save promotion",
	"error.review_not_found":          "review not found",
	"error.review_invalid":            "review name and description are required",
	"error.review_fetch_failed":       "failed to fetch reviews",
	"error.review_save_failed":        "failed to save review",
	"error.report_range_invalid":      "report range invalid",
	"error.report_fetch_failed":       "failed to build report",
	"error.inventory_level_invalid":   "inventory level must be low, medium or high",
	"error.inventory_clear_failed":    "failed to clear inventory",
	"error.authz_role_invalid":        "invalid role",
	"error.authz_policy_invalid":      "invalid policy",
	"error.authz_failed":              "authorization check failed",
	"error.authz_update_failed":       "failed to update authorization",
	"error.authz_builtin_immutable":   "builtin role policy cannot be revoked",
}

// Message 返回 key 对应的提示文案，未知 key 原样返回
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
