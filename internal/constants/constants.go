package constants

// 订单支付状态常量
const (
	OrderStatusPending   = "P"
	OrderStatusCompleted = "C"
	OrderStatusFailed    = "F"
)

// 会员等级常量
const (
	MembershipBasic   = "BASIC"
	MembershipPremium = "Premium"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 库存等级（后台筛选）
const (
	InventoryLevelLow    = "low"
	InventoryLevelMedium = "medium"
	InventoryLevelHigh   = "high"
)

// 库存状态文案
const (
	InventoryStatusOutOfStock = "Out of stock"
	InventoryStatusRunningLow = "Running low on Stock"
	InventoryStatusAdequate   = "Adequate"
	InventoryStatusInStock    = "In stock"
)

// 队列与任务常量
const (
	QueueDefault            = "default"
	TaskOrderPaymentTimeout = "order:payment_timeout"
)

// 上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyIsStaff   = "is_staff"
	ContextKeyIsSuper   = "is_superuser"
)
