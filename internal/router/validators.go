package router

import (
	"strings"
	"sync"

	"github.com/dujiao-next/storefront/internal/constants"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var registerValidatorsOnce sync.Once

// RegisterValidators 注册自定义 binding 校验规则
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("membership", validateMembership)
		_ = engine.RegisterValidation("payment_status", validatePaymentStatus)
	})
}

// validateMembership 会员等级：BASIC / Premium（忽略大小写）
func validateMembership(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return strings.EqualFold(value, constants.MembershipBasic) || strings.EqualFold(value, constants.MembershipPremium)
}

// validatePaymentStatus 支付状态：P / C / F
func validatePaymentStatus(fl validator.FieldLevel) bool {
	switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
	case constants.OrderStatusPending, constants.OrderStatusCompleted, constants.OrderStatusFailed:
		return true
	default:
		return false
	}
}

func newRequestID() string {
	return uuid.NewString()
}
