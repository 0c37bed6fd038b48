package service

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
)

// orderStatusTransitions 支付状态流转表，C/F 为终态
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending: {constants.OrderStatusCompleted, constants.OrderStatusFailed},
}

// normalizeOrderStatus 统一状态码格式，未知状态返回空串
func normalizeOrderStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case constants.OrderStatusPending:
		return constants.OrderStatusPending
	case constants.OrderStatusCompleted:
		return constants.OrderStatusCompleted
	case constants.OrderStatusFailed:
		return constants.OrderStatusFailed
	default:
		return ""
	}
}

// canTransitOrderStatus 判断状态是否允许从 from 流转到 to
func canTransitOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
