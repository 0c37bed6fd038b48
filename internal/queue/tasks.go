package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dujiao-next/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskOrderPaymentTimeout 订单支付超时任务类型
const TaskOrderPaymentTimeout = constants.TaskOrderPaymentTimeout

// ErrInvalidPayload 任务载荷缺少必要字段，重试无意义
var ErrInvalidPayload = errors.New("invalid task payload")

// OrderPaymentTimeoutPayload 订单支付超时任务载荷
type OrderPaymentTimeoutPayload struct {
	OrderID uint `json:"order_id"`
}

// taskID 同一订单只允许存在一个超时任务
func (p OrderPaymentTimeoutPayload) taskID() string {
	return "order-payment-timeout-" + strconv.FormatUint(uint64(p.OrderID), 10)
}

// NewOrderPaymentTimeoutTask 创建订单支付超时任务
func NewOrderPaymentTimeoutTask(payload OrderPaymentTimeoutPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, ErrInvalidPayload
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaymentTimeout, body), nil
}

// ParseOrderPaymentTimeoutTask 解析订单支付超时任务；载荷损坏时包装 asynq.SkipRetry
func ParseOrderPaymentTimeoutTask(task *asynq.Task) (OrderPaymentTimeoutPayload, error) {
	var payload OrderPaymentTimeoutPayload
	if task == nil {
		return payload, fmt.Errorf("%w: nil task: %w", ErrInvalidPayload, asynq.SkipRetry)
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("%w: %v: %w", ErrInvalidPayload, err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		return payload, fmt.Errorf("%w: order_id is required: %w", ErrInvalidPayload, asynq.SkipRetry)
	}
	return payload, nil
}
