package worker

import (
	"context"
	"time"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

const jobOrderPaymentTimeout = "order_payment_timeout"

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPaymentTimeout, c.handleOrderPaymentTimeout)
}

func (c *Consumer) handleOrderPaymentTimeout(_ context.Context, task *asynq.Task) (err error) {
	if c == nil || task == nil {
		logger.Debugw("worker_order_payment_timeout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	startedAt := time.Now()
	defer func() {
		if c.Metrics != nil {
			c.Metrics.Jobs.Observe(jobOrderPaymentTimeout, startedAt, err)
		}
	}()

	payload, err := queue.ParseOrderPaymentTimeoutTask(task)
	if err != nil {
		logger.Warnw("worker_order_payment_timeout_invalid_payload", "error", err)
		return err
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_payment_timeout_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	expired, err := c.OrderService.ExpirePending(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_payment_timeout_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if expired {
		logger.Infow("worker_order_payment_expired", "order_id", payload.OrderID)
	} else {
		logger.Debugw("worker_order_payment_timeout_skip_not_pending", "order_id", payload.OrderID)
	}
	return nil
}
