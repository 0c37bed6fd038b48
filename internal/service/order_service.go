package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/metrics"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	customerRepo  repository.CustomerRepository
	queueClient   *queue.Client
	metrics       *metrics.StoreMetrics
	expireMinutes int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, customerRepo repository.CustomerRepository, queueClient *queue.Client, storeMetrics *metrics.StoreMetrics, expireMinutes int) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		customerRepo:  customerRepo,
		queueClient:   queueClient,
		metrics:       storeMetrics,
		expireMinutes: expireMinutes,
	}
}

// OrderListInput 订单列表查询输入
type OrderListInput struct {
	Page       int
	PageSize   int
	Status     string
	CustomerID uint // 仅员工可指定
}

// PlaceOrderForUser 为登录用户下单（解析其顾客档案）
func (s *OrderService) PlaceOrderForUser(userID uint, cartID string) (*models.Order, error) {
	customer, err := s.customerRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return s.PlaceOrder(customer.ID, cartID)
}

// PlaceOrder 将购物车转换为订单
// 订单、订单项创建与购物车删除在同一事务内完成，单价在事务内读取并快照
func (s *OrderService) PlaceOrder(customerID uint, cartID string) (*models.Order, error) {
	cartID = normalizeCartID(cartID)
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	var orderID uint
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.GetWithItems(cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotExist
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, cartItem := range cart.Items {
			if cartItem.Product == nil {
				return ErrProductNotFound
			}
			items = append(items, models.OrderItem{
				ProductID: cartItem.ProductID,
				Quantity:  cartItem.Quantity,
				UnitPrice: cartItem.Product.Price,
			})
		}

		order := &models.Order{
			CustomerID:    customerID,
			PaymentStatus: constants.OrderStatusPending,
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		if err := cartRepo.Delete(cart.ID); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartNotExist) || errors.Is(err, ErrCartEmpty) {
			return nil, err
		}
		s.metrics.IncOrderPlaceFailure()
		logger.Errorw("order_place_failed", "customer_id", customerID, "cart_id", cartID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOrderCreateFailed, err)
	}

	s.metrics.IncOrdersPlaced()
	s.schedulePaymentTimeout(orderID)

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	logger.Infow("order_placed",
		"order_id", order.ID,
		"customer_id", customerID,
		"items", len(order.Items),
		"total", order.Total().String(),
	)
	return order, nil
}

func (s *OrderService) schedulePaymentTimeout(orderID uint) {
	if s.expireMinutes <= 0 || s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	delay := time.Duration(s.expireMinutes) * time.Minute
	if err := s.queueClient.EnqueueOrderPaymentTimeout(queue.OrderPaymentTimeoutPayload{OrderID: orderID}, delay); err != nil {
		logger.Warnw("order_payment_timeout_enqueue_failed", "order_id", orderID, "error", err)
	}
}

// List 订单列表，非员工仅能看到自己的订单
func (s *OrderService) List(requester Requester, input OrderListInput) ([]models.Order, int64, error) {
	filter := repository.OrderListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Status:   normalizeOrderStatus(input.Status),
	}
	if requester.IsStaff {
		filter.CustomerID = input.CustomerID
	} else {
		customer, err := s.customerRepo.GetByUserID(requester.UserID)
		if err != nil {
			return nil, 0, err
		}
		if customer == nil {
			return []models.Order{}, 0, nil
		}
		filter.CustomerID = customer.ID
	}
	return s.orderRepo.List(filter)
}

// Get 获取订单详情，非员工访问他人订单视为不存在
func (s *OrderService) Get(requester Requester, orderID uint) (*models.Order, error) {
	if requester.IsStaff {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		return order, nil
	}
	customer, err := s.customerRepo.GetByUserID(requester.UserID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndCustomer(orderID, customer.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 员工更新订单支付状态
func (s *OrderService) UpdateStatus(requester Requester, orderID uint, status string) (*models.Order, error) {
	if !requester.IsStaff {
		return nil, ErrPermissionDenied
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	target := normalizeOrderStatus(status)
	if target == "" || !canTransitOrderStatus(order.PaymentStatus, target) {
		return nil, ErrOrderStatusInvalid
	}
	updated, err := s.orderRepo.UpdateStatus(order.ID, order.PaymentStatus, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 并发修改导致当前状态已变化
		return nil, ErrOrderStatusInvalid
	}
	s.metrics.IncOrderTransition(target)
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"from", order.PaymentStatus,
		"to", target,
		"operator_user_id", requester.UserID,
	)
	return s.orderRepo.GetByID(order.ID)
}

// ExpirePending 支付超时：仍为待支付的订单置为失败
func (s *OrderService) ExpirePending(orderID uint) (bool, error) {
	if orderID == 0 {
		return false, nil
	}
	updated, err := s.orderRepo.UpdateStatus(orderID, constants.OrderStatusPending, constants.OrderStatusFailed)
	if err != nil {
		return false, err
	}
	if updated {
		s.metrics.IncOrderTransition(constants.OrderStatusFailed)
	}
	return updated, nil
}

// Delete 员工删除订单（含订单项）
func (s *OrderService) Delete(requester Requester, orderID uint) error {
	if !requester.IsStaff {
		return ErrPermissionDenied
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Delete(order.ID)
	})
	if err != nil {
		return err
	}
	logger.Infow("order_deleted", "order_id", order.ID, "operator_user_id", requester.UserID)
	return nil
}
