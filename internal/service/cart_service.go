package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// CartProduct 购物车项中的商品摘要
type CartProduct struct {
	ID    uint         `json:"id"`
	Title string       `json:"title"`
	Price models.Money `json:"price"`
}

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ID         uint         `json:"id"`
	Product    CartProduct  `json:"product"`
	Quantity   int          `json:"quantity"`
	TotalPrice models.Money `json:"total_price"`
}

// CartDetail 购物车详情（含明细与合计）
type CartDetail struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	Items      []CartItemDetail `json:"items"`
	TotalPrice models.Money     `json:"total_price"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Create 创建空购物车
func (s *CartService) Create() (*CartDetail, error) {
	cart := &models.Cart{}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return buildCartDetail(cart), nil
}

// Get 获取购物车详情
func (s *CartService) Get(cartID string) (*CartDetail, error) {
	cart, err := s.cartRepo.GetWithItems(normalizeCartID(cartID))
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return buildCartDetail(cart), nil
}

// Delete 删除购物车及其明细
func (s *CartService) Delete(cartID string) error {
	cart, err := s.requireCart(cartID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(cart.ID)
}

// ListItems 获取购物车明细
func (s *CartService) ListItems(cartID string) ([]CartItemDetail, error) {
	cart, err := s.requireCart(cartID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for i := range items {
		details = append(details, buildCartItemDetail(&items[i]))
	}
	return details, nil
}

// GetItem 获取购物车内单个明细
func (s *CartService) GetItem(cartID string, itemID uint) (*CartItemDetail, error) {
	cart, err := s.requireCart(cartID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	detail := buildCartItemDetail(item)
	return &detail, nil
}

// AddItem 添加商品到购物车，已存在时覆盖数量
func (s *CartService) AddItem(cartID string, productID uint, quantity int) (*CartItemDetail, error) {
	if quantity < 1 {
		return nil, ErrCartItemQuantityInvalid
	}
	cart, err := s.requireCart(cartID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.cartRepo.GetItemByProduct(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.cartRepo.CreateItem(item); err != nil {
			// 并发添加同一商品时唯一索引冲突，回退为覆盖数量
			current, lookupErr := s.cartRepo.GetItemByProduct(cart.ID, productID)
			if lookupErr != nil || current == nil {
				return nil, fmt.Errorf("create cart item: %w", err)
			}
			return s.overwriteQuantity(cart.ID, current.ID, quantity)
		}
		return s.GetItem(cart.ID, item.ID)
	}
	return s.overwriteQuantity(cart.ID, existing.ID, quantity)
}

// UpdateItemQuantity 更新购物车明细数量
func (s *CartService) UpdateItemQuantity(cartID string, itemID uint, quantity int) (*CartItemDetail, error) {
	if quantity < 1 {
		return nil, ErrCartItemQuantityInvalid
	}
	cart, err := s.requireCart(cartID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return s.overwriteQuantity(cart.ID, item.ID, quantity)
}

// RemoveItem 删除购物车明细
func (s *CartService) RemoveItem(cartID string, itemID uint) error {
	cart, err := s.requireCart(cartID)
	if err != nil {
		return err
	}
	affected, err := s.cartRepo.DeleteItem(cart.ID, itemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// PurgeStale 清理自 since 起无活动的购物车，零值表示不清理
func (s *CartService) PurgeStale(since time.Time) (int64, error) {
	if since.IsZero() {
		return 0, nil
	}
	return s.cartRepo.DeleteInactiveSince(since)
}

func (s *CartService) overwriteQuantity(cartID string, itemID uint, quantity int) (*CartItemDetail, error) {
	if err := s.cartRepo.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	return s.GetItem(cartID, itemID)
}

func (s *CartService) requireCart(cartID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByID(normalizeCartID(cartID))
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func normalizeCartID(cartID string) string {
	return strings.ToLower(strings.TrimSpace(cartID))
}

func buildCartItemDetail(item *models.CartItem) CartItemDetail {
	detail := CartItemDetail{
		ID:       item.ID,
		Quantity: item.Quantity,
		Product:  CartProduct{ID: item.ProductID},
	}
	if item.Product != nil {
		detail.Product.Title = item.Product.Title
		detail.Product.Price = item.Product.Price
		detail.TotalPrice = item.Product.Price.Times(item.Quantity)
	}
	return detail
}

func buildCartDetail(cart *models.Cart) *CartDetail {
	detail := &CartDetail{
		ID:        cart.ID,
		CreatedAt: cart.CreatedAt,
		Items:     make([]CartItemDetail, 0, len(cart.Items)),
	}
	total := models.Money{}
	for i := range cart.Items {
		item := buildCartItemDetail(&cart.Items[i])
		total = total.Plus(item.TotalPrice)
		detail.Items = append(detail.Items, item)
	}
	detail.TotalPrice = total
	return detail
}
