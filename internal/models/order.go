package models

import "time"

// Order 订单表
type Order struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CustomerID    uint      `gorm:"not null;index" json:"customer"`                          // 顾客ID
	PaymentStatus string    `gorm:"size:1;not null;default:'P';index" json:"payment_status"` // 支付状态 P/C/F
	PlacedAt      time.Time `gorm:"autoCreateTime;index" json:"placed_at"`                   // 下单时间
	UpdatedAt     time.Time `json:"updated_at"`                                              // 更新时间

	Customer *Customer   `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`  // 顾客（删除受保护）
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"items"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// Total 订单合计（按快照单价）
func (o *Order) Total() Money {
	total := Money{}
	if o == nil {
		return total
	}
	for _, item := range o.Items {
		total = total.Plus(item.UnitPrice.Times(item.Quantity))
	}
	return total
}

// OrderItem 订单项表
type OrderItem struct {
	ID        uint  `gorm:"primarykey" json:"id"`                         // 主键
	OrderID   uint  `gorm:"not null;index" json:"-"`                      // 订单ID
	ProductID uint  `gorm:"not null;index" json:"product_id"`             // 商品ID
	Quantity  int   `gorm:"not null" json:"quantity"`                     // 数量
	UnitPrice Money `gorm:"type:decimal(8,2);not null" json:"unit_price"` // 下单时单价快照

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"` // 商品（删除受保护）
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
