package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart 匿名购物车，仅通过 ID 访问
type Cart struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUID
	CreatedAt time.Time `gorm:"index" json:"created_at"`      // 创建时间

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// BeforeCreate 生成 UUID
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartItem 购物车项，(cart_id, product_id) 唯一
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                // 主键
	CartID    string    `gorm:"size:36;not null;uniqueIndex:idx_cart_item_cart_product" json:"cart"` // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_item_cart_product" json:"product_id"`   // 商品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                            // 数量
	CreatedAt time.Time `json:"created_at"`                                                          // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                          // 更新时间

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
