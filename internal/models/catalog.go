package models

import "time"

// Collection 商品集合表
type Collection struct {
	ID                uint      `gorm:"primarykey" json:"id"`                 // 主键
	Title             string    `gorm:"size:255;not null" json:"title"`       // 标题
	FeaturedProductID *uint     `gorm:"index" json:"featured_product_id"`     // 推荐商品ID（可空）
	ProductsCount     int64     `gorm:"->;-:migration" json:"products_count"` // 商品数（聚合查询填充）
	CreatedAt         time.Time `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt         time.Time `json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (Collection) TableName() string {
	return "collections"
}

// Product 商品表
type Product struct {
	ID           uint      `gorm:"primarykey" json:"id"`                    // 主键
	Title        string    `gorm:"size:255;not null;index" json:"title"`    // 标题
	Slug         string    `gorm:"size:255;not null;index" json:"slug"`     // slug
	Description  string    `gorm:"type:text" json:"description"`            // 描述
	Price        Money     `gorm:"type:decimal(8,2);not null" json:"price"` // 单价
	Inventory    int       `gorm:"not null;default:0" json:"inventory"`     // 库存
	CollectionID uint      `gorm:"not null;index" json:"collection"`        // 所属集合ID
	LastUpdate   time.Time `gorm:"autoUpdateTime" json:"last_update"`       // 最后更新时间
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                 // 创建时间

	// 关联
	Collection *Collection    `gorm:"foreignKey:CollectionID;constraint:OnDelete:RESTRICT" json:"-"`            // 所属集合（删除受保护）
	Promotions []Promotion    `gorm:"many2many:product_promotions" json:"promotions,omitempty"`                 // 促销活动
	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"` // 图片（级联删除）
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"` // 商品ID
	Image     string    `gorm:"size:512;not null" json:"image"`   // 图片地址
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}

// Promotion 促销活动表
type Promotion struct {
	ID          uint      `gorm:"primarykey" json:"id"`                 // 主键
	Description string    `gorm:"size:255;not null" json:"description"` // 描述
	Discount    float64   `gorm:"not null;default:0" json:"discount"`   // 折扣系数
	CreatedAt   time.Time `json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// Review 商品评价表
type Review struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	ProductID   uint      `gorm:"not null;index" json:"-"`                                   // 商品ID
	Name        string    `gorm:"size:255;not null" json:"name"`                             // 评价人
	Description string    `gorm:"type:text;not null" json:"description"`                     // 内容
	Date        time.Time `gorm:"autoCreateTime" json:"date"`                                // 评价日期
	Product     *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"` // 所属商品
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
