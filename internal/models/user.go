package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（身份提供方）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 主键
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`   // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                            // 密码哈希（不返回给前端）
	FirstName    string         `gorm:"size:150;default:''" json:"first_name"`        // 名
	LastName     string         `gorm:"size:150;default:''" json:"last_name"`         // 姓
	IsStaff      bool           `gorm:"not null;default:false;index" json:"is_staff"` // 是否员工
	IsSuperuser  bool           `gorm:"not null;default:false" json:"is_superuser"`   // 是否超级管理员
	Status       string         `gorm:"size:20;default:'active'" json:"status"`       // 账号状态
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                  // Token 版本（用于全量失效）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Customer 顾客档案表（与用户一对一）
type Customer struct {
	ID         uint       `gorm:"primarykey" json:"id"`                               // 主键
	UserID     uint       `gorm:"uniqueIndex;not null" json:"user_id"`                // 用户ID
	Phone      string     `gorm:"size:255;default:''" json:"phone"`                   // 电话
	BirthDate  *time.Time `gorm:"type:date" json:"birth_date"`                        // 生日
	Membership string     `gorm:"size:10;not null;default:'BASIC'" json:"membership"` // 会员等级
	CreatedAt  time.Time  `json:"created_at"`                                         // 创建时间
	UpdatedAt  time.Time  `json:"updated_at"`                                         // 更新时间

	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`          // 关联用户
	Addresses []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"` // 地址
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}

// Address 顾客地址表
type Address struct {
	ID         uint   `gorm:"primarykey" json:"id"`            // 主键
	CustomerID uint   `gorm:"not null;index" json:"-"`         // 顾客ID
	Street     string `gorm:"size:255;not null" json:"street"` // 街道
	City       string `gorm:"size:255;not null" json:"city"`   // 城市
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
