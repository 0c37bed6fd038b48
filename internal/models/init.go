package models

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

// InitDefaultAdmin 初始化默认超级管理员（同时创建顾客档案）
func InitDefaultAdmin(email, password string) error {
	var count int64
	if err := DB.Model(&User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultAdminEmail
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		user := User{
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    "Store",
			LastName:     "Admin",
			IsStaff:      true,
			IsSuperuser:  true,
			Status:       constants.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&Customer{UserID: user.ID, Membership: constants.MembershipBasic}).Error
	})
	if err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}
