package service

import (
	"unicode"

	"github.com/dujiao-next/storefront/internal/config"
)

// bcrypt 只处理前 72 字节，超出部分会被静默忽略
const maxPasswordBytes = 72

// PasswordPolicyError 密码不满足策略，Key/Args 对应提示文案与参数，errors.Is 匹配 ErrWeakPassword
type PasswordPolicyError struct {
	key  string
	args []interface{}
}

func (e *PasswordPolicyError) Error() string { return e.key }

func (e *PasswordPolicyError) Is(target error) bool { return target == ErrWeakPassword }

// Key 提示文案 key
func (e *PasswordPolicyError) Key() string { return e.key }

// Args 提示文案参数
func (e *PasswordPolicyError) Args() []interface{} { return e.args }

func policyViolation(key string, args ...interface{}) error {
	return &PasswordPolicyError{key: key, args: args}
}

// validatePassword 按配置校验长度与字符组成
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if len(password) > maxPasswordBytes {
		return policyViolation("error.password_max_length", maxPasswordBytes)
	}
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return policyViolation("error.password_min_length", policy.MinLength)
	}

	var hasLetter, hasNumber bool
	for _, r := range password {
		hasLetter = hasLetter || unicode.IsLetter(r)
		hasNumber = hasNumber || unicode.IsDigit(r)
	}
	if policy.RequireLetter && !hasLetter {
		return policyViolation("error.password_require_letter")
	}
	if policy.RequireNumber && !hasNumber {
		return policyViolation("error.password_require_number")
	}
	return nil
}
