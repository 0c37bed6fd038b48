package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 登录态校验所需的用户快照，缓存于 Redis 以免每次请求查询 users 表
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	IsStaff      bool   `json:"is_staff"`
	IsSuperuser  bool   `json:"is_superuser"`
	TokenVersion uint64 `json:"token_version"`
	CachedAt     int64  `json:"cached_at"`
}

// Active 用户是否处于可登录状态
func (s *UserAuthState) Active() bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.Status), constants.UserStatusActive)
}

// AcceptsTokenVersion Token 版本是否与当前用户一致（改密或禁用后旧 Token 失效）
func (s *UserAuthState) AcceptsTokenVersion(version uint64) bool {
	return s != nil && s.TokenVersion == version
}

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 从用户记录构建快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Email:        user.Email,
		Status:       user.Status,
		IsStaff:      user.IsStaff,
		IsSuperuser:  user.IsSuperuser,
		TokenVersion: user.TokenVersion,
		CachedAt:     time.Now().Unix(),
	}
}

// GetUserAuthState 读取快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, authStateKey(userID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateCacheTTL)
}
