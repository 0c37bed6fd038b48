package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dujiao-next/storefront/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "sf"
	defaultHost   = "127.0.0.1"
	defaultPort   = 6379
)

// store 进程内共享的 Redis 连接，未启用时所有读写均为空操作
type store struct {
	mu     sync.RWMutex
	client *redis.Client
	prefix string
}

var shared = &store{prefix: defaultPrefix}

func (s *store) current() (*redis.Client, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client, s.prefix
}

func (s *store) swap(client *redis.Client, prefix string) *redis.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.client
	s.client = client
	s.prefix = prefix
	return previous
}

// InitRedis 按配置创建 Redis 客户端；redis.enabled=false 时关闭缓存
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		return Use(nil, "")
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultPort
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return Use(client, cfg.Prefix)
}

// Use 替换共享客户端并关闭旧客户端，client 为 nil 表示禁用缓存
func Use(client *redis.Client, prefix string) error {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultPrefix
	}
	if previous := shared.swap(client, prefix); previous != nil && previous != client {
		return previous.Close()
	}
	return nil
}

// Close 关闭 Redis 客户端，之后缓存退化为空操作
func Close() error {
	_, prefix := shared.current()
	if previous := shared.swap(nil, prefix); previous != nil {
		return previous.Close()
	}
	return nil
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	client, _ := shared.current()
	return client != nil
}

// Client 获取 Redis 客户端，未启用时返回 nil
func Client() *redis.Client {
	client, _ := shared.current()
	return client
}

// Ping 检查 Redis 连通性，未启用时视为健康
func Ping(ctx context.Context) error {
	client := Client()
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

// Key 生成带全局前缀的键，如 Key("rate", "auth") -> "sf:rate:auth"
func Key(parts ...string) string {
	_, prefix := shared.current()
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, prefix)
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return strings.Join(segments, ":")
}

// GetJSON 读取 JSON 缓存；内容无法解析时删除该键并按未命中处理
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	client := Client()
	if client == nil {
		return false, nil
	}
	fullKey := Key(key)
	raw, err := client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if delErr := client.Del(ctx, fullKey).Err(); delErr != nil {
			return false, fmt.Errorf("drop corrupt cache entry %s: %w", fullKey, delErr)
		}
		return false, nil
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存，ttl<=0 时不写入
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	client := Client()
	if client == nil || ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, Key(key), payload, ttl).Err()
}

// Del 批量删除缓存
func Del(ctx context.Context, keys ...string) error {
	client := Client()
	if client == nil || len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		fullKeys = append(fullKeys, Key(key))
	}
	return client.Del(ctx, fullKeys...).Err()
}
