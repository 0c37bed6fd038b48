package worker

import (
	"context"
	"errors"
	"time"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	jobCartPurge             = "cart_purge"
	defaultCartPurgeInterval = time.Hour
)

// Service 后台任务服务（异步队列消费 + 过期购物车清理）
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	purgeInterval time.Duration
	staleAfter    time.Duration // 0 表示不清理
}

// NewService 创建后台任务服务，队列未启用时仅运行购物车清理（若已开启）
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	svc := &Service{
		name:          "worker",
		consumer:      consumer,
		purgeInterval: resolvePurgeInterval(cfg.Cart),
		staleAfter:    resolveStaleAfter(cfg.Cart),
	}
	if cfg.Queue.Enabled {
		opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
		svc.server = asynq.NewServer(opt, serverCfg)
		svc.mux = asynq.NewServeMux()
		consumer.Register(svc.mux)
	}
	return svc, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务，阻塞至 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("worker not initialized")
	}
	if s.server != nil && s.mux != nil {
		if err := s.server.Start(s.mux); err != nil {
			return err
		}
	} else {
		logger.Infow("worker_queue_disabled")
	}
	if s.staleAfter <= 0 {
		logger.Infow("cart_purge_disabled")
		<-ctx.Done()
		return nil
	}
	s.runCartPurgeLoop(ctx)
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runCartPurgeLoop(ctx context.Context) {
	s.purgeStaleCarts(time.Now())

	ticker := time.NewTicker(s.purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.purgeStaleCarts(now)
		}
	}
}

// purgeStaleCarts 清理超过 staleAfter 无活动的购物车
func (s *Service) purgeStaleCarts(now time.Time) int64 {
	if s.staleAfter <= 0 || s.consumer.CartService == nil {
		return 0
	}
	startedAt := time.Now()
	purged, err := s.consumer.CartService.PurgeStale(now.Add(-s.staleAfter))
	if s.consumer.Metrics != nil {
		s.consumer.Metrics.Jobs.Observe(jobCartPurge, startedAt, err)
	}
	if err != nil {
		logger.Warnw("cart_purge_failed", "error", err)
		return 0
	}
	if purged > 0 {
		if s.consumer.Metrics != nil {
			s.consumer.Metrics.Store.AddCartsPurged(purged)
		}
		logger.Infow("cart_purged", "count", purged)
	}
	return purged
}

func resolvePurgeInterval(cfg config.CartConfig) time.Duration {
	if cfg.PurgeIntervalMinutes <= 0 {
		return defaultCartPurgeInterval
	}
	return time.Duration(cfg.PurgeIntervalMinutes) * time.Minute
}

func resolveStaleAfter(cfg config.CartConfig) time.Duration {
	if cfg.StaleAfterHours <= 0 {
		return 0
	}
	return time.Duration(cfg.StaleAfterHours) * time.Hour
}
