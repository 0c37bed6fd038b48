package provider

import (
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/authz"
	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/metrics"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics

	// Repositories
	UserRepo       repository.UserRepository
	CustomerRepo   repository.CustomerRepository
	CollectionRepo repository.CollectionRepository
	ProductRepo    repository.ProductRepository
	PromotionRepo  repository.PromotionRepository
	ReviewRepo     repository.ReviewRepository
	CartRepo       repository.CartRepository
	OrderRepo      repository.OrderRepository
	ReportRepo     repository.ReportRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	CustomerService   *service.CustomerService
	CollectionService *service.CollectionService
	ProductService    *service.ProductService
	PromotionService  *service.PromotionService
	ReviewService     *service.ReviewService
	CartService       *service.CartService
	OrderService      *service.OrderService
	ReportService     *service.ReportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c, err := NewContainerWithDB(cfg, models.DB, queueClient)
	if err != nil {
		logger.Errorw("provider_init_container_failed", "error", err)
		panic(err)
	}
	return c
}

// NewContainerWithDB 基于指定数据库连接组装容器（测试与工具命令复用）
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) (*Container, error) {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Metrics:     metrics.New(),
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.CollectionRepo = repository.NewCollectionRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		return fmt.Errorf("init authz: %w", err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		return fmt.Errorf("bootstrap builtin roles: %w", err)
	}

	productCacheTTL := time.Duration(c.Config.Catalog.ProductCacheTTLSeconds) * time.Second

	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.CustomerRepo, c.CustomerService)
	c.CollectionService = service.NewCollectionService(c.CollectionRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CollectionRepo, c.PromotionRepo, productCacheTTL)
	c.PromotionService = service.NewPromotionService(c.PromotionRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.CustomerRepo, c.QueueClient, c.Metrics.Store, c.Config.Order.PaymentExpireMinutes)
	c.ReportService = service.NewReportService(c.ReportRepo, c.Config.Catalog)
	return nil
}
