package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dujiao-next/storefront/internal/authz"
	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	adminhandlers "github.com/dujiao-next/storefront/internal/http/handlers/admin"
	publichandlers "github.com/dujiao-next/storefront/internal/http/handlers/public"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	RegisterValidators()
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	authRule := RateLimitRule{
		Prefix:        cache.Key("rate", "auth"),
		WindowSeconds: cfg.Security.AuthRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.AuthRateLimit.MaxRequests,
		MessageKey:    "error.auth_too_many",
	}
	cartRule := RateLimitRule{
		Prefix:        cache.Key("rate", "cart"),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
	}
	authRateLimit := RateLimitMiddleware(redisClient, authRule, KeyByIPAndJSONField("email"))
	cartCreateRateLimit := RateLimitMiddleware(redisClient, cartRule, KeyByIP)
	cartWriteRateLimit := RateLimitMiddleware(redisClient, cartRule, KeyByIPAndParam("cart_id"))

	userAuth := UserJWTAuthMiddleware(c.AuthService)
	staffOnly := StaffOnlyMiddleware()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if c.Metrics != nil {
		r.Use(c.Metrics.HTTP.Middleware())
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "not found")
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authRateLimit, publicHandler.Register)
			auth.POST("/login", authRateLimit, publicHandler.Login)
			auth.GET("/me", userAuth, publicHandler.GetCurrentUser)
		}

		// 匿名购物车（凭 cart_id 访问）
		carts := apiV1.Group("/carts")
		{
			carts.POST("", cartCreateRateLimit, publicHandler.CreateCart)
			carts.GET("/:cart_id", publicHandler.GetCart)
			carts.DELETE("/:cart_id", publicHandler.DeleteCart)
			carts.GET("/:cart_id/items", publicHandler.ListCartItems)
			carts.POST("/:cart_id/items", cartWriteRateLimit, publicHandler.AddCartItem)
			carts.GET("/:cart_id/items/:item_id", publicHandler.GetCartItem)
			carts.PATCH("/:cart_id/items/:item_id", cartWriteRateLimit, publicHandler.UpdateCartItem)
			carts.DELETE("/:cart_id/items/:item_id", publicHandler.DeleteCartItem)
		}

		// 订单（登录可见，写操作由 handler 校验员工身份以返回 403）
		orders := apiV1.Group("/orders", userAuth)
		{
			orders.POST("", publicHandler.CreateOrder)
			orders.GET("", publicHandler.GetOrders)
			orders.GET("/:order_id", publicHandler.GetOrder)
			orders.PATCH("/:order_id", publicHandler.UpdateOrder)
			orders.DELETE("/:order_id", publicHandler.DeleteOrder)
		}

		// 商品目录（读公开，写需员工）
		apiV1.GET("/collections", publicHandler.GetCollections)
		apiV1.GET("/collections/:id", publicHandler.GetCollection)
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/products/:id/reviews", publicHandler.GetReviews)
		apiV1.POST("/products/:id/reviews", publicHandler.CreateReview)
		apiV1.GET("/products/:id/reviews/:review_id", publicHandler.GetReview)
		apiV1.GET("/promotions", publicHandler.GetPromotions)

		catalog := apiV1.Group("", userAuth, staffOnly)
		{
			catalog.POST("/collections", publicHandler.CreateCollection)
			catalog.PUT("/collections/:id", publicHandler.UpdateCollection)
			catalog.PATCH("/collections/:id", publicHandler.UpdateCollection)
			catalog.DELETE("/collections/:id", publicHandler.DeleteCollection)

			catalog.POST("/products", publicHandler.CreateProduct)
			catalog.PUT("/products/:id", publicHandler.UpdateProduct)
			catalog.PATCH("/products/:id", publicHandler.PatchProduct)
			catalog.DELETE("/products/:id", publicHandler.DeleteProduct)
			catalog.POST("/products/:id/images", publicHandler.AddProductImage)
			catalog.DELETE("/products/:id/images/:image_id", publicHandler.DeleteProductImage)
			catalog.PUT("/products/:id/reviews/:review_id", publicHandler.UpdateReview)
			catalog.PATCH("/products/:id/reviews/:review_id", publicHandler.UpdateReview)
			catalog.DELETE("/products/:id/reviews/:review_id", publicHandler.DeleteReview)

			catalog.POST("/promotions", publicHandler.CreatePromotion)
			catalog.PUT("/promotions/:id", publicHandler.UpdatePromotion)
			catalog.DELETE("/promotions/:id", publicHandler.DeletePromotion)
		}

		// 顾客档案
		customers := apiV1.Group("/customers", userAuth)
		{
			customers.GET("/me", publicHandler.GetMyCustomer)
			customers.PUT("/me", publicHandler.UpdateMyCustomer)
			customers.GET("", staffOnly, publicHandler.GetCustomers)
			customers.GET("/:id", staffOnly, publicHandler.GetCustomer)
			customers.PUT("/:id", staffOnly, publicHandler.UpdateCustomer)
		}

		// 管理端（员工 + RBAC）
		admin := apiV1.Group("/admin", userAuth, staffOnly)
		{
			authorized := admin.Group("", AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/reports/overview", adminHandler.GetReportOverview)
				authorized.GET("/reports/inventory", adminHandler.GetInventoryReport)
				authorized.POST("/products/clear-inventory", adminHandler.ClearInventory)
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.PATCH("/customers/:id/membership", adminHandler.UpdateCustomerMembership)
			}

			admin.GET("/authz/me", adminHandler.GetAuthzMe)
			superuser := admin.Group("/authz", SuperuserOnlyMiddleware())
			{
				superuser.GET("/roles", adminHandler.ListAuthzRoles)
				superuser.POST("/roles", adminHandler.CreateAuthzRole)
				superuser.GET("/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				superuser.POST("/policies", adminHandler.GrantAuthzPolicy)
				superuser.DELETE("/policies", adminHandler.RevokeAuthzPolicy)
				superuser.GET("/users/:id/roles", adminHandler.GetAuthzUserRoles)
				superuser.PUT("/users/:id/roles", adminHandler.SetAuthzUserRoles)
				superuser.GET("/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 指标
	if c.Metrics != nil && cfg.Metrics.Enabled {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(c.Metrics.Handler()))
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK
		if err := pingDatabase(); err != nil {
			status["status"] = "degraded"
			status["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
		if cache.Enabled() {
			status["redis"] = "ok"
			if err := cache.Ping(ctx.Request.Context()); err != nil {
				status["redis"] = "unavailable"
			}
		}
		ctx.JSON(code, status)
	})

	return r
}

func pingDatabase() error {
	if models.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") || strings.HasPrefix(item.Path, "/api/v1/admin/authz/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
