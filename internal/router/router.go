package router

import (
	"fmt"
	"strings"

	"github.com/homemart-shop/internal/cache"
	"github.com/homemart-shop/internal/config"
	adminhandlers "github.com/homemart-shop/internal/http/handlers/admin"
	publichandlers "github.com/homemart-shop/internal/http/handlers/public"
	"github.com/homemart-shop/internal/logger"
	"github.com/homemart-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hm"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（退款凭证等上传图片）
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetUserProfile)
			user.PUT("/me/password", publicHandler.UserChangePassword)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)
			user.POST("/orders/:id/cancel", publicHandler.RequestCancellation)
			user.POST("/orders/:id/refund", publicHandler.RequestRefund)
			user.GET("/orders/:id/settlement", publicHandler.GetOrderSettlement)
			user.GET("/settlement", publicHandler.GetSettlement)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 订单管理
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.POST("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)
				authorized.POST("/orders/:id/tracking", adminHandler.UpdateAdminOrderTracking)
				authorized.POST("/orders/:id/cancel", adminHandler.CancelAdminOrder)
				authorized.DELETE("/orders/:id", adminHandler.DeleteAdminOrder)

				// 取消与退款审批
				authorized.GET("/cancellations", adminHandler.GetAdminCancellations)
				authorized.POST("/cancellations/:id/:decision", adminHandler.DecideAdminCancellation)
				authorized.GET("/refunds", adminHandler.GetAdminRefunds)
				authorized.POST("/refunds/:id/:decision", adminHandler.DecideAdminRefund)

				// 结算管理
				authorized.GET("/settlements", adminHandler.GetAdminSettlements)
				authorized.GET("/settlements/by-group", adminHandler.GetAdminSettlementByGroup)
				authorized.POST("/settlements", adminHandler.SetAdminSettlement)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
