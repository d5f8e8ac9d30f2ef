package provider

import (
	"github.com/homemart-shop/internal/cache"
	"github.com/homemart-shop/internal/config"
	"github.com/homemart-shop/internal/logger"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/queue"
	"github.com/homemart-shop/internal/repository"
	"github.com/homemart-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	OrderRepo        repository.OrderRepository
	CancellationRepo repository.CancellationRepository
	RefundRepo       repository.RefundRepository
	SettlementRepo   repository.SettlementRepository

	// Services
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	OrderService        *service.OrderService
	CancellationService *service.CancellationService
	RefundService       *service.RefundService
	SettlementService   *service.SettlementService
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

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CancellationRepo = repository.NewCancellationRepository(db)
	c.RefundRepo = repository.NewRefundRepository(db)
	c.SettlementRepo = repository.NewSettlementRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CancellationRepo, c.RefundRepo, c.QueueClient)
	c.CancellationService = service.NewCancellationService(c.OrderRepo, c.CancellationRepo, c.QueueClient)
	c.RefundService = service.NewRefundService(c.OrderRepo, c.RefundRepo, c.QueueClient)
	c.SettlementService = service.NewSettlementService(c.OrderRepo, c.SettlementRepo)
}
