package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"weddinghub-backend/internal/config"
	cartrepo "weddinghub-backend/internal/domains/cart/repository"
	couponrepo "weddinghub-backend/internal/domains/coupon/repository"
	couponsvc "weddinghub-backend/internal/domains/coupon/service"
	orderhandler "weddinghub-backend/internal/domains/order/handler"
	orderrepo "weddinghub-backend/internal/domains/order/repository"
	ordersvc "weddinghub-backend/internal/domains/order/service"
	"weddinghub-backend/internal/domains/payment/gateway/zalopay"
	paymenthandler "weddinghub-backend/internal/domains/payment/handler"
	paymentsvc "weddinghub-backend/internal/domains/payment/service"
	settlementhandler "weddinghub-backend/internal/domains/settlement/handler"
	settlementsvc "weddinghub-backend/internal/domains/settlement/service"
	wallethandler "weddinghub-backend/internal/domains/wallet/handler"
	walletrepo "weddinghub-backend/internal/domains/wallet/repository"
	walletsvc "weddinghub-backend/internal/domains/wallet/service"
	"weddinghub-backend/internal/infrastructure/cache"
	"weddinghub-backend/internal/infrastructure/database"
	pkgcache "weddinghub-backend/pkg/cache"
	"weddinghub-backend/pkg/jwt"
	"weddinghub-backend/pkg/logger"
)

// Container wires configuration, infrastructure, repositories,
// services and handlers in dependency order
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *database.PostgresDB
	Cache      *cache.RedisCache
	TaskClient *asynq.Client
	JWTManager *jwt.Manager

	// Services
	CouponService     couponsvc.CouponService
	OrderService      ordersvc.OrderService
	WalletService     walletsvc.WalletService
	PaymentService    paymentsvc.PaymentService
	SettlementService settlementsvc.SettlementService

	// Handlers
	OrderHandler      *orderhandler.OrderHandler
	WalletHandler     *wallethandler.WalletHandler
	PaymentHandler    *paymenthandler.PaymentHandler
	SettlementHandler *settlementhandler.AdminHandler
}

// NewContainer builds the full dependency graph
func NewContainer() (*Container, error) {
	c := &Container{}

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// 2. Database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	c.DB = database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 3. Cache. Startup continues without Redis; the coupon service
	// degrades to direct database reads.
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		c.Cache = redisCache
	}

	// 4. Task queue client
	c.TaskClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// 5. Repositories
	orderRepository := orderrepo.NewPostgresOrderRepository(c.DB.Pool)
	cartRepository := cartrepo.NewPostgresCartRepository(c.DB.Pool)
	couponRepository := couponrepo.NewPostgresCouponRepository(c.DB.Pool)
	walletRepository := walletrepo.NewPostgresWalletRepository(c.DB.Pool)

	// 6. Payment gateway
	paymentGateway := zalopay.NewClient(cfg.ZaloPay)

	// 7. Services
	var couponCache pkgcache.Cache
	if c.Cache != nil {
		couponCache = c.Cache
	}
	c.CouponService = couponsvc.NewCouponService(couponRepository, couponCache)
	c.WalletService = walletsvc.NewWalletService(walletRepository)
	c.OrderService = ordersvc.NewOrderService(orderRepository, cartRepository,
		c.CouponService, paymentGateway, c.TaskClient)
	c.PaymentService = paymentsvc.NewPaymentService(orderRepository, paymentGateway,
		paymentsvc.PollConfig{
			PendingAfter: time.Duration(cfg.Job.PollPendingAfter) * time.Minute,
			Limit:        cfg.Job.PollPendingLimit,
		})
	c.SettlementService = settlementsvc.NewSettlementService(orderRepository, c.WalletService)

	// 8. Handlers
	c.OrderHandler = orderhandler.NewOrderHandler(c.OrderService)
	c.WalletHandler = wallethandler.NewWalletHandler(c.WalletService)
	c.PaymentHandler = paymenthandler.NewPaymentHandler(c.PaymentService)
	c.SettlementHandler = settlementhandler.NewAdminHandler(c.SettlementService, c.OrderService)

	logger.Info("container initialized", map[string]interface{}{
		"env": cfg.App.Environment,
	})

	return c, nil
}

// Cleanup releases infrastructure resources in reverse order
func (c *Container) Cleanup() {
	if c.TaskClient != nil {
		if err := c.TaskClient.Close(); err != nil {
			logger.Error("failed to close task client", err)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	logger.Info("container cleaned up", nil)
}
