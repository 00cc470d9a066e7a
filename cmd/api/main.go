package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-checkout/internal/handler"
	"go-pos-checkout/internal/ledger"
	"go-pos-checkout/internal/middleware"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/pricing"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/service"
	"go-pos-checkout/internal/ws"
	"go-pos-checkout/pkg/clock"
	"go-pos-checkout/pkg/config"
	"go-pos-checkout/pkg/database"
	"go-pos-checkout/pkg/jwt"
	"go-pos-checkout/pkg/logging"
	"go-pos-checkout/pkg/telemetry"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Telemetry
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()

	// 2. Database
	gormLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := database.ConnectDB(cfg.DSN(), gormLevel)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("database ready")

	userRepo := repository.NewUserRepo(db)
	if err := seed(
		repository.NewPrivilegeRepo(db),
		repository.NewRoleRepo(db),
		userRepo,
		log,
	); err != nil {
		return err
	}

	// 3. Redis (optional, login rate limit only)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, login rate limit disabled", "addr", cfg.RedisAddr, "error", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// 4. WebSocket hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 5. Wiring
	clk := clock.Real()
	calc, err := pricing.NewCalculator(cfg.TaxRate)
	if err != nil {
		return err
	}
	stockLedger := ledger.New(clk)
	gateway := repository.NewGateway(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	adjustRepo := repository.NewAdjustmentRepo(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	saleService, err := service.NewSaleService(service.SaleDeps{
		Gateway:    gateway,
		Sales:      saleRepo,
		Calculator: calc,
		Ledger:     stockLedger,
		Identity:   service.ContextIdentity{},
		Notifier:   hub,
		Clock:      clk,
		Logger:     log,
		Tracer:     otel.Tracer(cfg.ServiceName),
		Meter:      otel.Meter(cfg.ServiceName),
	})
	if err != nil {
		return err
	}
	invService := service.NewInventoryService(gateway, productRepo, adjustRepo, stockLedger, service.ContextIdentity{}, hub, log)
	dashService := service.NewDashboardService(adjustRepo, saleRepo, clk)
	authService := service.NewAuthService(userRepo, tokens)

	saleHandler := handler.NewSaleHandler(saleService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Checkout v1.0",
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login",
		middleware.RateLimiter(rdb, middleware.RateLimitConfig{Prefix: "rate_limit:login", Limit: 5, Period: time.Minute}, log),
		authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	protected := api.Group("", middleware.RequireAuth(tokens, userRepo))

	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetProducts)
	protected.Get("/products/low-stock", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetLowStock)
	protected.Get("/products/barcode/:barcode", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetProductByBarcode)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), invHandler.UpdateProduct)
	protected.Post("/products/:id/stock", middleware.RequirePrivilege(model.PrivStockAdjust), invHandler.AdjustStock)
	protected.Get("/stock-adjustments", middleware.RequireAnyPrivilege(model.PrivStockAdjust, model.PrivDashboardView), invHandler.GetAdjustments)

	protected.Post("/sales/quote", middleware.RequirePrivilege(model.PrivSaleCreate), saleHandler.Quote)
	protected.Post("/sales", middleware.RequirePrivilege(model.PrivSaleCreate), saleHandler.Checkout)
	protected.Get("/sales", middleware.RequirePrivilege(model.PrivSaleView), saleHandler.ListSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege(model.PrivSaleView), saleHandler.GetSale)

	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetStockMovement)
	protected.Get("/dashboard/sales-summary", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetSalesSummary)

	reports := protected.Group("/reports", middleware.RequirePrivilege(model.PrivDashboardView))
	reports.Get("/top-products", dashHandler.GetTopProducts)
	reports.Get("/profit", dashHandler.GetProfitReport)
	reports.Get("/daily-sales", dashHandler.GetDailySales)

	// WebSocket: token comes from ?token= since browsers cannot set headers here.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, middleware.RequireAuth(tokens, userRepo))
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
		defer hub.Unregister(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Serve until signalled
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
