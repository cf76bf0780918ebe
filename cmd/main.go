package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"monktrader/internal/caching"
	"monktrader/internal/config"
	"monktrader/internal/handlers"
	"monktrader/internal/jobs/background"
	"monktrader/internal/middleware"
	"monktrader/internal/notify"
	"monktrader/internal/repositories"
	"monktrader/internal/services"
	"monktrader/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Telegram.BotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Environment)
	} else {
		log.Println("WARNING: TELEGRAM_BOT_TOKEN not set, operational alerts disabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	otpRepo := repositories.NewOTPRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	promoRepo := repositories.NewPromoRepo(pool)
	configRepo := repositories.NewConfigRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	watchlistRepo := repositories.NewWatchlistRepo(pool)
	stockRepo := repositories.NewStockRepo(pool)
	supportRepo := repositories.NewSupportRepo(pool)

	// Blocked users are enforced from an in-process mirror; a failed initial
	// load is fatal rather than silently letting blocked accounts through.
	blocklist := caching.NewBlocklist(userRepo)
	if err := blocklist.Refresh(context.Background()); err != nil {
		log.Fatalf("Failed to load blocklist: %v", err)
	}

	providerVerifier, err := services.NewProviderVerifier(cfg.Google.ClientID, cfg.Apple.ClientID, cfg.Apple.KeysURL)
	if err != nil {
		log.Fatalf("Failed to initialize social login verifier: %v", err)
	}

	mailer := services.NewSparkpostMailer(cfg.Mail.APIKey)
	razorpayClient := services.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	// Services
	authService := services.NewAuthService(userRepo, otpRepo, subscriptionRepo, cache, mailer,
		providerVerifier, notifier, cfg.JWTSecret)
	pricingService := services.NewPricingService(planRepo, promoRepo, configRepo)
	settlementService := services.NewSettlementService(pricingService, razorpayClient, paymentRepo,
		planRepo, notifier)
	planService := services.NewPlanService(planRepo, cache)
	userService := services.NewUserService(userRepo, subscriptionRepo)
	watchlistService := services.NewWatchlistService(watchlistRepo)
	stockService := services.NewStockService(stockRepo)
	supportService := services.NewSupportService(supportRepo, notifier)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	planHandlers := handlers.NewPlanHandlers(planService)
	promoHandlers := handlers.NewPromoHandlers(pricingService)
	paymentHandlers := handlers.NewPaymentHandlers(settlementService)
	profileHandlers := handlers.NewProfileHandlers(userService)
	watchlistHandlers := handlers.NewWatchlistHandlers(watchlistService)
	stockHandlers := handlers.NewStockHandlers(stockService)
	supportHandlers := handlers.NewSupportHandlers(supportService)

	// Background jobs
	scheduler, err := background.NewJobScheduler(blocklist, otpRepo, notifier)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Gzip())
	e.Use(echoMiddleware.CORS())
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	// Public routes
	e.GET("/health", handlers.Health)
	e.POST("/generate_otp", authHandlers.GenerateOTP)
	e.POST("/verify_otp", authHandlers.VerifyOTP)
	e.POST("/social_login", authHandlers.SocialLogin)
	e.GET("/get_subscription_plans", planHandlers.GetSubscriptionPlans)

	// Authenticated routes
	api := e.Group("", middleware.JWTMiddleware(cfg.JWTSecret, blocklist))
	api.POST("/apply_promocode", promoHandlers.ApplyPromocode)
	api.POST("/create_order", paymentHandlers.CreateOrder)
	api.POST("/verify_payment", paymentHandlers.VerifyRazorpayPayment)
	api.POST("/verify_apple_payment", paymentHandlers.VerifyApplePayment)
	api.GET("/get_user_profile", profileHandlers.GetUserProfile)
	api.POST("/update_user_profile", profileHandlers.UpdateUserProfile)
	api.GET("/search_stock", stockHandlers.SearchStock)
	api.GET("/get_stock_details", stockHandlers.GetStockDetails)
	api.POST("/raise_support_ticket", supportHandlers.RaiseTicket)

	api.POST("/create_watchlist", watchlistHandlers.CreateWatchlist)
	api.GET("/get_watchlists", watchlistHandlers.GetWatchlists)
	api.POST("/rename_watchlist", watchlistHandlers.RenameWatchlist)
	api.POST("/delete_watchlist", watchlistHandlers.DeleteWatchlist)
	api.GET("/get_stocks_in_watchlist", watchlistHandlers.GetStocksInWatchlist)
	api.POST("/add_stock_to_watchlist", watchlistHandlers.AddStockToWatchlist)
	api.POST("/remove_stock_from_watchlist", watchlistHandlers.RemoveStockFromWatchlist)

	log.Printf("Starting server on port %s (env: %s)", cfg.HTTPPort, cfg.Environment)
	if err := e.Start(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
