package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/driveshop/backend/internal/application/catalog"
	identityapp "github.com/driveshop/backend/internal/application/identity"
	"github.com/driveshop/backend/internal/application/notification"
	orderingapp "github.com/driveshop/backend/internal/application/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/driveshop/backend/internal/infrastructure/auth"
	"github.com/driveshop/backend/internal/infrastructure/cache"
	"github.com/driveshop/backend/internal/infrastructure/config"
	"github.com/driveshop/backend/internal/infrastructure/event"
	"github.com/driveshop/backend/internal/infrastructure/logger"
	"github.com/driveshop/backend/internal/infrastructure/mail"
	"github.com/driveshop/backend/internal/infrastructure/persistence"
	"github.com/driveshop/backend/internal/infrastructure/storage"
	"github.com/driveshop/backend/internal/interfaces/http/handler"
	"github.com/driveshop/backend/internal/interfaces/http/middleware"
	"github.com/driveshop/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	guestCartTTL  = 14 * 24 * time.Hour
	checkoutTTL   = 2 * time.Hour
	shutdownGrace = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting DriveShop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize Redis (guest carts, checkout state, token blacklist, rate limiting)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	log.Info("Redis connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	favoriteRepo := persistence.NewGormFavoriteRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Cart and checkout stores: authenticated carts persist in Postgres,
	// guest carts and checkout progress live in Redis with a TTL
	userCarts := persistence.NewGormCartStore(db.DB)
	guestCarts := cache.NewRedisCartStore(redisClient, guestCartTTL)
	checkoutStore := cache.NewRedisCheckoutStore(redisClient, checkoutTTL)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Order events are saved transactionally through the outbox
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Order, payment and cart removal commit in one transaction at checkout
	checkoutUnitOfWork := persistence.NewGormCheckoutUnitOfWork(db.DB, orderRepo, paymentRepo)

	// Listing image storage (S3-compatible, or a stub for local development)
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Using stub object storage, uploaded images will not persist")
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewRedisTokenBlacklistWithClient(redisClient)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	authService.SetTokenBlacklist(tokenBlacklist)
	userService := identityapp.NewUserService(userRepo, log)

	// Catalog services
	listingService := catalogapp.NewListingService(listingRepo, categoryRepo, tagRepo, reviewRepo, userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, listingRepo, log)
	favoriteService := catalogapp.NewFavoriteService(favoriteRepo, listingRepo, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, listingRepo, orderRepo, log)
	imageService := catalogapp.NewListingImageService(listingRepo, objectStorage, catalogapp.ImageServiceConfig{
		PublicBaseURL: cfg.Storage.PublicURL,
	}, log)

	// Ordering services
	cartService := orderingapp.NewCartService(listingRepo, userCarts, guestCarts, log)
	checkoutService := orderingapp.NewCheckoutService(listingRepo, checkoutUnitOfWork, userCarts, checkoutStore, log)
	orderService := orderingapp.NewOrderService(orderRepo, paymentRepo, listingRepo, log)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Services that publish events directly (order events go through the outbox)
	authService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	listingService.SetEventPublisher(eventBus)
	reviewService.SetEventPublisher(eventBus)

	// Notification mail: registration, seller approval, order lifecycle
	mailSender, err := mail.NewSenderFromConfig(&cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mail sender", zap.Error(err))
	}
	mailTemplates, err := mail.NewTemplates()
	if err != nil {
		log.Fatal("Failed to parse mail templates", zap.Error(err))
	}
	mailer := notification.NewMailer(mailSender, mailTemplates, log)

	// The outbox delivers at least once, so mail handlers are wrapped with
	// an idempotency check to avoid duplicate emails on redelivery.
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer idempotencyStore.Close()

	subscribeMailHandler := func(h shared.EventHandler) {
		wrapped := event.NewIdempotentHandler(h, idempotencyStore, log)
		eventBus.Subscribe(wrapped, wrapped.EventTypes()...)
	}

	userRegisteredHandler := notification.NewUserRegisteredHandler(mailer, log)
	subscribeMailHandler(userRegisteredHandler)

	sellerApprovedHandler := notification.NewSellerApprovedHandler(mailer, log)
	subscribeMailHandler(sellerApprovedHandler)

	orderPlacedHandler := notification.NewOrderPlacedHandler(mailer, userRepo, log)
	subscribeMailHandler(orderPlacedHandler)

	orderStatusHandler := notification.NewOrderStatusHandler(mailer, orderRepo, log)
	subscribeMailHandler(orderStatusHandler)

	log.Info("Event handlers registered",
		zap.Strings("user_registered_events", userRegisteredHandler.EventTypes()),
		zap.Strings("seller_approved_events", sellerApprovedHandler.EventTypes()),
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
		zap.Strings("order_status_events", orderStatusHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers order events saved inside order transactions
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cartService)
	userHandler := handler.NewUserHandler(userService)
	listingHandler := handler.NewListingHandler(listingService, imageService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	orderHandler := handler.NewOrderHandler(orderService)
	systemHandler := handler.NewSystemHandler(db.DB, redisClient)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.HTTP.RateLimitRequests,
			Window:   cfg.HTTP.RateLimitWindow,
			Counter:  middleware.NewRedisRateCounter(redisClient),
		}))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Authentication is applied per route group rather than globally:
	// browse routes share path prefixes with seller routes and differ
	// only by HTTP method, which path-based skip lists cannot express.
	requireAuth := middleware.JWT(middleware.JWTConfig{
		TokenService: jwtService,
		Blacklist:    tokenBlacklist,
	})
	optionalAuth := middleware.JWTOptional(middleware.JWTConfig{
		TokenService: jwtService,
		Blacklist:    tokenBlacklist,
	})
	guestSession := middleware.GuestSession(cfg.Cookie)

	// Identity: public auth routes. Logout validates its own bearer token,
	// and login carries the guest session cookie so the cart can merge.
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.Use(guestSession)
	if cfg.HTTP.AuthRateLimitEnabled {
		authRoutes.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Requests:  cfg.HTTP.AuthRateLimitRequests,
			Window:    cfg.HTTP.AuthRateLimitWindow,
			Counter:   middleware.NewRedisRateCounter(redisClient),
			KeyPrefix: "ratelimit:auth",
		}))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)

	// Identity: profile routes for the authenticated user
	profileRoutes := router.NewDomainGroup("profile", "/users/me")
	profileRoutes.Use(requireAuth)
	profileRoutes.GET("", userHandler.GetProfile)
	profileRoutes.PUT("", userHandler.UpdateProfile)
	profileRoutes.PUT("/password", userHandler.ChangePassword)
	profileRoutes.PUT("/avatar", userHandler.SetAvatar)

	// Catalog: public browse routes
	browseRoutes := router.NewDomainGroup("browse", "/listings")
	browseRoutes.GET("", listingHandler.Browse)
	browseRoutes.GET("/:id", listingHandler.Get)
	browseRoutes.GET("/:id/reviews", reviewHandler.ListForListing)

	// Catalog: seller listing management
	approvedSeller := middleware.RequireApprovedSeller()
	sellerRoutes := router.NewDomainGroup("seller", "/listings")
	sellerRoutes.Use(requireAuth)
	sellerRoutes.GET("/mine", approvedSeller, listingHandler.MyListings)
	sellerRoutes.POST("", approvedSeller, listingHandler.Create)
	sellerRoutes.PUT("/:id", approvedSeller, listingHandler.Update)
	sellerRoutes.DELETE("/:id", approvedSeller, listingHandler.Delete)
	sellerRoutes.POST("/:id/activate", approvedSeller, listingHandler.Activate)
	sellerRoutes.POST("/:id/deactivate", approvedSeller, listingHandler.Deactivate)
	sellerRoutes.POST("/:id/images", approvedSeller, listingHandler.InitiateImageUpload)
	sellerRoutes.POST("/:id/images/confirm", approvedSeller, listingHandler.ConfirmImageUpload)
	// Reviews and favorites are listing-scoped buyer actions
	sellerRoutes.POST("/:id/reviews", reviewHandler.Add)
	sellerRoutes.POST("/:id/favorite", favoriteHandler.Add)
	sellerRoutes.DELETE("/:id/favorite", favoriteHandler.Remove)

	// Catalog: categories, read-only for everyone
	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.GET("/:slug", categoryHandler.GetBySlug)

	// Catalog: favorites list for the authenticated user
	favoriteRoutes := router.NewDomainGroup("favorites", "/favorites")
	favoriteRoutes.Use(requireAuth)
	favoriteRoutes.GET("", favoriteHandler.List)

	// Ordering: cart works for guests (session cookie) and logged-in users
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(guestSession, optionalAuth)
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:id", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
	cartRoutes.DELETE("", cartHandler.Clear)

	// Ordering: checkout requires a logged-in buyer
	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.Use(requireAuth)
	checkoutRoutes.GET("", checkoutHandler.GetState)
	checkoutRoutes.POST("/customer-info", checkoutHandler.SubmitCustomerInfo)
	checkoutRoutes.POST("/shipping", checkoutHandler.ChooseShipping)
	checkoutRoutes.POST("/pay", checkoutHandler.Pay)

	// Ordering: buyer order history and the seller fulfilment flow
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(requireAuth)
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/seller", orderHandler.ListWithMyItems)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.POST("/:id/confirm", orderHandler.Confirm)
	orderRoutes.POST("/:id/reject", orderHandler.Reject)
	orderRoutes.POST("/:id/prepare", orderHandler.StartPreparing)
	orderRoutes.POST("/:id/ship", orderHandler.Ship)
	orderRoutes.POST("/:id/deliver", orderHandler.Deliver)

	// Admin: moderation and seller approval
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(requireAuth, middleware.RequireRole("admin"))
	adminRoutes.GET("/users", userHandler.ListUsers)
	adminRoutes.GET("/sellers/pending", userHandler.ListPendingSellers)
	adminRoutes.POST("/sellers/:id/approve", userHandler.ApproveSeller)
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	adminRoutes.DELETE("/reviews/:id", reviewHandler.Delete)
	adminRoutes.POST("/listings/:id/activate", listingHandler.Activate)
	adminRoutes.POST("/listings/:id/deactivate", listingHandler.Deactivate)
	adminRoutes.DELETE("/listings/:id", listingHandler.Delete)

	// System info and health
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(authRoutes).
		Register(profileRoutes).
		Register(browseRoutes).
		Register(sellerRoutes).
		Register(categoryRoutes).
		Register(favoriteRoutes).
		Register(cartRoutes).
		Register(checkoutRoutes).
		Register(orderRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
