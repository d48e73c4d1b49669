package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"kuberfashion-backend/config"
	"kuberfashion-backend/handlers"
	"kuberfashion-backend/models"
	"kuberfashion-backend/services"
	"kuberfashion-backend/utils"
	"kuberfashion-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 15 * 1024 * 1024, // uploads are images only
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ReferralRelation{},
		&models.CoinBalance{},
		&models.CoinTransaction{},
		&models.CouponTransaction{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Redis is optional: caching and OTP degrade without it.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️  Redis not reachable at %s:%s (%v), caching and OTP disabled", cfg.RedisHost, cfg.RedisPort, err)
		rdb = nil
	}

	if cfg.SeedData {
		if err := services.SeedData(db); err != nil {
			log.Printf("⚠️  Seed failed: %v", err)
		}
	}

	cache := services.NewCache(rdb)
	referralService := services.NewReferralService(db, cfg)
	userService := services.NewUserService(db, referralService)
	otpService := services.NewOtpService(rdb)
	productService := services.NewProductService(db, cache)
	categoryService := services.NewCategoryService(db, cache)
	cartService := services.NewCartService(db)
	wishlistService := services.NewWishlistService(db)
	orderService := services.NewOrderService(db)

	handlers.SetupAuthRoutes(app, cfg, userService, otpService)
	handlers.SetupUserRoutes(app, cfg, userService)
	handlers.SetupReferralRoutes(app, cfg, userService, referralService)
	handlers.SetupCatalogRoutes(app, cfg, productService, categoryService)
	handlers.SetupCartRoutes(app, cfg, cartService)
	handlers.SetupWishlistRoutes(app, cfg, wishlistService)
	handlers.SetupOrderRoutes(app, cfg, orderService)
	handlers.SetupUploadRoutes(app, cfg)

	app.Static("/uploads", "./uploads")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := workers.StartMaintenanceScheduler(db, cfg)
	if err != nil {
		log.Fatal("failed to start maintenance scheduler:", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Referral rewards mode: %s", cfg.RewardMode)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = sched.Shutdown()
	_ = app.Shutdown()
}
