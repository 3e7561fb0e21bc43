// main.go - Liturgical display service
package main

import (
	"log"
	"time"

	"litdisplay/config"
	"litdisplay/database"
	"litdisplay/handlers"
	"litdisplay/handlers/admin"
	"litdisplay/middleware"
	"litdisplay/scripture"
	"litdisplay/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		zlog.Fatal("database init failed", zap.Error(err))
	}
	defer database.CloseDB()

	if err := admin.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword, zlog); err != nil {
		zlog.Fatal("seed admin account", zap.Error(err))
	}

	db := database.GetDB()

	// Verse data: Scriptura API behind the database chapter cache
	scriptura := services.NewScripturaClient(cfg.ScripturaURL, zlog)
	verses := services.NewVerseStore(db, scriptura,
		time.Duration(cfg.ChapterTTLHours)*time.Hour, zlog)

	resolverOpts := []scripture.Option{
		scripture.WithVersion(cfg.BibleVersion),
		scripture.WithLogger(zlog),
	}
	if cfg.DelegateParsing {
		resolverOpts = append(resolverOpts, scripture.WithDelegatedParsing())
	}
	resolver, err := scripture.NewResolver(verses, resolverOpts...)
	if err != nil {
		zlog.Fatal("build resolver", zap.Error(err))
	}

	// Day assembly collaborators
	calendar := services.NewCalendarClient(cfg.CalendarURL, zlog)
	reflections := services.NewReflectionService(db, cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, zlog)
	wikipedia := services.NewWikipediaService(db,
		time.Duration(cfg.WikipediaTTLHours)*time.Hour, zlog)
	days := services.NewDayService(db, calendar, resolver, reflections, wikipedia, zlog)

	images, err := services.NewImageService(cfg.CacheDir, cfg.RenderCommand, zlog)
	if err != nil {
		zlog.Fatal("init image cache", zap.Error(err))
	}
	display := services.NewDisplayService(cfg.EpdrawPath, cfg.VCOM, zlog)

	hub := handlers.NewHub(zlog)
	days.SetNotifier(hub)

	dayHandler := handlers.NewDayHandler(days, resolver, zlog)
	imageHandler := handlers.NewImageHandler(images, zlog)
	authHandler := admin.NewAuthHandler(cfg.JWTSecret, zlog)
	opsHandler := admin.NewOpsHandler(days, images, display, zlog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	generalLimiter := middleware.NewRateLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitWindowMS/1000)
	adminLimiter := middleware.NewRateLimiter(cfg.AdminRateLimitMax, cfg.AdminRateLimitWindowMS/1000)
	middleware.StartCleanup(generalLimiter, adminLimiter)
	app.Use(middleware.FiberRateLimitMiddleware(generalLimiter))

	// Serve static files
	app.Static("/", cfg.StaticDir)
	app.Static("/css", cfg.StaticDir+"/css")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"clients": hub.ClientCount(),
		})
	})

	// API routes
	api := app.Group("/api")
	api.Get("/today", dayHandler.GetToday)
	api.Get("/date/:date", dayHandler.GetByDate)
	api.Get("/readings", dayHandler.ResolveReference)
	api.Get("/image/today.:ext", imageHandler.GetToday)
	api.Get("/image/:date.:ext", imageHandler.GetByDate)

	// WebSocket for display update pushes
	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws", hub.Handler())

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", middleware.FiberAdminRateLimitMiddleware(adminLimiter), authHandler.Login)
	adminGroup.Post("/logout", authHandler.Logout)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))
	adminProtected.Get("/verify", authHandler.Verify)
	adminProtected.Post("/refresh", opsHandler.Refresh)
	adminProtected.Post("/refresh/:date", opsHandler.Refresh)
	adminProtected.Post("/cache/clear", opsHandler.ClearCache)
	adminProtected.Post("/display", opsHandler.PushDisplay)

	zlog.Info("starting liturgical display service", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
