package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wellness-dashboard-system/handlers"
	"wellness-dashboard-system/middleware"
	"wellness-dashboard-system/models"
	"wellness-dashboard-system/services"
	"wellness-dashboard-system/utils"
	"wellness-dashboard-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — product images only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.XPEntry{},
		&models.DayRecord{},
		&models.BadgeType{},
		&models.UserBadge{},
		&models.WaterLog{},
		&models.SleepLog{},
		&models.MealLog{},
		&models.MacroLog{},
		&models.SupplementLog{},
		&models.WorkoutLog{},
		&models.TrackerGoals{},
		&models.Product{},
		&models.Subscriber{},
		&models.Newsletter{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	progressionService := services.NewProgressionService(db)
	if err := progressionService.SeedBadgeCatalog(); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	badgeService := services.NewBadgeService(db)
	dailyService := services.NewDailyService(db, progressionService)
	trackerService := services.NewTrackerService(db, dailyService, progressionService)
	catalogService := services.NewCatalogService(db)

	newsletterService, err := services.NewNewsletterService(
		db,
		os.Getenv("AWS_REGION"),
		os.Getenv("SES_FROM_EMAIL"),
		os.Getenv("SES_FROM_NAME"),
	)
	if err != nil {
		log.Fatal("failed to initialize newsletter service:", err)
	}

	// --- CONFIGURE CRM sync + auth service clients ---
	crmServiceURL := os.Getenv("CRM_SERVICE_URL")
	if crmServiceURL == "" {
		log.Fatal("CRM_SERVICE_URL environment variable not set")
	}
	dashboardServiceToken := os.Getenv("DASHBOARD_SERVICE_TOKEN")
	if dashboardServiceToken == "" {
		log.Fatal("DASHBOARD_SERVICE_TOKEN environment variable not set")
	}
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	// --- END CONFIG ---

	authClient := services.NewAuthServiceClient(authServiceURL, dashboardServiceToken)

	syncWorker := workers.NewSubscriberSyncWorker(db, crmServiceURL, "/api/v1/public/subscribers", dashboardServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker.Start(ctx)

	catalogService.StartPublishScheduler()
	dailyService.StartRolloverScheduler()

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupProgressionRoutes(app, progressionService, dailyService, badgeService, authClient)
	handlers.SetupTrackerRoutes(app, trackerService)
	handlers.SetupCatalogRoutes(app, catalogService)
	handlers.SetupNewsletterRoutes(app, newsletterService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Subscriber Sync Worker running")
	log.Println("✅ Product publish scheduler running (every 1m)")
	log.Println("✅ Daily rollover scheduler running (00:05 UTC)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
