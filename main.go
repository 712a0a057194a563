package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"sports-prediction-system/handlers"
	"sports-prediction-system/middleware"
	"sports-prediction-system/models"
	"sports-prediction-system/services"
	"sports-prediction-system/utils"
	"sports-prediction-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — logo uploads only
	})

	// 🔐 GLOBAL: only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware())

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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Session-Token, X-Service-Token, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
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
		&models.User{},
		&models.Competition{},
		&models.Contest{},
		&models.Team{},
		&models.Prediction{},
		&models.PredictionEntry{},
		&models.UserContestScore{},
		&models.UserOverallScore{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	userService := services.NewUserService(db)
	competitionService := services.NewCompetitionService(db)
	contestService := services.NewContestService(db)
	predictionService := services.NewPredictionService(db, clockwork.NewRealClock())
	leaderboardService := services.NewLeaderboardService(db)
	scoreService := services.NewScoreService(db)

	// Auth service resolves raw session tokens when the gateway didn't
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	serviceToken := os.Getenv("PREDICT_SERVICE_TOKEN")
	var authClient *services.AuthServiceClient
	if authServiceURL != "" {
		authClient = services.NewAuthServiceClient(authServiceURL, serviceToken)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Profile sync keeps leaderboard names and avatars current
	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	if profileServiceURL != "" {
		syncWorker := workers.NewUserSyncWorker(db, profileServiceURL, "/api/v1/public/profiles", serviceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  PROFILE_SERVICE_URL not set — user sync worker disabled")
	}

	contestService.StartContestScheduler()

	handlers.SetupUserRoutes(app, userService, scoreService, authClient)
	handlers.SetupCompetitionRoutes(app, competitionService, authClient)
	handlers.SetupContestRoutes(app, contestService, predictionService, scoreService, authClient)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, authClient)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Contest scheduler running (hourly)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
