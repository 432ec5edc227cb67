package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"card-match-backend/handlers"
	"card-match-backend/models"
	"card-match-backend/services"
	"card-match-backend/utils"
	"card-match-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — card images only
	})

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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 not configured (%v) — card images will be stored locally", err)
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.GameConfig{},
		&models.DifficultySettings{},
		&models.FruitCard{},
		&models.TextCard{},
		&models.Player{},
		&models.GameSession{},
		&models.PromoCode{},
		&models.Tournament{},
		&models.DailyStat{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️  Redis unreachable (%v) — leaderboard cache disabled", err)
			rdb = nil
		}
	} else {
		log.Println("⚠️  REDIS_ADDR not set — leaderboard cache disabled")
	}

	secret := []byte(jwtSecret)
	gameService := services.NewGameService(db, secret)
	configService := gameService.Config
	leaderboardService := services.NewLeaderboardService(db, rdb)
	playerService := services.NewPlayerService(db)
	tournamentService := services.NewTournamentService(db)
	adminService := services.NewAdminService(db, secret)
	difficultyService := services.NewDifficultyService(db)
	cardService := services.NewCardService(db)
	promoService := services.NewPromoService(db)
	analyticsService := services.NewAnalyticsService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := workers.NewSessionSweeper(db)
	go sweeper.Run(ctx, 1*time.Minute)

	analyticsService.StartRollupScheduler()

	handlers.SetupGameRoutes(app, gameService, configService, leaderboardService, playerService, tournamentService, secret)
	handlers.SetupAdminRoutes(app, adminService, configService, difficultyService, cardService, promoService, analyticsService, secret)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Session sweeper running (every 1m)")
	log.Println("✅ Analytics rollup scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
