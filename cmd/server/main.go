package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"meeting-service/internal/api"
	"meeting-service/internal/auth"
	"meeting-service/internal/config"
	"meeting-service/internal/events"
	"meeting-service/internal/repository"
	"meeting-service/internal/service"
	"meeting-service/internal/tracing"
	_ "meeting-service/migrations"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	api.SetupGlobalHandler("meeting-service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracer, err := tracing.InitTracerProvider("meeting-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg.DatabaseURL)
		return
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	eventPublisher, err := events.NewNatsPublisher(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewPostgresUserRepository(db)
	meetingRepo := repository.NewPostgresMeetingRepository(db)

	authService := service.NewAuthService(userRepo, tokens)
	meetingService := service.NewMeetingService(meetingRepo, eventPublisher)

	authHandler := api.NewAuthHandler(authService)
	meetingHandler := api.NewMeetingHandler(meetingService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "meeting-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authRequired := api.AuthMiddleware(tokens, userRepo)

	userRoutes := app.Group("/users")
	userRoutes.Post("/register", authHandler.Register)
	userRoutes.Post("/login", authHandler.Login)
	userRoutes.Get("/profile", authRequired, authHandler.GetProfile)

	meetingRoutes := app.Group("/meetings")
	meetingRoutes.Use(authRequired)
	meetingRoutes.Post("/", meetingHandler.CreateMeeting)
	meetingRoutes.Get("/", api.AdminMiddleware(), meetingHandler.ListMeetings)
	meetingRoutes.Get("/my-meetings", meetingHandler.ListMyMeetings)
	meetingRoutes.Get("/:id", meetingHandler.GetMeeting)
	meetingRoutes.Patch("/:id", meetingHandler.UpdateMeeting)
	meetingRoutes.Delete("/:id", meetingHandler.DeleteMeeting)
	meetingRoutes.Post("/:id/join", meetingHandler.JoinMeeting)
	meetingRoutes.Post("/:id/leave", meetingHandler.LeaveMeeting)

	log.Printf("Listening meeting-service on port %s", cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func handleMigrations(dbURL string) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	log.Println("Migrations applied successfully")
}
