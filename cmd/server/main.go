package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/example/sankofa/internal/config"
	"github.com/example/sankofa/internal/database"
	"github.com/example/sankofa/internal/handlers"
	"github.com/example/sankofa/internal/logging"
	"github.com/example/sankofa/internal/rate"
	"github.com/example/sankofa/internal/routes"
	"github.com/example/sankofa/internal/store"
)

func main() {
	cfg := config.Load()
	slogger := logging.New("info", "sankofa", cfg.Env)

	db := database.Connect(cfg.DatabaseURL)
	st := store.NewGormStore(db)

	var limiter *rate.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = rate.New(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Sankofa Backend",
		ErrorHandler: handlers.ErrorHandler(slogger),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))

	routes.Register(app, st, limiter, cfg, slogger)

	slogger.Info("starting server", "port", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
