package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/sankofa/internal/config"
	"github.com/example/sankofa/internal/handlers"
	"github.com/example/sankofa/internal/middleware"
	"github.com/example/sankofa/internal/rate"
	"github.com/example/sankofa/internal/services"
	"github.com/example/sankofa/internal/store"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, st *store.Store, limiter *rate.Limiter, cfg *config.Config, log *slog.Logger) {
	notifier := services.NewGatewayNotifier(cfg.EmailGatewayURL, cfg.SMSGatewayURL, cfg.GatewayAPIKey, log)
	authService := services.NewAuthService(st, notifier, cfg, log)

	authHandler := handlers.NewAuthHandler(authService, limiter, cfg)
	userHandler := handlers.NewUserHandler(st.Users)
	employeeHandler := handlers.NewEmployeeHandler(st.Employees)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOtp)
	auth.Post("/refresh-token/:userId", authHandler.Refresh)
	auth.Post("/logout/:userId", middleware.AuthMiddleware(cfg), authHandler.Logout)

	// User routes
	users := api.Group("/users")
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Delete("/:id", userHandler.Delete)

	// Employee routes, bearer-protected
	employees := api.Group("/employees", middleware.AuthMiddleware(cfg))
	employees.Post("/", employeeHandler.Create)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)
}
