package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/api/handler"
	"github.com/spectra-labs/spectra-api/internal/api/middleware"
	"github.com/spectra-labs/spectra-api/internal/core/ports"
	"github.com/spectra-labs/spectra-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs from the composition root.
type Deps struct {
	Auth       ports.AuthService
	Generative ports.Generative
	Dispatcher handler.ActivityDispatcher
	Store      handlers.StorePinger
	JWTSecret  string
	TokenTTL   time.Duration
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("spectra"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Dispatcher, deps.JWTSecret, deps.TokenTTL)
	genHandler := handler.NewGenerativeHandler(deps.Generative)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes (no token required) ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut)
	e.POST("/auth/reset/request", authHandler.RequestReset)
	e.POST("/auth/reset/verify", authHandler.VerifyReset)

	// --- Gated routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/auth/session", authHandler.Session)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.POST("/chat", genHandler.Chat)
	v1.POST("/vision", genHandler.Vision)
	v1.POST("/images", genHandler.GenerateImage)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.Store)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
