package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"startup-directory/pkg/common/config"
	"startup-directory/pkg/common/tracker"
	"startup-directory/pkg/core/auth"
	startupservice "startup-directory/pkg/core/startup/service"
	userservice "startup-directory/pkg/core/user/service"
	"startup-directory/pkg/web/handler"
	"startup-directory/pkg/web/middleware"
)

// Deps are the services the routes are built from.
type Deps struct {
	Users    *userservice.UserService
	Startups *startupservice.StartupService
	Verifier *auth.Verifier
	Tokens   *auth.TokenService
	DB       handler.Pinger // optional
	Tracker  *tracker.Tracker
}

// RegisterAPIs installs the global middleware chain and every route.
func RegisterAPIs(h *server.Hertz, cfg *config.Config, deps Deps) {
	healthHandler := handler.NewHealthCheckHandler(deps.DB)
	userHandler := handler.NewUserHandler(deps.Users, handler.SessionCookie{
		Name:   cfg.Middleware.JWT.CookieName,
		MaxAge: deps.Tokens.Expiry(),
		Secure: cfg.IsProd(),
	})
	startupHandler := handler.NewStartupHandler(deps.Startups, cfg.Upload.MaxFileSize)

	// order matters: the error boundary must wrap everything that can fail
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.ErrorHandler(deps.Tracker),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
	)
	if cfg.Middleware.RateLimit.Rate > 0 {
		h.Use(middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		))
	}

	h.GET("/health", healthHandler.AdvancedHealthCheck)

	authed := middleware.AuthMiddleware(deps.Verifier)

	apiGroup := h.Group("/api/v1")
	{
		userGroup := apiGroup.Group("/users")
		{
			userGroup.POST("/signup", userHandler.Signup)
			userGroup.POST("/signin", userHandler.Signin)
			userGroup.GET("/curr", authed, userHandler.Current)
		}

		startupGroup := apiGroup.Group("/startup")
		{
			startupGroup.GET("/all/dashboard/home", startupHandler.Dashboard)
			startupGroup.GET("/dashboard/home/:id", startupHandler.Get)

			startupGroup.POST("/create", authed, startupHandler.Create)
			startupGroup.GET("/all", authed, startupHandler.ListMine)
			startupGroup.PATCH("/update/:id", authed, startupHandler.Update)
			startupGroup.PATCH("/update", authed, startupHandler.Update)
			startupGroup.GET("/:id", authed, startupHandler.Get)
			startupGroup.DELETE("/:id", authed, startupHandler.Delete)
		}
	}
}
