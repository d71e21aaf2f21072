package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/app"
	iauth "github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/handlers"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	codes, err := services.NewActivationCodeService(db, cfg.Auth.ActivationCodeOptions()...)
	if err != nil {
		return nil, err
	}
	accounts, err := services.NewAccountService(db, jwt, codes)
	if err != nil {
		return nil, err
	}
	tasks, err := services.NewTaskService(db)
	if err != nil {
		return nil, err
	}

	accountHandler, err := handlers.NewAccountHandler(accounts)
	if err != nil {
		return nil, err
	}
	taskHandler, err := handlers.NewTaskHandler(tasks)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	// Public endpoints
	r.GET("/health", handlers.Health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/api/accounts")
	{
		public.POST("/register", accountHandler.Register)
		public.POST("/activate", accountHandler.Activate)
		public.POST("/token", accountHandler.Token)
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt, accounts))

	api.GET("/accounts/me", accountHandler.Me)

	taskRoutes := api.Group("/tasks")
	{
		taskRoutes.GET("", taskHandler.List)
		taskRoutes.GET("/:id", taskHandler.Get)
		taskRoutes.POST("", taskHandler.Create)
		taskRoutes.PATCH("/:id", taskHandler.Update)
		taskRoutes.POST("/:id/done", taskHandler.SetDone)
		taskRoutes.DELETE("/:id", taskHandler.Delete)
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
