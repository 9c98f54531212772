package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/admin"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/auth"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/client"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/config"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/income"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/report"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/session"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/subscription"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/trainer"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(database *sqlx.DB, cfg *config.Config, publisher audit.Publisher) *Server {
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	loc := cfg.Studio.Location()

	trainerRepo := trainer.NewRepository(database)
	clientRepo := client.NewRepository(database)
	subRepo := subscription.NewRepository(database)
	incomeRepo := income.NewRepository(database)
	sessionRepo := session.NewRepository(database)

	ledger := subscription.NewLedger(subRepo, loc)
	allocator := income.NewAllocator(incomeRepo, cfg.Studio.CommissionRate, loc)
	detector := session.NewDetector(sessionRepo, cfg.Studio.SessionDuration, cfg.Studio.ConflictMode)

	adminHandler := admin.NewHandler(admin.NewService(admin.NewRepository(database), cfg.JWTSecret))
	trainerService := trainer.NewService(trainerRepo, publisher)
	trainerHandler := trainer.NewHandler(trainerService)
	subService := subscription.NewService(subRepo, clientRepo, publisher, loc)
	subHandler := subscription.NewHandler(subService)
	clientService := client.NewService(clientRepo, subService, publisher)
	clientHandler := client.NewHandler(clientService)
	incomeService := income.NewService(incomeRepo, trainerService, loc)
	incomeHandler := income.NewHandler(incomeService)
	auditHandler := audit.NewHandler(audit.NewRepository(database))
	reportHandler := report.NewHandler(report.NewService(report.NewRepository(database), clientService, incomeService, subService, loc), loc)
	sessionHandler := session.NewHandler(session.NewService(
		database,
		sessionRepo,
		trainerRepo,
		clientRepo,
		ledger,
		subService,
		allocator,
		incomeRepo,
		detector,
		publisher,
		cfg.Studio.Timezone,
	))

	router.GET("/health", Health(database))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	root := router.Group("/api")
	root.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	public := root.Group("/auth")
	{
		public.POST("/register", adminHandler.Register)
		public.POST("/login", adminHandler.Login)
		public.POST("/refresh", adminHandler.Refresh)
	}

	protected := root.Group("/")
	protected.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.RequireRole(admin.RoleAdmin, admin.RoleManager))
	{
		protected.GET("/auth/me", adminHandler.Me)
		protected.POST("/auth/logout", adminHandler.Logout)

		protected.POST("/trainers", trainerHandler.Create)
		protected.GET("/trainers", trainerHandler.List)
		protected.GET("/trainers/:id", trainerHandler.Get)
		protected.PUT("/trainers/:id", trainerHandler.Update)
		protected.DELETE("/trainers/:id", trainerHandler.Deactivate)
		protected.GET("/trainers/:id/income", incomeHandler.TrainerIncome)

		protected.POST("/clients", clientHandler.Create)
		protected.GET("/clients", clientHandler.List)
		protected.GET("/clients/:id", clientHandler.Get)
		protected.PUT("/clients/:id", clientHandler.Update)
		protected.DELETE("/clients/:id", clientHandler.Delete)
		protected.GET("/clients/:id/subscriptions", subHandler.ListByClient)

		protected.POST("/subscriptions", subHandler.Create)
		protected.GET("/subscriptions", subHandler.List)
		protected.GET("/subscriptions/:id", subHandler.Get)
		protected.PUT("/subscriptions/:id", subHandler.Update)
		protected.DELETE("/subscriptions/:id", subHandler.Delete)

		protected.POST("/sessions", sessionHandler.Create)
		protected.GET("/sessions", sessionHandler.List)
		protected.GET("/sessions/:id", sessionHandler.Get)
		protected.DELETE("/sessions/:id", sessionHandler.Delete)

		protected.GET("/reports/trainer/:id", reportHandler.Trainer)
		protected.GET("/reports/client/:id", reportHandler.Client)
		protected.GET("/reports/date", reportHandler.Dates)

		protected.GET("/audit/:entity/:id", auditHandler.History)
	}

	router.NoRoute(func(c *gin.Context) {
		api.Fail(c, api.NewError(api.CodeNotFound, "Route not found"))
	})

	return &Server{
		router: router,
		config: cfg,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
