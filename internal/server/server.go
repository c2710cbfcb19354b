package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/frontstep/dealanalyzer/internal/audit/domain"
	clerkservice "github.com/frontstep/dealanalyzer/internal/clerk/service"
	"github.com/frontstep/dealanalyzer/internal/clerk/verifier"
	"github.com/frontstep/dealanalyzer/internal/config"
	obslogger "github.com/frontstep/dealanalyzer/internal/observability/logger"
	obsmetrics "github.com/frontstep/dealanalyzer/internal/observability/metrics"
)

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	db         *gorm.DB
	verifier   *verifier.Verifier
	clerkSvc   *clerkservice.Service
	auditSvc   auditdomain.Service
	obsMetrics *obsmetrics.Metrics
}

type Params struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Verifier   *verifier.Verifier
	ClerkSvc   *clerkservice.Service
	AuditSvc   auditdomain.Service   `optional:"true"`
	ObsMetrics *obsmetrics.Metrics   `optional:"true"`
}

func NewServer(p Params) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		db:         p.DB,
		verifier:   p.Verifier,
		clerkSvc:   p.ClerkSvc,
		auditSvc:   p.AuditSvc,
		obsMetrics: p.ObsMetrics,
	}
}

// RegisterWebhookRoutes registers the provider-facing endpoints.
func (s *Server) RegisterWebhookRoutes() {
	s.engine.POST("/api/webhooks/clerk", s.HandleClerkWebhook)
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(
		NewEngine,
		NewServer,
	),
	fx.Invoke(func(s *Server) {
		s.RegisterWebhookRoutes()
	}),
	fx.Invoke(RunHTTP),
)
