package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/config"
	"github.com/sodacandy/candybot/internal/events"
	"github.com/sodacandy/candybot/internal/observability/logger"
	"github.com/sodacandy/candybot/internal/reconcile"
)

// Server exposes the operational HTTP surface: health and readiness
// probes, prometheus metrics, and a manual reconcile trigger.
type Server struct {
	engine   *gin.Engine
	log      *zap.Logger
	db       *gorm.DB
	cache    *redis.Client
	sched    *reconcile.Scheduler
	dispatch *events.Dispatcher
	addr     string
}

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Cache      *redis.Client `optional:"true"`
	Scheduler  *reconcile.Scheduler
	Dispatcher *events.Dispatcher
}

func New(p Params) *Server {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(p.Log))

	s := &Server{
		engine:   engine,
		log:      p.Log.Named("server"),
		db:       p.DB,
		cache:    p.Cache,
		sched:    p.Scheduler,
		dispatch: p.Dispatcher,
		addr:     p.Config.HTTPAddr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ops := s.engine.Group("/ops")
	ops.POST("/reconcile", s.handleReconcile)

	s.registerEventRoutes(s.engine.Group("/internal/events"))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err == nil && s.cache != nil {
		err = s.cache.Ping(c.Request.Context()).Err()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// handleReconcile kicks a reconciliation run outside the regular
// schedule. Returns 409 when a run is already in flight.
func (s *Server) handleReconcile(c *gin.Context) {
	if err := s.sched.RunOnce(c.Request.Context()); err != nil {
		if errors.Is(err, reconcile.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "reconcile already running"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func Run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", s.addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(Run),
)
