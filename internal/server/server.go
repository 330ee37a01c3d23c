package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/techdrop/catalog/internal/auth"
	authdomain "github.com/techdrop/catalog/internal/auth/domain"
	"github.com/techdrop/catalog/internal/auth/session"
	"github.com/techdrop/catalog/internal/config"
	obslogger "github.com/techdrop/catalog/internal/observability/logger"
	obsmetrics "github.com/techdrop/catalog/internal/observability/metrics"
	"github.com/techdrop/catalog/internal/product"
	productdomain "github.com/techdrop/catalog/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	auth.Module,
	session.Module,
	product.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(CORSMiddleware(cfg.ClientOrigin))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	authService    authdomain.Service
	productService productdomain.Service
	sessions       *session.Manager
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	AuthService    authdomain.Service
	ProductService productdomain.Service
	Sessions       *session.Manager
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		authService:    p.AuthService,
		productService: p.ProductService,
		sessions:       p.Sessions,
	}

	svc.registerAuthRoutes()
	svc.registerProductRoutes()

	return svc
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/api/auth")
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.Me)
}

func (s *Server) registerProductRoutes() {
	products := s.engine.Group("/api/products")
	products.GET("", s.ListProducts)
	products.GET("/:slug", s.GetProductBySlug)

	admin := s.engine.Group("/api/products", s.AdminRequired())
	admin.POST("", s.CreateProduct)
	admin.PUT("/:id", s.UpdateProduct)
	admin.DELETE("/:id", s.DeleteProduct)
}
