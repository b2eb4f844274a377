package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fahimshariar28/eidi/internal/auth"
	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	authoauth "github.com/fahimshariar28/eidi/internal/auth/oauth"
	"github.com/fahimshariar28/eidi/internal/auth/session"
	"github.com/fahimshariar28/eidi/internal/config"
	"github.com/fahimshariar28/eidi/internal/invoice"
	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"github.com/fahimshariar28/eidi/internal/invoice/receipt"
	obslogger "github.com/fahimshariar28/eidi/internal/observability/logger"
	obsmetrics "github.com/fahimshariar28/eidi/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(obsmetrics.NewHTTPMetrics),
	fx.Provide(NewEngine),
	auth.Module,
	invoice.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	authsvc         authdomain.Service
	oauthsvc        authoauth.Service
	sessions        *session.Manager
	invoiceSvc      invoicedomain.Service
	receipts        *receipt.Renderer
	payLimiter      *rateLimiter
	markPaidLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Authsvc    authdomain.Service
	OAuthsvc   authoauth.Service
	Sessions   *session.Manager
	InvoiceSvc invoicedomain.Service
	Receipts   *receipt.Renderer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		authsvc:         p.Authsvc,
		oauthsvc:        p.OAuthsvc,
		sessions:        p.Sessions,
		invoiceSvc:      p.InvoiceSvc,
		receipts:        p.Receipts,
		payLimiter:      newRateLimiter(30, time.Minute),
		markPaidLimiter: newRateLimiter(10, time.Minute),
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()
	svc.registerUIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.GET("/me", s.Me)
	auth.POST("/logout", s.Logout)
	auth.POST("/guest", s.GuestLogin)
	auth.GET("/callback/google", s.OAuthCallback)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Invoices (creator-scoped) --------
	api.POST("/invoices", s.WebAuthRequired(), s.CreateInvoice)
	api.GET("/invoices", s.WebAuthRequired(), s.ListInvoices)
	api.GET("/invoices/summary", s.WebAuthRequired(), s.GetInvoiceSummary)
	api.GET("/invoices/:id/receipt.pdf", s.WebAuthRequired(), s.GetInvoiceReceipt)
}

// registerPublicRoutes exposes the payer surface. These routes carry the
// exact wire shapes the payment page depends on and stay unauthenticated.
func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/api")

	public.GET("/invoice/:id", s.GetPublicInvoice)
	public.POST("/invoice/:id/paid", s.MarkInvoicePaid)
}

func (s *Server) registerUIRoutes() {
	r := s.engine.Group("/")

	// ---- SPA entry points ----
	r.GET("/", serveIndex)
	r.GET("/login", serveIndex)
	r.GET("/login/google", s.OAuthLogin)
	r.GET("/pay/:id", serveIndex)
	r.GET("/dashboard", s.WebAuthRequired(), serveIndex)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		// static assets (vite)
		if fileExists("./public", c.Request.URL.Path) {
			c.File("./public" + c.Request.URL.Path)
			return
		}

		// SPA fallback
		c.File("./public/index.html")
	})
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean(reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" || clean == ".." {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
