package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/middleware"
)

const (
	waitlistPath    = "/waitlist"
	apiWaitlistPath = "/api/waitlist"
)

// RouterConfig collects what the router needs
type RouterConfig struct {
	Handlers       *Handlers
	Logger         *zap.Logger
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

// NewRouter builds the gin engine with middleware and routes registered
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins...))
	router.SetHTMLTemplate(tmpl)

	h := cfg.Handlers
	router.GET("/", h.ShowWaitlistForm)
	router.POST(waitlistPath, h.HandleWaitlistForm)
	router.POST(apiWaitlistPath, h.HandleRegister)
	router.GET("/health", h.HealthCheck)

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	return router, nil
}
