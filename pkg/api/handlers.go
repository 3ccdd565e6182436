package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/form"
	"github.com/zeroprint/waitlist/pkg/middleware"
	"github.com/zeroprint/waitlist/pkg/models"
)

// Handlers contains all HTTP handlers for the waitlist site
type Handlers struct {
	registrar form.Registrar
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(registrar form.Registrar, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registrar: registrar,
		logger:    logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ShowWaitlistForm renders an empty signup form
func (h *Handlers) ShowWaitlistForm(c *gin.Context) {
	ctrl := h.newController(c)
	defer ctrl.Close()

	c.HTML(http.StatusOK, pageTemplate, newPageData(ctrl.State(), ""))
}

// HandleWaitlistForm processes the browser form post and renders the outcome
func (h *Handlers) HandleWaitlistForm(c *gin.Context) {
	ctrl := h.newController(c)
	defer ctrl.Close()

	for _, field := range models.Fields {
		if err := ctrl.UpdateField(field, c.PostForm(string(field))); err != nil {
			h.requestLogger(c).Error("Error applying form field", zap.String("field", string(field)), zap.Error(err))
			c.HTML(http.StatusInternalServerError, pageTemplate, newPageData(ctrl.State(), ""))
			return
		}
	}

	// Same constraints the browser enforces before it lets the form submit
	if err := ctrl.State().Request.Validate(); err != nil {
		h.requestLogger(c).Debug("Rejected invalid waitlist form", zap.Error(err))
		c.HTML(http.StatusBadRequest, pageTemplate, newPageData(ctrl.State(), invalidFormHint))
		return
	}

	result, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		h.requestLogger(c).Warn("Waitlist form not submitted", zap.Error(err))
		c.HTML(http.StatusBadRequest, pageTemplate, newPageData(ctrl.State(), invalidFormHint))
		return
	}

	status := http.StatusOK
	if result.Phase == form.PhaseFailed {
		status = http.StatusBadGateway
	}
	c.HTML(status, pageTemplate, newPageData(ctrl.State(), ""))
}

// HandleRegister is the JSON variant of the form submission
func (h *Handlers) HandleRegister(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.requestLogger(c).Debug("Error binding registration", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	ctrl := h.newController(c, form.WithRequest(req))
	defer ctrl.Close()

	result, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if result.Phase == form.PhaseFailed {
		c.JSON(http.StatusBadGateway, gin.H{"error": result.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": result.Message,
	})
}

func (h *Handlers) newController(c *gin.Context, opts ...form.Option) *form.Controller {
	opts = append([]form.Option{form.WithLogger(h.requestLogger(c))}, opts...)
	return form.NewController(h.registrar, opts...)
}

func (h *Handlers) requestLogger(c *gin.Context) *zap.Logger {
	if id := middleware.GetRequestID(c); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}
