// Package httpapi HTTP-интерфейс сервиса уведомлений (/api/email).
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"grocito/internal/domain"
	"grocito/internal/ratelimit"
	"grocito/internal/service"
)

// Notifier операции сервиса уведомлений, которые нужны обработчикам
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error)
	SendPaymentReceipt(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error)
	SendTest(ctx context.Context, req domain.TestEmailRequest) (domain.NotificationResult, error)
	Health() domain.HealthStatus
}

// Options необязательные части сервера
type Options struct {
	Limiter        ratelimit.Limiter
	AllowedOrigins []string
	BodyLimit      int64
	Logger         *zap.Logger
}

type Server struct {
	engine        *gin.Engine
	notifications Notifier
	logger        *zap.Logger
}

const healthPath = "/api/email/health"

func NewServer(notifications Notifier, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestID(), accessLog(logger), recovery(logger), securityHeaders())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(corsPolicy(opts.AllowedOrigins))
	}
	r.Use(bodyLimit(opts.BodyLimit))
	s := &Server{engine: r, notifications: notifications, logger: logger}
	s.registerRoutes(opts.Limiter)
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes(limiter ratelimit.Limiter) {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	email := s.engine.Group("/api/email")
	if limiter != nil {
		email.Use(rateLimit(limiter, s.logger, healthPath))
	}
	{
		email.GET("/health", s.health)
		email.POST("/send-order-confirmation", s.sendOrderConfirmation)
		email.POST("/send-payment-receipt", s.sendPaymentReceipt)
		email.POST("/send-test", s.sendTest)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		failure(c, http.StatusNotFound, msgNotFound)
	})
}

// @Summary Service health
// @Tags email
// @Produce json
// @Success 200 {object} domain.HealthStatus
// @Router /email/health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, s.notifications.Health())
}

// @Summary Send order confirmation email
// @Tags email
// @Accept json
// @Produce json
// @Param input body domain.NotificationRequest true "Order, user and payment"
// @Success 200 {object} domain.NotificationResult
// @Failure 400 {object} domain.NotificationResult
// @Failure 429 {object} domain.NotificationResult
// @Failure 500 {object} domain.NotificationResult
// @Router /email/send-order-confirmation [post]
func (s *Server) sendOrderConfirmation(c *gin.Context) {
	var req domain.NotificationRequest
	if !s.bind(c, &req) {
		return
	}
	res, err := s.notifications.SendOrderConfirmation(c.Request.Context(), req)
	s.reply(c, res, err)
}

// @Summary Send payment receipt email
// @Tags email
// @Accept json
// @Produce json
// @Param input body domain.NotificationRequest true "Order, user and payment"
// @Success 200 {object} domain.NotificationResult
// @Failure 400 {object} domain.NotificationResult
// @Failure 429 {object} domain.NotificationResult
// @Failure 500 {object} domain.NotificationResult
// @Router /email/send-payment-receipt [post]
func (s *Server) sendPaymentReceipt(c *gin.Context) {
	var req domain.NotificationRequest
	if !s.bind(c, &req) {
		return
	}
	res, err := s.notifications.SendPaymentReceipt(c.Request.Context(), req)
	s.reply(c, res, err)
}

// @Summary Send test email
// @Tags email
// @Accept json
// @Produce json
// @Param input body domain.TestEmailRequest true "Recipient"
// @Success 200 {object} domain.NotificationResult
// @Failure 400 {object} domain.NotificationResult
// @Failure 429 {object} domain.NotificationResult
// @Failure 500 {object} domain.NotificationResult
// @Router /email/send-test [post]
func (s *Server) sendTest(c *gin.Context) {
	var req domain.TestEmailRequest
	if !s.bind(c, &req) {
		return
	}
	res, err := s.notifications.SendTest(c.Request.Context(), req)
	s.reply(c, res, err)
}

func (s *Server) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if isBodyTooLarge(err) {
			failure(c, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		failure(c, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func (s *Server) reply(c *gin.Context, res domain.NotificationResult, err error) {
	if err != nil {
		failure(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingRecipient), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
