// Package service содержит сценарии уведомлений: отправку писем, оформление заказа и повторную отправку.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"grocito/internal/domain"
	"grocito/internal/mailer"
	"grocito/internal/render"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingRecipient = errors.New("recipient email is required")
	ErrDelivery         = errors.New("email delivery failed")
)

// Kind вид письма
type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindPaymentReceipt    Kind = "payment_receipt"
	KindTest              Kind = "test"
)

const serviceName = "Grocito Email Service"

// Mailer то, что сервису нужно от транспорта
type Mailer interface {
	Usable() bool
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// NotificationService рендерит письмо и либо отправляет его, либо симулирует отправку
type NotificationService struct {
	renderer *render.Renderer
	mailer   Mailer
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewNotificationService(renderer *render.Renderer, m Mailer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		renderer: renderer,
		mailer:   m,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// TransportUsable результат стартовой проверки SMTP
func (s *NotificationService) TransportUsable() bool { return s.mailer.Usable() }

// Health снимок для GET /api/email/health
func (s *NotificationService) Health() domain.HealthStatus {
	return domain.HealthStatus{
		Status:           "OK",
		Service:          serviceName,
		EmailConfigValid: s.mailer.Usable(),
		Timestamp:        s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func (s *NotificationService) recipient(raw string) (string, error) {
	to := strings.TrimSpace(raw)
	if to == "" {
		return "", ErrMissingRecipient
	}
	if err := s.validate.Var(to, "email"); err != nil {
		return "", fmt.Errorf("%w: malformed recipient %q", ErrInvalidInput, to)
	}
	return to, nil
}

// SendOrderConfirmation принят -> отрендерен -> отправлен | симулирован | ошибка
func (s *NotificationService) SendOrderConfirmation(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error) {
	to, err := s.recipient(req.Recipient())
	if err != nil {
		return domain.NotificationResult{}, err
	}
	email, err := s.renderer.OrderConfirmation(req.OrderData.Order, req.OrderData.User, req.PaymentInfo)
	if err != nil {
		return domain.NotificationResult{}, err
	}
	return s.dispatch(ctx, KindOrderConfirmation, "Order confirmation email", to, email,
		zap.Int64("order_id", req.OrderData.Order.ID))
}

func (s *NotificationService) SendPaymentReceipt(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error) {
	to, err := s.recipient(req.Recipient())
	if err != nil {
		return domain.NotificationResult{}, err
	}
	email, err := s.renderer.PaymentReceipt(req.OrderData.Order, req.OrderData.User, req.PaymentInfo, to)
	if err != nil {
		return domain.NotificationResult{}, err
	}
	return s.dispatch(ctx, KindPaymentReceipt, "Payment receipt email", to, email,
		zap.Int64("order_id", req.OrderData.Order.ID))
}

func (s *NotificationService) SendTest(ctx context.Context, req domain.TestEmailRequest) (domain.NotificationResult, error) {
	to, err := s.recipient(req.UserEmail)
	if err != nil {
		return domain.NotificationResult{}, err
	}
	email, err := s.renderer.TestMessage(req.UserName, s.mailer.Usable())
	if err != nil {
		return domain.NotificationResult{}, err
	}
	return s.dispatch(ctx, KindTest, "Test email", to, email)
}

// dispatch флаг читается один раз на запрос, повторной проверки SMTP нет
func (s *NotificationService) dispatch(ctx context.Context, kind Kind, label, to string, email render.Email, fields ...zap.Field) (domain.NotificationResult, error) {
	log := s.logger.With(append(fields,
		zap.String("kind", string(kind)),
		zap.String("recipient", to),
		zap.String("subject", email.Subject),
	)...)

	if !s.mailer.Usable() {
		log.Info("email simulated", zap.String("outcome", "simulated"))
		return domain.NotificationResult{
			Success:   true,
			Message:   label + " simulated successfully",
			Simulated: true,
		}, nil
	}

	id, err := s.mailer.Send(ctx, mailer.Message{To: to, Subject: email.Subject, HTML: email.HTML})
	if err != nil {
		log.Error("email delivery failed", zap.String("outcome", "failed"), zap.Error(err))
		return domain.NotificationResult{}, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	log.Info("email sent", zap.String("outcome", "sent"), zap.String("message_id", id))
	return domain.NotificationResult{
		Success:   true,
		Message:   label + " sent successfully",
		MessageID: id,
	}, nil
}
