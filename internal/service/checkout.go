package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"grocito/internal/domain"
	"grocito/internal/repository"
)

// ConfirmationSender отправляет письмо-подтверждение; это либо NotificationService,
// либо HTTP-клиент сервиса уведомлений
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error)
}

// PaymentChoice способ оплаты, выбранный при оформлении
type PaymentChoice struct {
	Method domain.PaymentMethod
	ID     string
}

// NotificationWarning письмо не ушло, но заказ создан
type NotificationWarning struct {
	Message string
	Err     error
}

func (w *NotificationWarning) Error() string {
	if w.Err == nil {
		return w.Message
	}
	return w.Message + ": " + w.Err.Error()
}

func (w *NotificationWarning) Unwrap() error { return w.Err }

// PlaceOrderResult заказ и, возможно, предупреждение об уведомлении
type PlaceOrderResult struct {
	Order   *domain.BackendOrder
	Warning *NotificationWarning
}

// CheckoutService оформляет заказ из корзины и уведомляет покупателя
type CheckoutService struct {
	orders        repository.OrderRepository
	notifications ConfirmationSender
	notifyTimeout time.Duration
	logger        *zap.Logger
}

func NewCheckoutService(orders repository.OrderRepository, notifications ConfirmationSender, notifyTimeout time.Duration, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{orders: orders, notifications: notifications, notifyTimeout: notifyTimeout, logger: logger}
}

// PlaceOrder ошибка уведомления не отменяет заказ и не возвращается как error
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int64, deliveryAddress string, payment PaymentChoice) (*PlaceOrderResult, error) {
	if userID <= 0 || strings.TrimSpace(deliveryAddress) == "" {
		return nil, ErrInvalidInput
	}
	order, err := s.orders.PlaceFromCart(ctx, userID, deliveryAddress)
	if err != nil {
		return nil, err
	}
	result := &PlaceOrderResult{Order: order}

	nctx := ctx
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		nctx, cancel = context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
	}
	req := domain.NewConfirmationRequest(*order, payment.Method, payment.ID)
	res, err := s.notifications.SendOrderConfirmation(nctx, req)
	switch {
	case err != nil:
		result.Warning = &NotificationWarning{Message: "order placed but confirmation email was not sent", Err: err}
	case !res.Success:
		result.Warning = &NotificationWarning{
			Message: "order placed but confirmation email was not sent",
			Err:     errors.New(res.Error),
		}
	}

	log := s.logger.With(zap.Int64("order_id", order.ID), zap.String("recipient", req.Recipient()))
	if result.Warning != nil {
		log.Warn("order confirmation email failed", zap.Error(result.Warning))
	} else {
		log.Info("order placed and confirmation dispatched", zap.Bool("simulated", res.Simulated))
	}
	return result, nil
}
