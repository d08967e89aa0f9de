package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"grocito/internal/domain"
	"grocito/internal/repository"
)

// DefaultReplayLimit сколько последних заказов переотправлять по умолчанию
const DefaultReplayLimit = 10

// ReplayReport итог пакетной переотправки
type ReplayReport struct {
	Processed  int
	Sent       int
	Simulated  int
	Failed     int
	Recipients []string
}

// ReplayService повторно отправляет подтверждения для уже созданных заказов.
// Отправка строго последовательная, с паузой между письмами.
type ReplayService struct {
	orders        repository.OrderRepository
	notifications ConfirmationSender
	delay         time.Duration
	logger        *zap.Logger
}

func NewReplayService(orders repository.OrderRepository, notifications ConfirmationSender, delay time.Duration, logger *zap.Logger) *ReplayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayService{orders: orders, notifications: notifications, delay: delay, logger: logger}
}

// ReplayRecent ошибка по одному заказу не прерывает пакет; ошибка возвращается только
// если не удалось получить список заказов или отменён ctx
func (s *ReplayService) ReplayRecent(ctx context.Context, n int) (*ReplayReport, error) {
	if n <= 0 {
		n = DefaultReplayLimit
	}
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) > n {
		orders = orders[len(orders)-n:]
	}
	s.logger.Info("replaying order confirmations", zap.Int("orders", len(orders)))

	report := &ReplayReport{}
	seen := make(map[string]struct{})
	for i, o := range orders {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.delay):
			}
		}
		s.replayOne(ctx, o, report)
		if _, ok := seen[o.User.Email]; !ok && o.User.Email != "" {
			seen[o.User.Email] = struct{}{}
			report.Recipients = append(report.Recipients, o.User.Email)
		}
	}
	return report, nil
}

// ReplayOrder переотправляет подтверждение по одному заказу
func (s *ReplayService) ReplayOrder(ctx context.Context, id int64) (domain.NotificationResult, error) {
	if id <= 0 {
		return domain.NotificationResult{}, ErrInvalidInput
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return domain.NotificationResult{}, err
	}
	return s.notifications.SendOrderConfirmation(ctx, domain.NewConfirmationRequest(*o, domain.PaymentMethodCOD, ""))
}

func (s *ReplayService) replayOne(ctx context.Context, o domain.BackendOrder, report *ReplayReport) {
	report.Processed++
	log := s.logger.With(zap.Int64("order_id", o.ID), zap.String("recipient", o.User.Email))

	res, err := s.notifications.SendOrderConfirmation(ctx, domain.NewConfirmationRequest(o, domain.PaymentMethodCOD, ""))
	switch {
	case err != nil:
		report.Failed++
		log.Error("replay failed", zap.Error(err))
	case !res.Success:
		report.Failed++
		log.Error("replay failed", zap.String("error", res.Error))
	case res.Simulated:
		report.Simulated++
		log.Info("replay simulated")
	default:
		report.Sent++
		log.Info("replay sent", zap.String("message_id", res.MessageID))
	}
}
