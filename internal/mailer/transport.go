// Package mailer отвечает за SMTP-транспорт и разовую проверку его работоспособности.
package mailer

import (
	"context"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Message письмо к отправке
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender низкоуровневый SMTP-клиент
type Sender interface {
	// Verify проверяет соединение и аутентификацию
	Verify(ctx context.Context) error
	// Send отправляет письмо и возвращает Message-ID
	Send(ctx context.Context, msg Message) (string, error)
}

// Transport хранит клиента и флаг "транспорт пригоден".
// Флаг выставляется один раз в Probe; обработчики запросов его только читают.
type Transport struct {
	sender Sender
	usable *atomic.Bool
	logger *zap.Logger
}

func NewTransport(sender Sender, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{sender: sender, usable: atomic.NewBool(false), logger: logger}
}

// Probe разовая проверка без повторов. При ошибке процесс остаётся в режиме симуляции.
func (t *Transport) Probe(ctx context.Context, timeout time.Duration) bool {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := t.sender.Verify(ctx); err != nil {
		t.logger.Error("email transport verification failed, running in simulation mode", zap.Error(err))
		t.usable.Store(false)
		return false
	}
	t.logger.Info("email transport is ready to send emails")
	t.usable.Store(true)
	return true
}

// Usable результат последней проверки
func (t *Transport) Usable() bool { return t.usable.Load() }

func (t *Transport) Send(ctx context.Context, msg Message) (string, error) {
	return t.sender.Send(ctx, msg)
}
