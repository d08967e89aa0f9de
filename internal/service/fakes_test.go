package service

import (
	"context"
	"sync"

	"grocito/internal/domain"
)

type sendCall struct {
	req domain.NotificationRequest
}

// fakeSender записывает запросы и отвечает по очереди заданными результатами
type fakeSender struct {
	mu      sync.Mutex
	calls   []sendCall
	results []domain.NotificationResult
	errs    []error
}

func (f *fakeSender) SendOrderConfirmation(_ context.Context, req domain.NotificationRequest) (domain.NotificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, sendCall{req: req})
	var res domain.NotificationResult
	var err error
	if i < len(f.results) {
		res = f.results[i]
	} else {
		res = domain.NotificationResult{Success: true, MessageID: "<ok>"}
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}
