// Package ratelimit реализует скользящее окно запросов на ключ (адрес клиента).
package ratelimit

import (
	"context"
	"time"
)

// Limiter решает, укладывается ли очередной запрос по ключу в квоту
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Rule не более Max запросов за Window
type Rule struct {
	Max    int
	Window time.Duration
}
