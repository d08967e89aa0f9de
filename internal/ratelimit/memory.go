package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = 1024

// Memory хранит журнал принятых запросов по ключу в памяти процесса
type Memory struct {
	rule  Rule
	now   func() time.Time
	mu    sync.Mutex
	hits  map[string][]time.Time
	calls int
}

func NewMemory(rule Rule) *Memory {
	return &Memory{rule: rule, now: time.Now, hits: make(map[string][]time.Time)}
}

var _ Limiter = (*Memory)(nil)

// prune отбрасывает отметки, вышедшие из окна; hits упорядочены по возрастанию
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()
	cutoff := now.Add(-m.rule.Window)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(cutoff)
	}

	hits := prune(m.hits[key], cutoff)
	if len(hits) >= m.rule.Max {
		m.hits[key] = hits
		return false, nil
	}
	m.hits[key] = append(hits, now)
	return true, nil
}

// sweep удаляет простаивающие ключи, вызывается под mu
func (m *Memory) sweep(cutoff time.Time) {
	for k, hits := range m.hits {
		if rest := prune(hits, cutoff); len(rest) == 0 {
			delete(m.hits, k)
		} else {
			m.hits[k] = rest
		}
	}
}
