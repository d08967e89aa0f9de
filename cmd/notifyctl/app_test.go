package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocito/internal/domain"
)

const ordersJSON = `[
 {"id":13,"orderTime":"2025-07-20T10:00:00","status":"DELIVERED","totalAmount":50.0,"user":{"id":2,"fullName":"B","email":"b@example.com"},"items":[]},
 {"id":14,"orderTime":"2025-07-20T14:23:11","status":"PLACED","totalAmount":140.0,"user":{"id":1,"fullName":"kshitij","email":"x@example.com"},
  "items":[{"id":1,"quantity":1,"price":90.0,"product":{"id":10,"name":"Paneer","price":90.0}}]}
]`

type fixture struct {
	backend *httptest.Server
	notify  *httptest.Server
	sent    atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	backend := http.NewServeMux()
	backend.HandleFunc("/api/orders/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ordersJSON))
	})
	backend.HandleFunc("/api/orders/place-from-cart", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":15,"totalAmount":25.0,"status":"PLACED","user":{"id":1,"email":"x@example.com"},"items":[]}`))
	})
	f.backend = httptest.NewServer(backend)
	t.Cleanup(f.backend.Close)

	notify := http.NewServeMux()
	notify.HandleFunc("/api/email/send-order-confirmation", func(w http.ResponseWriter, r *http.Request) {
		var req domain.NotificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserEmail == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":"recipient email is required"}`))
			return
		}
		f.sent.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"message":"Order confirmation email simulated successfully","simulated":true}`))
	})
	notify.HandleFunc("/api/email/send-test", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"Test email sent successfully","messageId":"<t1>"}`))
	})
	notify.HandleFunc("/api/email/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","service":"Grocito Email Service","emailConfigValid":true,"timestamp":"2025-07-20T08:53:11.000Z"}`))
	})
	f.notify = httptest.NewServer(notify)
	t.Cleanup(f.notify.Close)
	return f
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	base := []string{"notifyctl",
		"--backend-url", f.backend.URL + "/api",
		"--notify-url", f.notify.URL + "/api/email",
	}
	err := app.Run(append(base, args...))
	return out.String(), err
}

func TestReplayCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "replay", "--limit", "5", "--delay", "0s")
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.sent.Load())
	assert.Contains(t, out, "processed 2 orders: 0 sent, 2 simulated, 0 failed")
	assert.Contains(t, out, "b@example.com")
	assert.Contains(t, out, "x@example.com")
}

func TestReplayCommand_ConfigFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "notifyctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: 1\ndelay: 0s\n"), 0o600))

	out, err := f.run(t, "--config", path, "replay")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.sent.Load())
	assert.Contains(t, out, "processed 1 orders")
	assert.Contains(t, out, "x@example.com")
}

func TestPlaceCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "place", "--user-id", "1", "--address", "12 MG Road")
	require.NoError(t, err)
	assert.Contains(t, out, "order #15 placed, total ₹25.00")
	assert.NotContains(t, out, "warning")
	assert.Equal(t, int32(1), f.sent.Load())

	_, err = f.run(t, "place", "--user-id", "1", "--address", "x", "--payment-method", "card")
	require.Error(t, err)
}

func TestHealthCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "order backend: ok, 2 orders")
	assert.Contains(t, out, "email service: OK, mode smtp")
}

func TestTestEmailCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "test-email", "--to", "x@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Test email sent successfully, message id <t1>")
}
