// Package notifyclient HTTP-клиент сервиса уведомлений (/api/email).
package notifyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"grocito/internal/domain"
)

// Client baseURL вида http://localhost:3001/api/email
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ResponseError сервис ответил не 2xx
type ResponseError struct {
	Status int
	Result domain.NotificationResult
}

func (e *ResponseError) Error() string {
	if e.Result.Error != "" {
		return fmt.Sprintf("notification service responded %d: %s", e.Status, e.Result.Error)
	}
	return fmt.Sprintf("notification service responded %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification service %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		re := &ResponseError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&re.Result)
		return re
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, path string, in any) (domain.NotificationResult, error) {
	var res domain.NotificationResult
	if err := c.do(ctx, http.MethodPost, path, in, &res); err != nil {
		return domain.NotificationResult{}, err
	}
	return res, nil
}

func (c *Client) SendOrderConfirmation(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error) {
	return c.send(ctx, "/send-order-confirmation", req)
}

func (c *Client) SendPaymentReceipt(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error) {
	return c.send(ctx, "/send-payment-receipt", req)
}

func (c *Client) SendTest(ctx context.Context, req domain.TestEmailRequest) (domain.NotificationResult, error) {
	return c.send(ctx, "/send-test", req)
}

func (c *Client) Health(ctx context.Context) (domain.HealthStatus, error) {
	var h domain.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return domain.HealthStatus{}, err
	}
	return h, nil
}
