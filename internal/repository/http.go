package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grocito/internal/domain"
)

// HTTPOrders клиент бэкенда заказов; baseURL вида http://localhost:8080/api
type HTTPOrders struct {
	baseURL string
	client  *http.Client
}

func NewHTTPOrders(baseURL string, timeout time.Duration) *HTTPOrders {
	return &HTTPOrders{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var _ OrderRepository = (*HTTPOrders)(nil)

// StatusError ответ бэкенда с кодом вне 2xx
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order backend responded %d: %s", e.Status, e.Body)
}

func (h *HTTPOrders) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("order backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (h *HTTPOrders) All(ctx context.Context) ([]domain.BackendOrder, error) {
	var orders []domain.BackendOrder
	if err := h.do(ctx, http.MethodGet, "/orders/all", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (h *HTTPOrders) GetByID(ctx context.Context, id int64) (*domain.BackendOrder, error) {
	var o domain.BackendOrder
	if err := h.do(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(id, 10), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// PlaceFromCart бэкенд ждёт userId и deliveryAddress в query, а не в теле
func (h *HTTPOrders) PlaceFromCart(ctx context.Context, userID int64, deliveryAddress string) (*domain.BackendOrder, error) {
	params := url.Values{}
	params.Set("userId", strconv.FormatInt(userID, 10))
	params.Set("deliveryAddress", strings.TrimSpace(deliveryAddress))

	var o domain.BackendOrder
	if err := h.do(ctx, http.MethodPost, "/orders/place-from-cart?"+params.Encode(), &o); err != nil {
		return nil, err
	}
	return &o, nil
}
