package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderJSON = `{"id":14,"orderTime":"2025-07-20T14:23:11","status":"PLACED","totalAmount":140.0,
"deliveryAddress":"12 MG Road","pincode":"411001",
"user":{"id":1,"fullName":"kshitij","email":"x@example.com","pincode":"411001"},
"items":[{"id":1,"quantity":1,"price":90.0,"product":{"id":10,"name":"Paneer","price":90.0}}]}`

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + orderJSON + "]"))
	})
	mux.HandleFunc("/api/orders/14", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(orderJSON))
	})
	mux.HandleFunc("/api/orders/500", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/orders/place-from-cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("userId") != "1" || r.URL.Query().Get("deliveryAddress") != "12 MG Road" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(orderJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPOrders(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	orders := NewHTTPOrders(srv.URL+"/api/", time.Second)

	all, err := orders.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(14), all[0].ID)
	assert.Equal(t, "x@example.com", all[0].User.Email)

	o, err := orders.GetByID(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, "140.00", o.TotalAmount.StringFixed(2))
	assert.Equal(t, "Paneer", o.Items[0].Product.Name)

	o, err = orders.PlaceFromCart(ctx, 1, " 12 MG Road ")
	require.NoError(t, err)
	assert.Equal(t, int64(14), o.ID)
}

func TestHTTPOrders_Errors(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	orders := NewHTTPOrders(srv.URL+"/api", time.Second)

	_, err := orders.GetByID(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = orders.GetByID(ctx, 500)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "boom", se.Body)

	_, err = orders.PlaceFromCart(ctx, 2, "elsewhere")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
}
