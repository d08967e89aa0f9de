package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocito/internal/domain"
	"grocito/internal/repository"
)

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddUser(domain.BackendUser{ID: 1, FullName: "kshitij", Email: "x@example.com", Pincode: "411001"})
	store.AddProduct(domain.BackendProduct{ID: 10, Name: "Paneer", Price: decimal.NewFromInt(90)})
	require.NoError(t, store.AddToCart(1, 10, 1))
	return store
}

func TestPlaceOrder_SendsConfirmation(t *testing.T) {
	sender := &fakeSender{}
	svc := NewCheckoutService(seededStore(t), sender, 0, nil)

	res, err := svc.PlaceOrder(context.Background(), 1, "12 MG Road", PaymentChoice{Method: domain.PaymentMethodOnline, ID: "pay_1"})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Nil(t, res.Warning)

	require.Len(t, sender.calls, 1)
	req := sender.calls[0].req
	assert.Equal(t, "x@example.com", req.UserEmail)
	assert.Equal(t, res.Order.ID, req.OrderData.Order.ID)
	assert.Equal(t, domain.PaymentMethodOnline, req.PaymentInfo.PaymentMethod)
	require.NotNil(t, req.PaymentInfo.PaymentID)
	assert.Equal(t, "pay_1", *req.PaymentInfo.PaymentID)
}

func TestPlaceOrder_NotificationFailureIsWarning(t *testing.T) {
	sender := &fakeSender{errs: []error{errors.New("connection refused")}}
	svc := NewCheckoutService(seededStore(t), sender, 0, nil)

	res, err := svc.PlaceOrder(context.Background(), 1, "12 MG Road", PaymentChoice{})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	require.NotNil(t, res.Warning)
	assert.Contains(t, res.Warning.Error(), "connection refused")
}

func TestPlaceOrder_UnsuccessfulResultIsWarning(t *testing.T) {
	sender := &fakeSender{results: []domain.NotificationResult{{Success: false, Error: "smtp down"}}}
	svc := NewCheckoutService(seededStore(t), sender, 0, nil)

	res, err := svc.PlaceOrder(context.Background(), 1, "12 MG Road", PaymentChoice{})
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	assert.Contains(t, res.Warning.Error(), "smtp down")
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	sender := &fakeSender{}
	svc := NewCheckoutService(seededStore(t), sender, 0, nil)

	_, err := svc.PlaceOrder(context.Background(), 0, "12 MG Road", PaymentChoice{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.PlaceOrder(context.Background(), 1, "   ", PaymentChoice{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, sender.calls)
}

func TestPlaceOrder_BackendErrorPropagates(t *testing.T) {
	sender := &fakeSender{}
	svc := NewCheckoutService(repository.NewMemoryStore(), sender, 0, nil)

	_, err := svc.PlaceOrder(context.Background(), 1, "12 MG Road", PaymentChoice{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, sender.calls)
}
