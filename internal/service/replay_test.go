package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"grocito/internal/domain"
	"grocito/internal/mailer"
	"grocito/internal/repository"
)

// storeWithOrders создаёт n заказов; пользователи чередуются
func storeWithOrders(t *testing.T, n int) *repository.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.AddUser(domain.BackendUser{ID: 1, FullName: "A", Email: "a@example.com"})
	store.AddUser(domain.BackendUser{ID: 2, FullName: "B", Email: "b@example.com"})
	store.AddProduct(domain.BackendProduct{ID: 10, Name: "Milk", Price: decimal.NewFromInt(25)})
	for i := 0; i < n; i++ {
		uid := int64(i%2 + 1)
		require.NoError(t, store.AddToCart(uid, 10, 1))
		_, err := store.PlaceFromCart(ctx, uid, "addr")
		require.NoError(t, err)
	}
	return store
}

func TestReplayRecent_TakesLastN(t *testing.T) {
	sender := &fakeSender{}
	svc := NewReplayService(storeWithOrders(t, 5), sender, 0, nil)

	report, err := svc.ReplayRecent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 3, report.Sent)

	require.Len(t, sender.calls, 3)
	assert.Equal(t, int64(3), sender.calls[0].req.OrderData.Order.ID)
	assert.Equal(t, int64(5), sender.calls[2].req.OrderData.Order.ID)
	assert.Equal(t, domain.PaymentMethodCOD, sender.calls[0].req.PaymentInfo.PaymentMethod)
	assert.Nil(t, sender.calls[0].req.PaymentInfo.PaymentID)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, report.Recipients)
}

func TestReplayRecent_FailuresDoNotAbortBatch(t *testing.T) {
	sender := &fakeSender{
		results: []domain.NotificationResult{
			{},
			{Success: false, Error: "rejected"},
			{Success: true, Simulated: true},
		},
		errs: []error{errors.New("boom")},
	}
	svc := NewReplayService(storeWithOrders(t, 3), sender, 0, nil)

	report, err := svc.ReplayRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 1, report.Simulated)
	assert.Equal(t, 0, report.Sent)
}

func TestReplayRecent_DelayHonoursContext(t *testing.T) {
	sender := &fakeSender{}
	svc := NewReplayService(storeWithOrders(t, 3), sender, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	report, err := svc.ReplayRecent(ctx, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Processed)
}

func TestReplayOrder(t *testing.T) {
	sender := &fakeSender{}
	svc := NewReplayService(storeWithOrders(t, 2), sender, 0, nil)

	res, err := svc.ReplayOrder(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "b@example.com", sender.calls[0].req.UserEmail)

	_, err = svc.ReplayOrder(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.ReplayOrder(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// staticOrders отдаёт заранее разобранные заказы бэкенда
type staticOrders struct {
	orders []domain.BackendOrder
}

func (s staticOrders) All(context.Context) ([]domain.BackendOrder, error) { return s.orders, nil }

func (s staticOrders) GetByID(_ context.Context, id int64) (*domain.BackendOrder, error) {
	for _, o := range s.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s staticOrders) PlaceFromCart(context.Context, int64, string) (*domain.BackendOrder, error) {
	return nil, repository.ErrEmptyCart
}

func TestReplayOrder_RendersProductPriceWhenItemPriceMissing(t *testing.T) {
	raw := `{
		"id": 21,
		"orderTime": "2025-07-20T14:23:11",
		"status": "PLACED",
		"totalAmount": 115.0,
		"user": {"id": 1, "fullName": "kshitij", "email": "x@example.com"},
		"items": [
			{"id": 1, "quantity": 2, "price": null, "product": {"id": 7, "name": "Atta", "price": 45.0}},
			{"id": 2, "quantity": 1, "price": 0, "product": {"id": 8, "name": "Ghee", "price": 25.0}}
		]
	}`
	var order domain.BackendOrder
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	tr, sender := newTransport(t, true)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mailer.Message) (string, error) {
		assert.Contains(t, msg.HTML, "Qty: 2 × ₹45.00")
		assert.Contains(t, msg.HTML, "<div>₹90.00</div>")
		assert.Contains(t, msg.HTML, "Qty: 1 × ₹25.00")
		assert.Contains(t, msg.HTML, "<div>₹25.00</div>")
		assert.Contains(t, msg.HTML, "₹115.00")
		return "<r21>", nil
	})

	notifications := NewNotificationService(newRenderer(t), tr, nil)
	svc := NewReplayService(staticOrders{orders: []domain.BackendOrder{order}}, notifications, 0, nil)

	res, err := svc.ReplayOrder(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, "<r21>", res.MessageID)
}
