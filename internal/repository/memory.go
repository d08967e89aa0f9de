package repository

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"grocito/internal/domain"
)

const orderTimeLayout = "2006-01-02T15:04:05.999999"

type cartLine struct {
	productID int64
	quantity  int64
}

// MemoryStore in-memory бэкенд: пользователи, товары, корзины и заказы
type MemoryStore struct {
	mu          sync.RWMutex
	nextOrderID int64
	nextItemID  int64
	users       map[int64]domain.BackendUser
	products    map[int64]domain.BackendProduct
	carts       map[int64][]cartLine
	orders      []domain.BackendOrder
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextOrderID: 1,
		nextItemID:  1,
		users:       make(map[int64]domain.BackendUser),
		products:    make(map[int64]domain.BackendProduct),
		carts:       make(map[int64][]cartLine),
		now:         time.Now,
	}
}

func (m *MemoryStore) AddUser(u domain.BackendUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MemoryStore) AddProduct(p domain.BackendProduct) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// AddToCart кладёт товар в корзину пользователя
func (m *MemoryStore) AddToCart(userID, productID, quantity int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.products[productID]; !ok {
		return ErrNotFound
	}
	m.carts[userID] = append(m.carts[userID], cartLine{productID: productID, quantity: quantity})
	return nil
}

// Ensure interfaces
var _ OrderRepository = (*MemoryStore)(nil)

func (m *MemoryStore) All(_ context.Context) ([]domain.BackendOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BackendOrder, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id int64) (*domain.BackendOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.ID == id {
			// return copy
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// PlaceFromCart превращает корзину в заказ и очищает её, как place-from-cart бэкенда
func (m *MemoryStore) PlaceFromCart(_ context.Context, userID int64, deliveryAddress string) (*domain.BackendOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	lines := m.carts[userID]
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	o := domain.BackendOrder{
		ID:              m.nextOrderID,
		OrderTime:       m.now().Format(orderTimeLayout),
		Status:          domain.OrderStatusPlaced,
		DeliveryAddress: deliveryAddress,
		Pincode:         user.Pincode,
		User:            user,
		TotalAmount:     decimal.Zero,
	}
	m.nextOrderID++
	for _, l := range lines {
		p := m.products[l.productID]
		price := p.Price
		o.Items = append(o.Items, domain.BackendOrderItem{
			ID:       m.nextItemID,
			Quantity: l.quantity,
			Price:    &price,
			Product:  p,
		})
		m.nextItemID++
		o.TotalAmount = o.TotalAmount.Add(p.Price.Mul(decimal.NewFromInt(l.quantity)))
	}
	m.orders = append(m.orders, o)
	delete(m.carts, userID)

	cp := o
	return &cp, nil
}
