package repository

import (
	"context"
	"errors"

	"grocito/internal/domain"
)

// ErrNotFound возвращается, когда заказ не найден
var ErrNotFound = errors.New("not found")

// ErrEmptyCart корзина пользователя пуста, заказ оформить нельзя
var ErrEmptyCart = errors.New("cart is empty")

// OrderRepository контракт внешнего бэкенда заказов (/api/orders)
type OrderRepository interface {
	All(ctx context.Context) ([]domain.BackendOrder, error)
	GetByID(ctx context.Context, id int64) (*domain.BackendOrder, error)
	PlaceFromCart(ctx context.Context, userID int64, deliveryAddress string) (*domain.BackendOrder, error)
}
