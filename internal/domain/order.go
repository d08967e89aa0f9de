package domain

import (
	"github.com/shopspring/decimal"
)

// BackendUser пользователь в ответах бэкенда заказов
type BackendUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Pincode  string `json:"pincode"`
}

// BackendProduct товар в ответах бэкенда
type BackendProduct struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// BackendOrderItem позиция заказа в ответах бэкенда
type BackendOrderItem struct {
	ID       int64            `json:"id"`
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
	Product  BackendProduct   `json:"product"`
}

// BackendOrder заказ в формате /api/orders
type BackendOrder struct {
	ID              int64              `json:"id"`
	OrderTime       string             `json:"orderTime"`
	Status          OrderStatus        `json:"status"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Pincode         string             `json:"pincode"`
	User            BackendUser        `json:"user"`
	Items           []BackendOrderItem `json:"items"`
}

// Snapshot превращает заказ бэкенда в OrderSnapshot
func (o BackendOrder) Snapshot() OrderSnapshot {
	total := o.TotalAmount
	items := make([]LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		productPrice := it.Product.Price
		li := LineItem{
			Name:     it.Product.Name,
			Quantity: it.Quantity,
			Product:  ProductRef{Name: it.Product.Name, Price: &productPrice},
		}
		if it.Price != nil {
			price := *it.Price
			li.Price = &price
		}
		items = append(items, li)
	}
	return OrderSnapshot{
		ID:              o.ID,
		OrderTime:       o.OrderTime,
		Status:          o.Status,
		TotalAmount:     &total,
		DeliveryAddress: o.DeliveryAddress,
		Pincode:         o.Pincode,
		Items:           items,
	}
}

// NewConfirmationRequest собирает запрос на письмо-подтверждение из созданного заказа.
// Используется и при оформлении заказа, и в утилитах повторной отправки.
func NewConfirmationRequest(o BackendOrder, method PaymentMethod, paymentID string) NotificationRequest {
	if method == "" {
		method = PaymentMethodCOD
	}
	var pid *string
	if paymentID != "" {
		pid = &paymentID
	}
	paid := o.TotalAmount
	return NotificationRequest{
		OrderData: OrderData{
			Order: o.Snapshot(),
			User: UserSnapshot{
				FullName: o.User.FullName,
				Email:    o.User.Email,
				Pincode:  o.User.Pincode,
			},
		},
		PaymentInfo: PaymentInfo{
			PaymentMethod: method,
			PaymentID:     pid,
			PaidAmount:    &paid,
		},
		UserEmail: o.User.Email,
	}
}
