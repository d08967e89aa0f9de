package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus статус заказа на стороне бэкенда
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "PLACED"
	OrderStatusPacked         OrderStatus = "PACKED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// ProductRef краткая информация о товаре внутри позиции
type ProductRef struct {
	Name  string           `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// LineItem позиция заказа в письме
type LineItem struct {
	Name     string           `json:"name,omitempty"`
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Product  ProductRef       `json:"product"`
}

// UnitPrice цена за единицу: price, затем product.price, иначе 0.
// Нулевая price считается отсутствующей.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.Price != nil && !li.Price.IsZero() {
		return *li.Price
	}
	if li.Product.Price != nil {
		return *li.Product.Price
	}
	return decimal.Zero
}

// LineTotal цена позиции = цена за единицу × количество
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice().Mul(decimal.NewFromInt(li.Quantity))
}

// OrderSnapshot снимок заказа, передаваемый в сервис уведомлений
type OrderSnapshot struct {
	ID              int64            `json:"id"`
	OrderTime       string           `json:"orderTime,omitempty"`
	Status          OrderStatus      `json:"status,omitempty"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
	DeliveryAddress string           `json:"deliveryAddress,omitempty"`
	Pincode         string           `json:"pincode,omitempty"`
	Items           []LineItem       `json:"items"`
}

// Total сумма заказа, 0 если не задана
func (o OrderSnapshot) Total() decimal.Decimal {
	if o.TotalAmount == nil {
		return decimal.Zero
	}
	return *o.TotalAmount
}

// UserSnapshot получатель письма
type UserSnapshot struct {
	FullName string `json:"fullName,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

// PaymentInfo данные об оплате
type PaymentInfo struct {
	PaymentMethod PaymentMethod    `json:"paymentMethod,omitempty"`
	PaymentID     *string          `json:"paymentId"`
	PaidAmount    *decimal.Decimal `json:"paidAmount,omitempty"`
}

// OrderData заказ вместе с пользователем
type OrderData struct {
	Order OrderSnapshot `json:"order"`
	User  UserSnapshot  `json:"user"`
}

// NotificationRequest тело запросов send-order-confirmation и send-payment-receipt
type NotificationRequest struct {
	OrderData   OrderData   `json:"orderData"`
	PaymentInfo PaymentInfo `json:"paymentInfo"`
	UserEmail   string      `json:"userEmail,omitempty"`
}

// Recipient адрес доставки: userEmail важнее orderData.user.email
func (r NotificationRequest) Recipient() string {
	if e := strings.TrimSpace(r.UserEmail); e != "" {
		return e
	}
	return strings.TrimSpace(r.OrderData.User.Email)
}

// TestEmailRequest тело запроса send-test
type TestEmailRequest struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName,omitempty"`
}

// NotificationResult ответ сервиса уведомлений
type NotificationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Simulated bool   `json:"simulated,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus ответ GET /api/email/health
type HealthStatus struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	EmailConfigValid bool   `json:"emailConfigValid"`
	Timestamp        string `json:"timestamp"`
}
