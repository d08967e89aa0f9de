package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"grocito/internal/domain"
)

// Все правила "нет поля -> значение по умолчанию" собраны здесь, шаблоны только печатают.

const (
	defaultCustomer        = "Valued Customer"
	defaultReceiptCustomer = "Customer"
	defaultAddress         = "Address on file"
	defaultProductName     = "Product"
	notAvailable           = "N/A"
)

// orderTimeLayouts бэкенд присылает LocalDateTime без часового пояса
var orderTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

const displayLayout = "02/01/2006, 3:04:05 pm"

type lineView struct {
	Name      string
	Quantity  int64
	UnitPrice string
	LineTotal string
}

type orderView struct {
	ID              string
	HasID           bool
	OrderDate       string
	Status          string
	DeliveryAddress string
	Pincode         string
	Items           []lineView
	Total           string
}

type paymentView struct {
	Method      string
	ID          string
	HasID       bool
	PaidAmount  string
	PaymentDate string
}

type brandView struct {
	AppName      string
	AppURL       string
	SupportEmail string
}

type confirmationView struct {
	Brand    brandView
	Customer string
	Order    orderView
	Payment  paymentView
}

type receiptView struct {
	Brand    brandView
	Customer string
	Email    string
	Order    orderView
	Payment  paymentView
}

type testView struct {
	Brand           brandView
	UserName        string
	TransportActive bool
	Timestamp       string
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (r *Renderer) formatTime(t time.Time) string {
	return t.In(r.loc).Format(displayLayout)
}

// orderTime разбирает время заказа; нераспознанное значение заменяется текущим временем
func (r *Renderer) orderTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.now()
	}
	for _, layout := range orderTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, r.loc); err == nil {
			return t
		}
	}
	return r.now()
}

func (r *Renderer) brand() brandView {
	return brandView{
		AppName:      r.brandCfg.AppName,
		AppURL:       r.brandCfg.AppURL,
		SupportEmail: r.brandCfg.SupportEmail,
	}
}

func (r *Renderer) normalizeOrder(o domain.OrderSnapshot, u domain.UserSnapshot) orderView {
	v := orderView{
		HasID:           o.ID > 0,
		OrderDate:       r.formatTime(r.orderTime(o.OrderTime)),
		Status:          firstNonEmpty(string(o.Status), string(domain.OrderStatusPlaced)),
		DeliveryAddress: firstNonEmpty(o.DeliveryAddress, defaultAddress),
		Pincode:         firstNonEmpty(o.Pincode, u.Pincode, notAvailable),
		Total:           money(o.Total()),
	}
	if v.HasID {
		v.ID = strconv.FormatInt(o.ID, 10)
	} else {
		v.ID = notAvailable
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, lineView{
			Name:      firstNonEmpty(it.Product.Name, it.Name, defaultProductName),
			Quantity:  it.Quantity,
			UnitPrice: money(it.UnitPrice()),
			LineTotal: money(it.LineTotal()),
		})
	}
	return v
}

func paidAmount(o domain.OrderSnapshot, p domain.PaymentInfo) decimal.Decimal {
	if p.PaidAmount != nil && !p.PaidAmount.IsZero() {
		return *p.PaidAmount
	}
	return o.Total()
}

func normalizePayment(p domain.PaymentInfo, defaultMethod domain.PaymentMethod) paymentView {
	v := paymentView{Method: firstNonEmpty(string(p.PaymentMethod), string(defaultMethod))}
	if p.PaymentID != nil && strings.TrimSpace(*p.PaymentID) != "" {
		v.ID = strings.TrimSpace(*p.PaymentID)
		v.HasID = true
	} else {
		v.ID = notAvailable
	}
	return v
}
