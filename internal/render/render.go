// Package render строит HTML-письма: подтверждение заказа, квитанцию об оплате и тестовое письмо.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"grocito/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Branding подставляется во все шаблоны
type Branding struct {
	AppName      string
	AppURL       string
	SupportEmail string
}

// Email готовое письмо
type Email struct {
	Subject string
	HTML    string
}

// Renderer потокобезопасен: шаблоны разбираются один раз в New
type Renderer struct {
	brandCfg Branding
	loc      *time.Location
	now      func() time.Time
	tmpl     *template.Template
}

type Option func(*Renderer)

// WithLocation часовой пояс получателя для дат
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

func New(brand Branding, opts ...Option) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	r := &Renderer{
		brandCfg: brand,
		loc:      time.Local,
		now:      time.Now,
		tmpl:     tmpl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) orderSubject(prefix string, id int64) string {
	if id > 0 {
		return fmt.Sprintf("%s - %s (Order #%d)", prefix, r.brandCfg.AppName, id)
	}
	return fmt.Sprintf("%s - %s", prefix, r.brandCfg.AppName)
}

// OrderConfirmation письмо о подтверждении заказа
func (r *Renderer) OrderConfirmation(order domain.OrderSnapshot, user domain.UserSnapshot, payment domain.PaymentInfo) (Email, error) {
	view := confirmationView{
		Brand:    r.brand(),
		Customer: firstNonEmpty(user.FullName, user.Name, defaultCustomer),
		Order:    r.normalizeOrder(order, user),
		Payment:  normalizePayment(payment, domain.PaymentMethodCOD),
	}
	html, err := r.execute("order_confirmation.html", view)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: r.orderSubject("Order Confirmation", order.ID), HTML: html}, nil
}

// PaymentReceipt квитанция; дата оплаты равна моменту рендеринга, а не время заказа
func (r *Renderer) PaymentReceipt(order domain.OrderSnapshot, user domain.UserSnapshot, payment domain.PaymentInfo, recipient string) (Email, error) {
	pv := normalizePayment(payment, domain.PaymentMethodOnline)
	pv.PaidAmount = money(paidAmount(order, payment))
	pv.PaymentDate = r.formatTime(r.now())

	view := receiptView{
		Brand:    r.brand(),
		Customer: firstNonEmpty(user.FullName, user.Name, defaultReceiptCustomer),
		Email:    firstNonEmpty(user.Email, recipient, notAvailable),
		Order:    r.normalizeOrder(order, user),
		Payment:  pv,
	}
	html, err := r.execute("payment_receipt.html", view)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: r.orderSubject("Payment Receipt", order.ID), HTML: html}, nil
}

// TestMessage диагностическое письмо
func (r *Renderer) TestMessage(userName string, transportActive bool) (Email, error) {
	view := testView{
		Brand:           r.brand(),
		UserName:        firstNonEmpty(userName, "User"),
		TransportActive: transportActive,
		Timestamp:       r.formatTime(r.now()),
	}
	html, err := r.execute("test_email.html", view)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: fmt.Sprintf("Test Email - %s", r.brandCfg.AppName), HTML: html}, nil
}
