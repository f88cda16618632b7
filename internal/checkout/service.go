package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/delay"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/mail"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/util"
)

var (
	ErrEmptyCart          = errors.New("checkout: cart is empty")
	ErrMissingDetails     = errors.New("checkout: missing required details")
	ErrUnsupportedPayment = errors.New("checkout: unsupported payment method")
)

const (
	PaymentCreditCard = "credit-card"
	PaymentPayPal     = "paypal"

	DefaultCountry = "South Africa"
)

// Cart is the part of a visitor's cart checkout needs.
type Cart interface {
	Lines() []cart.Line
	Subtotal() float64
	Clear(ctx context.Context) error
}

type Details struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	PaymentMethod string `json:"paymentMethod"`
	SaveInfo      bool   `json:"saveInfo"`
}

// Receipt is returned once and never stored.
type Receipt struct {
	OrderNumber   string      `json:"orderNumber"`
	OrderDate     time.Time   `json:"orderDate"`
	Customer      Details     `json:"customer"`
	Items         []cart.Line `json:"items"`
	PaymentMethod string      `json:"paymentMethod"`
	Quote
}

type Options struct {
	Policy   ShippingPolicy
	Delay    delay.Delayer
	Mailer   mail.Mailer
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Service is shared by all visitors; it keeps no per-order state.
type Service struct {
	policy   ShippingPolicy
	delay    delay.Delayer
	mailer   mail.Mailer
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(opts Options) *Service {
	if opts.Delay == nil {
		opts.Delay = delay.None{}
	}
	if opts.Mailer == nil {
		opts.Mailer = mail.Nop{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Context{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		policy:   opts.Policy,
		delay:    opts.Delay,
		mailer:   opts.Mailer,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

func (s *Service) Policy() ShippingPolicy { return s.policy }

// PlaceOrder validates, waits out the processing latency, then clears the
// cart. The receipt covers the lines seen before the wait.
func (s *Service) PlaceOrder(ctx context.Context, c Cart, d Details) (Receipt, error) {
	d = normalize(d)
	if missing(d) {
		s.notifier.Notify(ctx, notify.Error("Please fill in all required fields", ""))
		return Receipt{}, ErrMissingDetails
	}
	if d.PaymentMethod != PaymentCreditCard && d.PaymentMethod != PaymentPayPal {
		s.notifier.Notify(ctx, notify.Error("Unsupported payment method", "Choose credit card or PayPal"))
		return Receipt{}, ErrUnsupportedPayment
	}

	lines := c.Lines()
	if len(lines) == 0 {
		s.notifier.Notify(ctx, notify.Error("Your cart is empty", "Add something to your cart before checking out."))
		return Receipt{}, ErrEmptyCart
	}
	quote := s.policy.Quote(c.Subtotal())

	if err := s.delay.Wait(ctx); err != nil {
		return Receipt{}, err
	}

	number, err := util.OrderNumber()
	if err != nil {
		return Receipt{}, fmt.Errorf("order number: %w", err)
	}
	if err := c.Clear(ctx); err != nil {
		s.logger.Error("order not placed, cart clear failed", zap.Error(err))
		return Receipt{}, fmt.Errorf("clear cart: %w", err)
	}

	r := Receipt{
		OrderNumber:   number,
		OrderDate:     s.now().UTC(),
		Customer:      d,
		Items:         lines,
		PaymentMethod: d.PaymentMethod,
		Quote:         quote,
	}

	s.metrics.OrderPlaced(r.Total)
	s.logger.Info("order placed",
		zap.String("order_number", r.OrderNumber),
		zap.Int("lines", len(r.Items)),
		zap.Float64("total", r.Total),
	)

	if err := s.mailer.Send(d.Email, "Your SneakVerse order "+r.OrderNumber, r.EmailBody()); err != nil {
		s.logger.Warn("failed to send receipt", zap.String("order_number", r.OrderNumber), zap.Error(err))
	}
	return r, nil
}

func normalize(d Details) Details {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
	if d.Country = strings.TrimSpace(d.Country); d.Country == "" {
		d.Country = DefaultCountry
	}
	if d.PaymentMethod = strings.TrimSpace(d.PaymentMethod); d.PaymentMethod == "" {
		d.PaymentMethod = PaymentCreditCard
	}
	return d
}

func missing(d Details) bool {
	for _, v := range []string{d.FirstName, d.LastName, d.Email, d.Address, d.City, d.PostalCode} {
		if v == "" {
			return true
		}
	}
	return false
}
