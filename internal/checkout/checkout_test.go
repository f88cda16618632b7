package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/delay"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
)

type fakeCart struct {
	lines    []cart.Line
	clearErr error
	cleared  bool
}

func (f *fakeCart) Lines() []cart.Line { return append([]cart.Line(nil), f.lines...) }

func (f *fakeCart) Subtotal() float64 {
	var s float64
	for _, l := range f.lines {
		s += l.Total()
	}
	return s
}

func (f *fakeCart) Clear(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.lines = nil
	f.cleared = true
	return nil
}

type captureMailer struct {
	to, subject, body string
	err               error
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

var policy = ShippingPolicy{FreeThreshold: 1000, Fee: 100}

func validDetails() Details {
	return Details{
		FirstName: "Jane", LastName: "Doe", Email: "a@x.com",
		Address: "1 Long St", City: "Cape Town", PostalCode: "8001",
	}
}

func TestShippingThresholdIsStrict(t *testing.T) {
	assert.Equal(t, 100.0, policy.Shipping(999.99))
	assert.Equal(t, 100.0, policy.Shipping(1000))
	assert.Equal(t, 0.0, policy.Shipping(1000.01))
	assert.Equal(t, 0.0, policy.Shipping(0))

	q := policy.Quote(899.5)
	assert.Equal(t, Quote{Subtotal: 899.5, Shipping: 100, Total: 999.5, FreeShippingRemaining: 100.5}, q)

	q = policy.Quote(1899.99)
	assert.Equal(t, Quote{Subtotal: 1899.99, Shipping: 0, Total: 1899.99}, q)
}

func TestPlaceOrder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mailer := &captureMailer{}
	rec := &notify.Recorder{}
	svc := NewService(Options{Policy: policy, Mailer: mailer, Notifier: rec, Metrics: m})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	c := &fakeCart{lines: []cart.Line{
		{ProductID: "3", Name: "Air Force 1", Price: 1299.95, Size: "UK 9", Quantity: 1},
	}}

	r, err := svc.PlaceOrder(context.Background(), c, validDetails())
	require.NoError(t, err)
	assert.Regexp(t, `^NK-[0-9]{6}$`, r.OrderNumber)
	assert.Equal(t, "South Africa", r.Customer.Country)
	assert.Equal(t, PaymentCreditCard, r.PaymentMethod)
	assert.Equal(t, 1299.95, r.Total)
	assert.Equal(t, 0.0, r.Shipping)
	assert.Len(t, r.Items, 1)
	assert.True(t, c.cleared)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), r.OrderDate)

	assert.Equal(t, "a@x.com", mailer.to)
	assert.Contains(t, mailer.subject, r.OrderNumber)
	assert.Contains(t, mailer.body, "Air Force 1 (Size: UK 9)")
	assert.Contains(t, mailer.body, "R1299.95")
	assert.Contains(t, mailer.body, "Free")
	assert.Empty(t, rec.Notifications())
}

func TestPlaceOrderRejects(t *testing.T) {
	rec := &notify.Recorder{}
	svc := NewService(Options{Policy: policy, Notifier: rec})
	ctx := context.Background()
	full := &fakeCart{lines: []cart.Line{{ProductID: "1", Price: 10, Quantity: 1}}}

	d := validDetails()
	d.City = "  "
	_, err := svc.PlaceOrder(ctx, full, d)
	assert.ErrorIs(t, err, ErrMissingDetails)
	assert.Equal(t, "Please fill in all required fields", rec.Notifications()[0].Title)

	d = validDetails()
	d.PaymentMethod = "cash"
	_, err = svc.PlaceOrder(ctx, full, d)
	assert.ErrorIs(t, err, ErrUnsupportedPayment)

	_, err = svc.PlaceOrder(ctx, &fakeCart{}, validDetails())
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.False(t, full.cleared)
}

func TestPlaceOrderKeepsCartOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &fakeCart{lines: []cart.Line{{ProductID: "1", Price: 10, Quantity: 1}}}

	svc := NewService(Options{Policy: policy, Delay: delay.Fixed(time.Hour)})
	_, err := svc.PlaceOrder(ctx, c, validDetails())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.cleared)

	c.clearErr = errors.New("disk full")
	_, err = NewService(Options{Policy: policy}).PlaceOrder(context.Background(), c, validDetails())
	assert.Error(t, err)
	assert.Len(t, c.lines, 1)
}

func TestMailFailureDoesNotFailOrder(t *testing.T) {
	svc := NewService(Options{Policy: policy, Mailer: &captureMailer{err: errors.New("smtp down")}})
	c := &fakeCart{lines: []cart.Line{{ProductID: "1", Price: 10, Quantity: 2}}}

	r, err := svc.PlaceOrder(context.Background(), c, validDetails())
	require.NoError(t, err)
	assert.Equal(t, 120.0, r.Total)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := &fakeCart{lines: []cart.Line{{ProductID: "1", Name: "Air Zoom Pulse", Price: 1899.99, Size: "UK 8", Quantity: 1}}}
	h := NewHandler(NewService(Options{Policy: policy, Notifier: notify.Context{}}), func(*gin.Context) (Cart, error) { return c, nil }, nil)

	r := gin.New()
	r.Use(notify.Middleware())
	r.POST("/api/checkout", h.PlaceOrder)

	post := func(body any) (*httptest.ResponseRecorder, map[string]any) {
		b, _ := json.Marshal(body)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(b)))
		out := map[string]any{}
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return w, out
	}

	w, body := post(gin.H{"firstName": "Jane"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, body["notifications"], 1)

	d := validDetails()
	d.PaymentMethod = PaymentPayPal
	w, body = post(d)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := body["order"].(map[string]any)
	assert.Equal(t, "paypal", order["paymentMethod"])
	assert.Equal(t, 1899.99, order["total"])

	w, _ = post(validDetails())
	assert.Equal(t, http.StatusBadRequest, w.Code, "cart was cleared by the first order")
}
