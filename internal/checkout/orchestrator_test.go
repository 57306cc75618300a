package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"camelia/internal/cart"
	"camelia/internal/history"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/storage"
	"camelia/internal/user"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubRandom returns fixed draws.
type stubRandom struct {
	float float64
	intn  int
}

func (s stubRandom) Float64() float64 { return s.float }
func (s stubRandom) IntN(int) int     { return s.intn }

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	fixedNow = time.Date(2026, 10, 16, 14, 5, 9, 0, time.UTC)
	toy      = model.Product{ID: 1, Name: "Robot", Price: 1000, Stock: true, Age: "3+", Category: "juguete"}
	ball     = model.Product{ID: 2, Name: "Pelota", Price: 500, Stock: true, Age: "3+", Category: "deporte"}
)

type fixture struct {
	storage  *storage.Memory
	cart     *cart.Cart
	history  *history.Store
	recorder *notify.Recorder
	checkout *Orchestrator
}

func newFixture(t *testing.T, signedIn bool, r Random, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	st := storage.NewMemory()
	users := user.NewStore(st, logger)
	if signedIn {
		require.NoError(t, users.SignIn(ctx, model.CurrentUser{Email: "ana@example.com", Name: "Ana"}))
	}

	c := cart.New(ctx, st, users, nil, logger)
	if signedIn {
		require.NoError(t, c.Add(ctx, toy, 1))
	}

	f := &fixture{
		storage:  st,
		cart:     c,
		history:  history.NewStore(st, logger),
		recorder: notify.NewRecorder(logger),
	}
	opts = append([]Option{WithRandom(r), WithClock(func() time.Time { return fixedNow })}, opts...)
	f.checkout = New(c, users, f.history, st, f.recorder, nil, logger, opts...)

	return f
}

func TestOrchestrator_SummaryRecomputedWithoutRereadingCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true, stubRandom{float: 0.5})

	summary, err := f.checkout.Begin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, summary.Subtotal)
	assert.Equal(t, 1200.0, summary.ShippingCost)
	assert.Equal(t, 2200.0, summary.Total)
	assert.Equal(t, StateReady, f.checkout.State())

	summary, err = f.checkout.Select(ctx, Selection{Shipping: "domicilio", Packaging: true})
	require.NoError(t, err)
	assert.Equal(t, 300.0, summary.PackagingCost)
	assert.Equal(t, 2500.0, summary.Total)

	// the cart changes behind the checkout's back
	require.NoError(t, f.cart.Add(ctx, ball, 1))

	summary, err = f.checkout.Select(ctx, Selection{Shipping: "domicilio", Packaging: false})
	require.NoError(t, err)
	assert.Equal(t, 2200.0, summary.Total)

	summary, err = f.checkout.Select(ctx, Selection{Shipping: "retiro"})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, summary.Total)
	assert.Equal(t, "Retiro en Tienda", summary.ShippingMethod)
}

func TestOrchestrator_FinalizeSuccess(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockPublisher)
	publisher.On("PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.OrderID == 123456
	})).Return(nil)

	f := newFixture(t, true, stubRandom{float: 0.5, intn: 23456}, WithPublisher(publisher))

	order, err := f.checkout.Finalize(ctx, Selection{Shipping: "domicilio", Packaging: true, Payment: "transferencia"})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, 123456, order.OrderID)
	assert.Equal(t, "ana@example.com", order.UserEmail)
	assert.Equal(t, fixedNow, order.Date)
	assert.Equal(t, 2500.0, order.Total)
	assert.Equal(t, "Envío Estándar a Domicilio", order.ShippingMethod)
	assert.Equal(t, "Transferencia Bancaria", order.PaymentMethodName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Robot", order.Items[0].Name)

	// cart emptied in memory and in storage
	assert.True(t, f.cart.IsEmpty())
	assert.False(t, f.storage.Has(storage.KeyCart))

	orders, err := f.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 123456, orders[0].OrderID)

	receipt, err := f.storage.Get(ctx, storage.KeyLastReceipt)
	require.NoError(t, err)
	assert.Contains(t, string(receipt), "Comprobante de Compra #123456")

	assert.Equal(t, StateCompleted, f.checkout.State())
	assert.Equal(t, order, f.checkout.Order())
	assert.Equal(t, []notify.Kind{notify.KindPurchaseSuccess}, f.recorder.Kinds())
	publisher.AssertExpectations(t)

	_, err = f.checkout.Finalize(ctx, Selection{Shipping: "domicilio", Payment: "mp"})
	assert.ErrorIs(t, err, model.ErrCheckoutClosed)
}

func TestOrchestrator_TransferFailureLeavesEverythingIntact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true, stubRandom{float: 0.05, intn: 1})

	order, err := f.checkout.Finalize(ctx, Selection{Shipping: "domicilio", Payment: "transferencia"})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrPaymentFailed)
	assert.Equal(t, 1, f.cart.Len())
	assert.True(t, f.storage.Has(storage.KeyCart))
	assert.False(t, f.storage.Has(storage.KeyHistory))
	assert.False(t, f.storage.Has(storage.KeyLastReceipt))
	assert.Equal(t, StateReady, f.checkout.State())
	assert.Equal(t, []notify.Kind{notify.KindPaymentFailed}, f.recorder.Kinds())

	// other methods never fail
	order, err = f.checkout.Finalize(ctx, Selection{Shipping: "domicilio", Payment: "mp"})
	require.NoError(t, err)
	assert.Equal(t, "mp", order.PaymentMethod)
}

func TestOrchestrator_MissingSelections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true, stubRandom{float: 0.5})

	_, err := f.checkout.Finalize(ctx, Selection{Payment: "mp"})
	assert.ErrorIs(t, err, model.ErrMissingShipping)

	_, err = f.checkout.Finalize(ctx, Selection{Shipping: "domicilio"})
	assert.ErrorIs(t, err, model.ErrMissingPayment)

	_, err = f.checkout.Finalize(ctx, Selection{Shipping: "avion", Payment: "mp"})
	assert.ErrorIs(t, err, model.ErrUnknownShipping)

	_, err = f.checkout.Finalize(ctx, Selection{Shipping: "domicilio", Payment: "bitcoin"})
	assert.ErrorIs(t, err, model.ErrUnknownPayment)

	assert.Equal(t, []notify.Kind{notify.KindMissingShipping, notify.KindMissingPayment}, f.recorder.Kinds())
	assert.Equal(t, 1, f.cart.Len())
	assert.Equal(t, StateReady, f.checkout.State())
}

func TestOrchestrator_LoginRequired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false, stubRandom{})

	_, err := f.checkout.Begin(ctx)
	assert.ErrorIs(t, err, model.ErrLoginRequired)
	assert.Equal(t, StateLoginRequired, f.checkout.State())

	_, err = f.checkout.Finalize(ctx, Selection{Shipping: "domicilio", Payment: "mp"})
	assert.ErrorIs(t, err, model.ErrLoginRequired)
	assert.Equal(t, []notify.Kind{notify.KindLoginRequired}, f.recorder.Kinds())
}

func TestOrchestrator_EmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true, stubRandom{})
	require.NoError(t, f.cart.Clear(ctx))

	_, err := f.checkout.Begin(ctx)
	assert.ErrorIs(t, err, model.ErrEmptyCart)
	assert.Equal(t, StateEmptyCart, f.checkout.State())
	assert.Equal(t, []notify.Kind{notify.KindEmptyCart}, f.recorder.Kinds())

	_, err = f.checkout.Select(ctx, Selection{})
	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestOrchestrator_PublishFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockPublisher)
	publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	f := newFixture(t, true, stubRandom{float: 0.9, intn: 5}, WithPublisher(publisher))

	order, err := f.checkout.Finalize(ctx, Selection{Shipping: "sucursal", Payment: "tarjeta"})
	require.NoError(t, err)
	assert.Equal(t, 100005, order.OrderID)
	assert.Equal(t, 1800.0, order.Total)
	publisher.AssertExpectations(t)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "state(42)", State(42).String())
}
