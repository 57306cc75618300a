package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"camelia/internal/catalog"
	"camelia/internal/checkout"
	"camelia/internal/middleware"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/session"
	"camelia/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRandom returns fixed draws.
type stubRandom struct {
	float float64
	intn  int
}

func (s *stubRandom) Float64() float64 { return s.float }
func (s *stubRandom) IntN(int) int     { return s.intn }

var testProducts = []model.Product{
	{ID: 1, Name: "Robot", Price: 1000, Img: "robot.jpg", Stock: true, Age: "3+", Category: "juguete", Character: "Bluey"},
	{ID: 2, Name: "Muñeca", Price: 2000, Img: "doll.jpg", Stock: true, Age: "6+", Category: "muñeca", IsOffer: true},
	{ID: 3, Name: "Puzzle", Price: 800, Img: "puzzle.jpg", Stock: false, Age: "3+", Category: "juego"},
}

type testEnv struct {
	storage *storage.Memory
	random  *stubRandom
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.Nop()

	st := storage.NewMemory()
	store := catalog.NewStore(catalog.NewStaticSource(testProducts), logger)
	random := &stubRandom{float: 0.5, intn: 4321}
	options := checkout.DefaultOptions()
	manager := session.NewManager(st, store, options, logger,
		session.WithRandom(random),
		session.WithClock(func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }),
	)

	products := NewProductHandler(store, logger)
	sessions := NewSessionHandler(logger)
	carts := NewCartHandler(store, logger)
	checkouts := NewCheckoutHandler(options, logger)
	orders := NewOrderHandler(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/api/products", products.List)
	r.Get("/api/products/{id}", products.GetByID)
	r.Get("/api/checkout/options", checkouts.Options)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(manager, logger))
		r.Post("/api/session", sessions.SignIn)
		r.Delete("/api/session", sessions.SignOut)
		r.Get("/api/cart", carts.Get)
		r.Delete("/api/cart", carts.Clear)
		r.Post("/api/cart/items", carts.AddItem)
		r.Post("/api/cart/buy-now", carts.BuyNow)
		r.Patch("/api/cart/items/{index}", carts.UpdateItem)
		r.Delete("/api/cart/items/{index}", carts.RemoveItem)
		r.Post("/api/checkout/summary", checkouts.Summary)
		r.Post("/api/checkout", checkouts.Finalize)
		r.Get("/api/orders", orders.List)
		r.Get("/api/receipt", orders.Receipt)
	})

	return &testEnv{storage: st, random: random, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionID != "" {
		req.Header.Set(middleware.HeaderSessionID, sessionID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) signIn(t *testing.T, sessionID string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/session", sessionID, `{"email": "ana@example.com", "name": "Ana"}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func kinds(notices []notify.Notice) []notify.Kind {
	out := make([]notify.Kind, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.Kind)
	}
	return out
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{model.ErrCodeInvalidJSON, http.StatusBadRequest},
		{model.ErrCodeMissingShipping, http.StatusBadRequest},
		{model.ErrCodeLoginRequired, http.StatusUnauthorized},
		{model.ErrCodePaymentFailed, http.StatusPaymentRequired},
		{model.ErrCodeProductNotFound, http.StatusNotFound},
		{model.ErrCodeOutOfStock, http.StatusConflict},
		{model.ErrCodeEmptyCart, http.StatusConflict},
		{model.ErrCodeCatalogUnavailable, http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.code))
		})
	}
}

func TestRawQuantity(t *testing.T) {
	assert.Equal(t, "1", rawQuantity(nil))
	assert.Equal(t, "1", rawQuantity(json.RawMessage("null")))
	assert.Equal(t, "3", rawQuantity(json.RawMessage("3")))
	assert.Equal(t, "2.7", rawQuantity(json.RawMessage("2.7")))
	assert.Equal(t, "4abc", rawQuantity(json.RawMessage(`"4abc"`)))
}

func TestProductHandler_List(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/products?age=3%2B", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[catalog.Page](t, w)
	require.Len(t, page.Cards, 2)
	assert.Equal(t, "Puzzle", page.Cards[0].Product.Name)
	assert.Equal(t, "Robot", page.Cards[1].Product.Name)
	assert.Equal(t, catalog.HeadingDefault, page.Heading)

	w = env.do(t, http.MethodGet, "/api/products?filter=offer", "", "")
	page = decode[catalog.Page](t, w)
	assert.Equal(t, catalog.HeadingOffers, page.Heading)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, 2, page.Cards[0].Product.ID)

	w = env.do(t, http.MethodGet, "/api/products?sort=price-desc", "", "")
	page = decode[catalog.Page](t, w)
	require.Len(t, page.Cards, 3)
	assert.Equal(t, 2, page.Cards[0].Product.ID)

	w = env.do(t, http.MethodGet, "/api/products?search=zzz", "", "")
	page = decode[catalog.Page](t, w)
	assert.True(t, page.Empty)
	assert.Equal(t, catalog.NoResultsMessage, page.Message)

	w = env.do(t, http.MethodGet, "/api/products?age=6%2B&reset=true", "", "")
	page = decode[catalog.Page](t, w)
	assert.Len(t, page.Cards, 3)
}

func TestProductHandler_GetByID(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "found", path: "/api/products/1", expectedStatus: http.StatusOK},
		{name: "not found", path: "/api/products/99", expectedStatus: http.StatusNotFound, expectedCode: model.ErrCodeProductNotFound},
		{name: "unspecified", path: "/api/products/abc", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, "", "")
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				resp := decode[ErrorResponse](t, w)
				assert.Equal(t, tt.expectedCode, resp.Error)
				return
			}

			detail := decode[catalog.Detail](t, w)
			assert.Equal(t, "Robot", detail.Product.Name)
			assert.Equal(t, "Stock: Disponible", detail.StockLabel)
			assert.Equal(t, []string{"Personaje Principal: Bluey"}, detail.ExtraDetails)
		})
	}
}

func TestCartHandler_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/cart", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeMissingSession, decode[ErrorResponse](t, w).Error)
}

func TestCartHandler_AddRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", "s1", `{"productId": 1, "quantity": 2}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, model.ErrCodeLoginRequired, resp.Error)
	assert.Equal(t, []notify.Kind{notify.KindLoginRequired}, kinds(resp.Notices))
	assert.False(t, env.storage.Has("s1:"+storage.KeyCart))
}

func TestCartHandler_AddMergeUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "s1")

	w := env.do(t, http.MethodPost, "/api/cart/items", "s1", `{"productId": 1, "quantity": "2"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[CartResponse](t, w)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []notify.Kind{notify.KindAddedToCart}, kinds(resp.Notices))

	w = env.do(t, http.MethodPost, "/api/cart/items", "s1", `{"productId": 1, "quantity": 3}`)
	resp = decode[CartResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, 5000.0, resp.Total)

	w = env.do(t, http.MethodPost, "/api/cart/items", "s1", `{"productId": 2}`)
	resp = decode[CartResponse](t, w)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Items[1].Quantity)

	w = env.do(t, http.MethodPatch, "/api/cart/items/0", "s1", `{"quantity": "abc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[CartResponse](t, w)
	assert.Equal(t, 1, resp.Items[0].Quantity)

	w = env.do(t, http.MethodDelete, "/api/cart/items/7", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[CartResponse](t, w).Items, 2)

	w = env.do(t, http.MethodDelete, "/api/cart/items/0", "s1", "")
	resp = decode[CartResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].ProductID)

	w = env.do(t, http.MethodDelete, "/api/cart/items/x", "s1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/cart", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[CartResponse](t, w).Items)
	assert.False(t, env.storage.Has("s1:"+storage.KeyCart))
}

func TestCartHandler_AddErrors(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "s1")

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "out of stock", body: `{"productId": 3}`, expectedStatus: http.StatusConflict, expectedCode: model.ErrCodeOutOfStock},
		{name: "unknown product", body: `{"productId": 42}`, expectedStatus: http.StatusNotFound, expectedCode: model.ErrCodeProductNotFound},
		{name: "missing product", body: `{"quantity": 1}`, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeMissingField},
		{name: "invalid json", body: `{`, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/cart/items", "s1", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decode[ErrorResponse](t, w).Error)
		})
	}

	assert.False(t, env.storage.Has("s1:"+storage.KeyCart))
}

func TestCartHandler_BuyNow(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "s1")

	w := env.do(t, http.MethodPost, "/api/cart/buy-now", "s1", `{"productId": 2, "quantity": "2"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[BuyNowResponse](t, w)
	assert.Equal(t, 2, resp.Cart.Count)
	assert.Equal(t, 4000.0, resp.Summary.Subtotal)
	assert.Equal(t, 5200.0, resp.Summary.Total)
}

func TestCheckoutHandler_Options(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/checkout/options", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	opts := decode[checkout.Options](t, w)
	assert.Len(t, opts.Shipping, 3)
	assert.Len(t, opts.Payment, 3)
}

func TestCheckoutHandler_Flow(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "s1")
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/cart/items", "s1", `{"productId": 1}`).Code)

	w := env.do(t, http.MethodPost, "/api/checkout/summary", "s1", `{"shipping": "domicilio", "packaging": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2500.0, decode[SummaryResponse](t, w).Total)

	w = env.do(t, http.MethodPost, "/api/checkout", "s1", `{"payment": "mp"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, model.ErrCodeMissingShipping, resp.Error)
	assert.Equal(t, []notify.Kind{notify.KindMissingShipping}, kinds(resp.Notices))

	env.random.float = 0.05
	w = env.do(t, http.MethodPost, "/api/checkout", "s1", `{"shipping": "domicilio", "payment": "transferencia"}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.True(t, env.storage.Has("s1:"+storage.KeyCart))
	assert.False(t, env.storage.Has("s1:"+storage.KeyHistory))

	w = env.do(t, http.MethodGet, "/api/receipt", "s1", "")
	assert.False(t, decode[ReceiptResponse](t, w).Available)

	env.random.float = 0.5
	w = env.do(t, http.MethodPost, "/api/checkout", "s1", `{"shipping": "domicilio", "packaging": true, "payment": "transferencia"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode[OrderResponse](t, w)
	require.NotNil(t, order.Order)
	assert.Equal(t, 104321, order.Order.OrderID)
	assert.Equal(t, 2500.0, order.Order.Total)
	assert.Equal(t, []notify.Kind{notify.KindPurchaseSuccess}, kinds(order.Notices))

	w = env.do(t, http.MethodGet, "/api/cart", "s1", "")
	assert.Empty(t, decode[CartResponse](t, w).Items)

	w = env.do(t, http.MethodGet, "/api/orders", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]model.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, 104321, orders[0].OrderID)

	w = env.do(t, http.MethodGet, "/api/receipt", "s1", "")
	receipt := decode[ReceiptResponse](t, w)
	assert.True(t, receipt.Available)
	assert.Contains(t, receipt.HTML, "#104321")

	// a second finalize finds an empty cart
	w = env.do(t, http.MethodPost, "/api/checkout", "s1", `{"shipping": "domicilio", "payment": "mp"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.ErrCodeEmptyCart, decode[ErrorResponse](t, w).Error)
}

func TestOrderHandler_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/orders", "s1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.signIn(t, "s1")
	w = env.do(t, http.MethodGet, "/api/orders", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.Order](t, w))

	w = env.do(t, http.MethodDelete, "/api/session", "s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/orders", "s1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionHandler_SignInRequiresEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/session", "s1", `{"name": "Ana"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeMissingField, decode[ErrorResponse](t, w).Error)
	_, err := env.storage.Get(context.Background(), "s1:"+storage.KeyCurrentUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
