package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// --- fakes mémoire ---

type memOrders struct {
	orders map[gocql.UUID]*models.Order
}

func newMemOrders() *memOrders { return &memOrders{orders: map[gocql.UUID]*models.Order{}} }

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrders) Get(_ context.Context, id gocql.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) ListByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) ListByVendor(_ context.Context, _ gocql.UUID) ([]models.Order, error) {
	return nil, nil
}

func (m *memOrders) UpdateFulfillmentStatus(_ context.Context, id gocql.UUID, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.FulfillmentStatus = status
	return nil
}

func (m *memOrders) Delete(_ context.Context, id gocql.UUID) error {
	delete(m.orders, id)
	return nil
}

type memPayments struct {
	payments map[gocql.UUID]*models.Payment
}

func newMemPayments() *memPayments {
	return &memPayments{payments: map[gocql.UUID]*models.Payment{}}
}

func (m *memPayments) GetByOrder(_ context.Context, orderID gocql.UUID) (*models.Payment, error) {
	p, ok := m.payments[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPayments) CreatePending(_ context.Context, p *models.Payment) (bool, error) {
	if _, exists := m.payments[p.OrderID]; exists {
		return false, nil
	}
	p.Status = models.PaymentPending
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.payments[p.OrderID] = &cp
	return true, nil
}

func (m *memPayments) ResetPending(_ context.Context, orderID gocql.UUID) (bool, error) {
	p, ok := m.payments[orderID]
	if !ok || p.Status == models.PaymentCompleted {
		return false, nil
	}
	p.Status = models.PaymentPending
	return true, nil
}

func (m *memPayments) OrderIDByIntent(_ context.Context, _ string) (gocql.UUID, error) {
	return gocql.UUID{}, store.ErrNotFound
}

func (m *memPayments) ApplyProviderStatus(_ context.Context, orderID gocql.UUID, status string) error {
	p, ok := m.payments[orderID]
	if !ok {
		return store.ErrNotFound
	}
	p.Status = status
	return nil
}

type memProducts struct {
	pricing map[gocql.UUID]*models.ProductPricing
}

func (m *memProducts) Pricing(_ context.Context, id gocql.UUID) (*models.ProductPricing, error) {
	p, ok := m.pricing[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memCarts struct {
	carts map[string][]models.CartItem
}

func (m *memCarts) Items(_ context.Context, key string) ([]models.CartItem, error) {
	return m.carts[key], nil
}

func (m *memCarts) Clear(_ context.Context, key string) error {
	delete(m.carts, key)
	return nil
}

type stubIntents struct{ calls int }

func (s *stubIntents) CreateIntent(_ context.Context, _ float64, _ map[string]string) (string, error) {
	s.calls++
	return fmt.Sprintf("pi_stub_%d", s.calls), nil
}

// --- montage ---

type fixture struct {
	router   *gin.Engine
	orders   *memOrders
	payments *memPayments
	products *memProducts
	carts    *memCarts
	intents  *stubIntents
}

// identité simulée : remplace OptionalAuth en injectant user_id et email
func fakeAuth(userID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("email", email)
		}
		c.Next()
	}
}

func newFixture(t *testing.T, userID, email string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		orders:   newMemOrders(),
		payments: newMemPayments(),
		products: &memProducts{pricing: map[gocql.UUID]*models.ProductPricing{}},
		carts:    &memCarts{carts: map[string][]models.CartItem{}},
		intents:  &stubIntents{},
	}

	h := &Handler{
		Orders:   f.orders,
		Products: f.products,
		Carts:    f.carts,
		Reconciler: &payement.Reconciler{
			Payments: f.payments,
			Intents:  f.intents,
		},
	}

	r := gin.New()
	r.POST("/api/orders", fakeAuth(userID, email), h.Create)
	r.POST("/api/orders/guest-lookup", h.GuestLookup)
	f.router = r
	return f
}

func (f *fixture) seedProduct(price float64, stock int) gocql.UUID {
	id := gocql.TimeUUID()
	f.products.pricing[id] = &models.ProductPricing{
		ID:    id,
		Name:  "Produit test",
		Price: price,
		Stock: stock,
	}
	return id
}

func (f *fixture) post(path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// --- soumission ---

func TestCreateOrderAuthenticated(t *testing.T) {
	f := newFixture(t, "user-1", "user@example.com")
	pid := f.seedProduct(24.99, 10)
	f.carts.carts[store.CartKey("user-1")] = []models.CartItem{
		{ProductID: pid.String(), Quantity: 2},
	}

	w := f.post("/api/orders", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "user-1", got.CustomerID)
	require.Equal(t, "user@example.com", got.Email)
	require.InDelta(t, 49.98, got.TotalPrice, 1e-9)
	require.Equal(t, models.OrderPaymentPending, got.PaymentStatus)
	require.NotNil(t, got.Payment)
	require.Equal(t, models.PaymentPending, got.Payment.Status)
	require.Equal(t, "stripe", got.Payment.Method)

	// le panier est consommé
	require.Empty(t, f.carts.carts[store.CartKey("user-1")])
}

func TestCreateOrderGuest(t *testing.T) {
	f := newFixture(t, "", "")
	pid := f.seedProduct(10, 5)
	f.carts.carts[store.GuestCartKey("tok-1")] = []models.CartItem{
		{ProductID: pid.String(), Quantity: 1},
	}

	w := f.post("/api/orders", gin.H{"email": "guest@example.com", "cart_token": "tok-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.True(t, got.IsGuest())
	require.Equal(t, "guest@example.com", got.Email)
}

func TestCreateOrderGuestRequiresEmail(t *testing.T) {
	f := newFixture(t, "", "")

	w := f.post("/api/orders", gin.H{"cart_token": "tok-1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderGuestRequiresCartToken(t *testing.T) {
	f := newFixture(t, "", "")

	w := f.post("/api/orders", gin.H{"email": "guest@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newFixture(t, "user-1", "user@example.com")

	w := f.post("/api/orders", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Panier vide")
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newFixture(t, "user-1", "user@example.com")
	pid := f.seedProduct(10, 1)
	f.carts.carts[store.CartKey("user-1")] = []models.CartItem{
		{ProductID: pid.String(), Quantity: 3},
	}

	w := f.post("/api/orders", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Stock insuffisant")
}

// --- nouvelle tentative de paiement ---

func TestResubmitReusesPayment(t *testing.T) {
	f := newFixture(t, "user-1", "user@example.com")
	pid := f.seedProduct(20, 10)
	f.carts.carts[store.CartKey("user-1")] = []models.CartItem{
		{ProductID: pid.String(), Quantity: 1},
	}

	w := f.post("/api/orders", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var first models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	firstPaymentID := first.Payment.ID

	// échec chez le prestataire, puis nouvelle soumission du même order_id
	require.NoError(t, f.payments.ApplyProviderStatus(context.Background(), first.ID, models.PaymentFailed))

	w = f.post("/api/orders", gin.H{"order_id": first.ID.String()})
	require.Equal(t, http.StatusCreated, w.Code)

	var second models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, firstPaymentID, second.Payment.ID, "la même identité de paiement doit être réutilisée")
	require.Equal(t, models.PaymentPending, second.Payment.Status)
	require.Equal(t, 1, f.intents.calls, "pas de nouvelle intention pour une relance")
}

func TestResubmitCompletedOrderRejected(t *testing.T) {
	f := newFixture(t, "user-1", "user@example.com")
	pid := f.seedProduct(49.99, 10)
	f.carts.carts[store.CartKey("user-1")] = []models.CartItem{
		{ProductID: pid.String(), Quantity: 1},
	}

	w := f.post("/api/orders", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// le webhook a validé le paiement entre-temps
	require.NoError(t, f.payments.ApplyProviderStatus(context.Background(), created.ID, models.PaymentCompleted))

	w = f.post("/api/orders", gin.H{"order_id": created.ID.String()})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t,
		fmt.Sprintf("Payment for Order %s has already been completed.", created.ID),
		resp["error"])
}

func TestResubmitOwnershipChecked(t *testing.T) {
	f := newFixture(t, "", "")
	orderID := gocql.TimeUUID()
	require.NoError(t, f.orders.Create(context.Background(), &models.Order{
		ID:         orderID,
		Email:      "vrai@example.com",
		TotalPrice: 10,
	}))

	// mauvais e-mail : même réponse qu'une commande inconnue
	w := f.post("/api/orders", gin.H{"order_id": orderID.String(), "email": "faux@example.com"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

// --- consultation invitée ---

func TestGuestLookupSuccess(t *testing.T) {
	f := newFixture(t, "", "")
	orderID := gocql.TimeUUID()
	require.NoError(t, f.orders.Create(context.Background(), &models.Order{
		ID:         orderID,
		Email:      "guest@example.com",
		TotalPrice: 30,
	}))

	w := f.post("/api/orders/guest-lookup", gin.H{"order_id": orderID.String(), "email": "guest@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, orderID, got.ID)
}

func TestGuestLookupMissingFields(t *testing.T) {
	f := newFixture(t, "", "")

	w := f.post("/api/orders/guest-lookup", gin.H{"order_id": gocql.TimeUUID().String()})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Order ID and email are required."}`, w.Body.String())
}

func TestGuestLookupNoEnumeration(t *testing.T) {
	f := newFixture(t, "", "")
	orderID := gocql.TimeUUID()
	require.NoError(t, f.orders.Create(context.Background(), &models.Order{
		ID:    orderID,
		Email: "vrai@example.com",
	}))

	// commande inconnue et e-mail incorrect doivent être indistinguables
	wrongEmail := f.post("/api/orders/guest-lookup",
		gin.H{"order_id": orderID.String(), "email": "faux@example.com"})
	unknownOrder := f.post("/api/orders/guest-lookup",
		gin.H{"order_id": gocql.TimeUUID().String(), "email": "vrai@example.com"})

	require.Equal(t, http.StatusNotFound, wrongEmail.Code)
	require.Equal(t, http.StatusNotFound, unknownOrder.Code)
	require.JSONEq(t, wrongEmail.Body.String(), unknownOrder.Body.String())
	require.JSONEq(t, `{"error":"Order not found or email does not match."}`, wrongEmail.Body.String())
}
