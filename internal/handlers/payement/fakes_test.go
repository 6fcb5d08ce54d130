package payement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// fakePayments est une implémentation mémoire de store.PaymentStore qui
// reproduit la sémantique LWT : insertion refusée si la clé existe, reset
// refusé si le statut est completed. writes compte les écritures effectives.
type fakePayments struct {
	mu         sync.Mutex
	payments   map[gocql.UUID]*models.Payment
	byIntent   map[string]gocql.UUID
	writes     int
	applyCalls int

	// loseRace force CreatePending à perdre la course une fois, en insérant
	// le paiement gagnant juste avant de répondre "non appliqué"
	loseRace *models.Payment

	// ordersRef partage la map du fakeOrders pour simuler le batch
	// paiement+commande du vrai store
	ordersRef map[gocql.UUID]*models.Order
}

func newFakePayments() *fakePayments {
	return &fakePayments{
		payments: map[gocql.UUID]*models.Payment{},
		byIntent: map[string]gocql.UUID{},
	}
}

func (f *fakePayments) seed(p models.Payment) {
	f.payments[p.OrderID] = &p
	f.byIntent[p.IntentID] = p.OrderID
}

func (f *fakePayments) GetByOrder(_ context.Context, orderID gocql.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) CreatePending(_ context.Context, p *models.Payment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loseRace != nil {
		winner := *f.loseRace
		f.payments[winner.OrderID] = &winner
		f.byIntent[winner.IntentID] = winner.OrderID
		f.loseRace = nil
		return false, nil
	}

	if _, exists := f.payments[p.OrderID]; exists {
		return false, nil
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Status = models.PaymentPending

	cp := *p
	f.payments[p.OrderID] = &cp
	f.byIntent[p.IntentID] = p.OrderID
	f.writes++
	return true, nil
}

func (f *fakePayments) ResetPending(_ context.Context, orderID gocql.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[orderID]
	if !ok || p.Status == models.PaymentCompleted {
		return false, nil
	}

	p.Status = models.PaymentPending
	p.UpdatedAt = time.Now()
	f.writes++
	return true, nil
}

func (f *fakePayments) OrderIDByIntent(_ context.Context, intentID string) (gocql.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	orderID, ok := f.byIntent[intentID]
	if !ok {
		return gocql.UUID{}, store.ErrNotFound
	}
	return orderID, nil
}

func (f *fakePayments) ApplyProviderStatus(_ context.Context, orderID gocql.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[orderID]
	if !ok {
		return store.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	f.writes++
	f.applyCalls++

	if o, ok := f.ordersRef[orderID]; ok {
		o.PaymentStatus = status
	}
	return nil
}

func (f *fakePayments) linkOrders(o *fakeOrders) {
	f.ordersRef = o.orders
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[gocql.UUID]*models.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[gocql.UUID]*models.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id gocql.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListByVendor(_ context.Context, vendorID gocql.UUID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		for _, item := range o.Items {
			if item.VendorID == vendorID {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateFulfillmentStatus(_ context.Context, id gocql.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.FulfillmentStatus = status
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id gocql.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	return nil
}

type fakeIntents struct {
	calls int
}

func (f *fakeIntents) CreateIntent(_ context.Context, _ float64, _ map[string]string) (string, error) {
	f.calls++
	return fmt.Sprintf("pi_fake_%d", f.calls), nil
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 4)}
}

func (f *fakeMailer) SendOrderConfirmation(order *models.Order) error {
	f.sent <- order.Email
	return nil
}
