package payement

import (
	"context"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

func testOrder(total float64) *models.Order {
	return &models.Order{
		ID:            gocql.TimeUUID(),
		Email:         "client@example.com",
		PaymentStatus: models.OrderPaymentPending,
		TotalPrice:    total,
	}
}

func TestReconcileCreatesPendingPayment(t *testing.T) {
	payments := newFakePayments()
	intents := &fakeIntents{}
	r := &Reconciler{Payments: payments, Intents: intents}

	order := testOrder(49.99)
	p, err := r.Reconcile(context.Background(), order)
	require.NoError(t, err)

	require.Equal(t, order.ID, p.OrderID)
	require.Equal(t, models.PaymentPending, p.Status)
	require.Equal(t, "stripe", p.Method)
	require.Equal(t, 49.99, p.Amount)
	require.NotEmpty(t, p.IntentID)
	require.Equal(t, 1, intents.calls)
	require.Equal(t, 1, payments.writes, "une invocation doit écrire exactement une fois")
}

func TestReconcileRejectsCompletedPayment(t *testing.T) {
	payments := newFakePayments()
	intents := &fakeIntents{}
	r := &Reconciler{Payments: payments, Intents: intents}

	order := testOrder(20)
	payments.seed(models.Payment{
		ID:       gocql.TimeUUID(),
		OrderID:  order.ID,
		IntentID: "pi_done",
		Amount:   20,
		Method:   "stripe",
		Status:   models.PaymentCompleted,
	})

	_, err := r.Reconcile(context.Background(), order)
	require.ErrorIs(t, err, ErrDuplicatePayment)
	require.Equal(t, 0, intents.calls, "aucune intention ne doit être créée pour un doublon")
	require.Equal(t, 0, payments.writes, "un doublon ne doit rien écrire")
}

func TestReconcileReusesFailedPayment(t *testing.T) {
	payments := newFakePayments()
	intents := &fakeIntents{}
	r := &Reconciler{Payments: payments, Intents: intents}

	order := testOrder(15.50)
	existingID := gocql.TimeUUID()
	payments.seed(models.Payment{
		ID:       existingID,
		OrderID:  order.ID,
		IntentID: "pi_failed",
		Amount:   15.50,
		Method:   "stripe",
		Status:   models.PaymentFailed,
	})

	p, err := r.Reconcile(context.Background(), order)
	require.NoError(t, err)

	// même identité de paiement, jamais un second enregistrement
	require.Equal(t, existingID, p.ID)
	require.Equal(t, "pi_failed", p.IntentID)
	require.Equal(t, models.PaymentPending, p.Status)
	require.Equal(t, 0, intents.calls, "la réutilisation garde la même intention")
	require.Equal(t, 1, payments.writes)

	stored, err := payments.GetByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, stored.Status)
}

func TestReconcileReusesPendingPayment(t *testing.T) {
	payments := newFakePayments()
	intents := &fakeIntents{}
	r := &Reconciler{Payments: payments, Intents: intents}

	order := testOrder(10)
	existingID := gocql.TimeUUID()
	payments.seed(models.Payment{
		ID:       existingID,
		OrderID:  order.ID,
		IntentID: "pi_pending",
		Amount:   10,
		Method:   "stripe",
		Status:   models.PaymentPending,
	})

	p, err := r.Reconcile(context.Background(), order)
	require.NoError(t, err)
	require.Equal(t, existingID, p.ID)
	require.Equal(t, models.PaymentPending, p.Status)
}

func TestReconcileLostRaceFallsBackToReuse(t *testing.T) {
	payments := newFakePayments()
	intents := &fakeIntents{}
	r := &Reconciler{Payments: payments, Intents: intents}

	order := testOrder(30)

	// Le gagnant de la course s'insère entre la lecture et le LWT
	winnerID := gocql.TimeUUID()
	payments.loseRace = &models.Payment{
		ID:       winnerID,
		OrderID:  order.ID,
		IntentID: "pi_winner",
		Amount:   30,
		Method:   "stripe",
		Status:   models.PaymentPending,
	}

	p, err := r.Reconcile(context.Background(), order)
	require.NoError(t, err)

	// on retombe sur le paiement gagnant, pas sur un doublon
	require.Equal(t, winnerID, p.ID)
	require.Equal(t, "pi_winner", p.IntentID)
	require.Equal(t, models.PaymentPending, p.Status)
}

func TestReconcileLostRaceAgainstCompleted(t *testing.T) {
	payments := newFakePayments()
	intents := &fakeIntents{}
	r := &Reconciler{Payments: payments, Intents: intents}

	order := testOrder(30)
	payments.loseRace = &models.Payment{
		ID:       gocql.TimeUUID(),
		OrderID:  order.ID,
		IntentID: "pi_winner",
		Amount:   30,
		Method:   "stripe",
		Status:   models.PaymentCompleted,
	}

	_, err := r.Reconcile(context.Background(), order)
	require.ErrorIs(t, err, ErrDuplicatePayment)
}
