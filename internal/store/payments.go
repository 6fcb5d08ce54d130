package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

// PaymentStore garantit l'invariant « au plus un paiement par commande ».
// La table payments est partitionnée par order_id : l'unicité est portée par
// la clé primaire et l'insertion passe par une transaction légère (LWT), de
// sorte qu'une création concurrente perd la course au lieu de dupliquer.
type PaymentStore interface {
	GetByOrder(ctx context.Context, orderID gocql.UUID) (*models.Payment, error)
	// CreatePending insère le paiement en statut pending. Retourne false si un
	// paiement existe déjà pour cette commande (course perdue ou doublon).
	CreatePending(ctx context.Context, p *models.Payment) (bool, error)
	// ResetPending repasse le paiement existant en pending pour une nouvelle
	// tentative. Retourne false si le paiement est déjà completed (terminal).
	ResetPending(ctx context.Context, orderID gocql.UUID) (bool, error)
	OrderIDByIntent(ctx context.Context, intentID string) (gocql.UUID, error)
	// ApplyProviderStatus applique la transition annoncée par le prestataire
	// sur le paiement ET la commande dans un même batch logged : les deux
	// écritures aboutissent ensemble ou pas du tout.
	ApplyProviderStatus(ctx context.Context, orderID gocql.UUID, status string) error
}

// ScyllaPayments persiste les paiements dans le keyspace orders
type ScyllaPayments struct{}

func NewScyllaPayments() *ScyllaPayments { return &ScyllaPayments{} }

func (s *ScyllaPayments) GetByOrder(ctx context.Context, orderID gocql.UUID) (*models.Payment, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var p models.Payment
	p.OrderID = orderID

	err = session.Query(`SELECT payment_id, intent_id, amount, method, status, created_at, updated_at
		FROM payments WHERE order_id = ?`, orderID).WithContext(ctx).
		Scan(&p.ID, &p.IntentID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *ScyllaPayments) CreatePending(ctx context.Context, p *models.Payment) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Status = models.PaymentPending

	applied, err := session.Query(`INSERT INTO payments (order_id, payment_id, intent_id, amount, method, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		p.OrderID, p.ID, p.IntentID, p.Amount, p.Method, p.Status, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	// Index intent → commande pour la réconciliation webhook. Hors du LWT
	// (Scylla n'accepte pas de batch conditionnel multi-partitions) : en cas
	// d'échec ici, le webhook remontera un NotFound journalisé.
	if err := session.Query(`INSERT INTO payments_by_intent (intent_id, order_id) VALUES (?, ?)`,
		p.IntentID, p.OrderID).WithContext(ctx).Exec(); err != nil {
		return true, err
	}

	return true, nil
}

func (s *ScyllaPayments) ResetPending(ctx context.Context, orderID gocql.UUID) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	// Condition LWT : completed est terminal, on ne le réarme jamais
	applied, err := session.Query(`UPDATE payments SET status = ?, updated_at = ? WHERE order_id = ? IF status != ?`,
		models.PaymentPending, time.Now(), orderID, models.PaymentCompleted).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, err
	}

	return applied, nil
}

func (s *ScyllaPayments) OrderIDByIntent(ctx context.Context, intentID string) (gocql.UUID, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return gocql.UUID{}, err
	}

	var orderID gocql.UUID
	err = session.Query(`SELECT order_id FROM payments_by_intent WHERE intent_id = ?`, intentID).
		WithContext(ctx).Scan(&orderID)
	if err == gocql.ErrNotFound {
		return gocql.UUID{}, ErrNotFound
	}
	if err != nil {
		return gocql.UUID{}, err
	}

	return orderID, nil
}

func (s *ScyllaPayments) ApplyProviderStatus(ctx context.Context, orderID gocql.UUID, status string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`UPDATE payments SET status = ?, updated_at = ? WHERE order_id = ?`, status, now, orderID)
	batch.Query(`UPDATE orders SET payment_status = ? WHERE order_id = ?`, status, orderID)

	return session.ExecuteBatch(batch)
}
