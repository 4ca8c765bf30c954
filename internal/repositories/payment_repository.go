package repositories

import (
	"context"

	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

// PaymentRepository is append-only: payments are never updated or deleted.
type PaymentRepository struct {
	docs  *Collection[models.Payment]
	NewID IDGenerator
}

func NewPaymentRepository(s intdb.Store) *PaymentRepository {
	return &PaymentRepository{
		docs:  NewCollection[models.Payment](s, domain.DocPayments),
		NewID: NewPaymentID,
	}
}

// Record appends p with a fresh id.
func (r *PaymentRepository) Record(ctx context.Context, p models.Payment) (models.Payment, error) {
	err := r.docs.Mutate(ctx, func(items []models.Payment) ([]models.Payment, error) {
		p.ID = uniqueID(items, r.NewID)
		if p.Details == nil {
			p.Details = map[string]any{}
		}
		return append(items, p), nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (models.Payment, error) {
	p, ok, err := r.docs.Find(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		return models.Payment{}, domain.NotFoundError{Resource: "payment", ID: id}
	}
	return p, nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	return r.docs.All(ctx)
}

// ListByReservation returns every attempt made against one ticket.
func (r *PaymentRepository) ListByReservation(ctx context.Context, reservationID string) ([]models.Payment, error) {
	items, err := r.docs.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Payment, 0)
	for _, p := range items {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}
