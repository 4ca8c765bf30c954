package repositories

import (
	"context"

	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

type TicketRepository struct {
	docs  *Collection[models.Ticket]
	NewID IDGenerator
}

func NewTicketRepository(s intdb.Store) *TicketRepository {
	return &TicketRepository{
		docs:  NewCollection[models.Ticket](s, domain.DocTickets),
		NewID: NewTicketID,
	}
}

// Insert assigns a fresh id and appends the ticket to the document.
func (r *TicketRepository) Insert(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	err := r.docs.Mutate(ctx, func(items []models.Ticket) ([]models.Ticket, error) {
		t.ID = uniqueID(items, r.NewID)
		return append(items, t), nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (models.Ticket, error) {
	t, ok, err := r.docs.Find(ctx, id)
	if err != nil {
		return models.Ticket{}, err
	}
	if !ok {
		return models.Ticket{}, domain.NotFoundError{Resource: "ticket", ID: id}
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context) ([]models.Ticket, error) {
	return r.docs.All(ctx)
}

// Update applies fn to the stored ticket under the document lock. fn may reject
// the change by returning an error, in which case nothing is written.
func (r *TicketRepository) Update(ctx context.Context, id string, fn func(t *models.Ticket) error) (models.Ticket, error) {
	var out models.Ticket
	err := r.docs.Mutate(ctx, func(items []models.Ticket) ([]models.Ticket, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, domain.NotFoundError{Resource: "ticket", ID: id}
		}
		t := items[i]
		if err := fn(&t); err != nil {
			return nil, err
		}
		items[i] = t
		out = t
		return items, nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	return out, nil
}
