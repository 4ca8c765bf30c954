package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

func TestTicketRepositoryConcurrentInsertsKeepEveryTicket(t *testing.T) {
	ctx := context.Background()
	store, err := intdb.NewFileStore(t.TempDir())
	require.NoError(t, err)
	repo := NewTicketRepository(store)

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Insert(ctx, models.Ticket{Seats: []string{fmt.Sprintf("A%d", i)}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, writers)

	seen := map[string]bool{}
	for _, tk := range tickets {
		assert.False(t, seen[tk.ID], "duplicate id %s", tk.ID)
		seen[tk.ID] = true
	}
}

func TestTicketRepositoryRegeneratesCollidingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(intdb.NewMemoryStore())
	ids := []string{"TCK-1", "TCK-1", "TCK-2"}
	repo.NewID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := repo.Insert(ctx, models.Ticket{})
	require.NoError(t, err)
	second, err := repo.Insert(ctx, models.Ticket{})
	require.NoError(t, err)

	assert.Equal(t, "TCK-1", first.ID)
	assert.Equal(t, "TCK-2", second.ID)
}

func TestTicketRepositoryGetAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(intdb.NewMemoryStore())

	created, err := repo.Insert(ctx, models.Ticket{Status: domain.TicketPendingPayment, TotalPrice: 50000})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(50000), got.TotalPrice)

	updated, err := repo.Update(ctx, created.ID, func(tk *models.Ticket) error {
		tk.Status = domain.TicketConfirmed
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketConfirmed, updated.Status)

	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketConfirmed, got.Status)
}

func TestTicketRepositoryUpdateRejectedLeavesDocumentUntouched(t *testing.T) {
	ctx := context.Background()
	store := intdb.NewMemoryStore()
	repo := NewTicketRepository(store)

	created, err := repo.Insert(ctx, models.Ticket{TotalPrice: 1})
	require.NoError(t, err)
	before := store.Raw(domain.DocTickets)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, created.ID, func(tk *models.Ticket) error {
		tk.TotalPrice = 2
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, store.Raw(domain.DocTickets))
}

func TestTicketRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(intdb.NewMemoryStore())

	_, err := repo.GetByID(ctx, "nope")
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.Update(ctx, "nope", func(*models.Ticket) error { return nil })
	assert.True(t, domain.IsNotFound(err))
}

func TestCollectionSkipsUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	store := intdb.NewMemoryStore()
	doc := []byte(`[{"id":"PAY-1","amount":10},{"id":"PAY-2","amount":"ten"}]`)
	store.Put(domain.DocPayments, doc)
	repo := NewPaymentRepository(store)

	payments, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "PAY-1", payments[0].ID)

	// writing back would drop PAY-2, so the write is refused
	_, err = repo.Record(ctx, models.Payment{ReservationID: "TCK-1", Amount: 10})
	require.Error(t, err)
	assert.True(t, domain.IsDocumentIO(err))
	assert.Equal(t, doc, store.Raw(domain.DocPayments))
}

func TestPaymentRepositoryRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository(intdb.NewMemoryStore())

	p, err := repo.Record(ctx, models.Payment{ReservationID: "TCK-1", Amount: 50000, Method: domain.MethodCard, Status: domain.PaymentApproved})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.NotNil(t, p.Details)

	_, err = repo.Record(ctx, models.Payment{ReservationID: "TCK-2", Amount: 1, Method: domain.MethodPSE, Status: domain.PaymentApproved})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "TCK-1", got.ReservationID)

	byRes, err := repo.ListByReservation(ctx, "TCK-1")
	require.NoError(t, err)
	assert.Len(t, byRes, 1)

	_, err = repo.GetByID(ctx, "PAY-missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestRouteRepositoryFilter(t *testing.T) {
	ctx := context.Background()
	store := intdb.NewMemoryStore()
	store.Put(domain.DocRoutes, []byte(`[
		{"origin":"Bogotá","destination":"Medellín","price":50000},
		{"origin":"Bogotá","destination":"Cali","price":60000},
		{"origin":"Medellín","destination":"Cali","price":55000}
	]`))
	repo := NewRouteRepository(store)

	all, err := repo.Filter(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fromBogota, err := repo.Filter(ctx, "bogotá", "")
	require.NoError(t, err)
	assert.Len(t, fromBogota, 2)

	exact, err := repo.Filter(ctx, "BOGOTÁ", "cali")
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, int64(60000), exact[0].Price)

	none, err := repo.Filter(ctx, "Bogo", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}
