package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/repositories"
)

const validReservation = `{
  "passengers": [
    {"name": " Ana ", "lastName": "Gómez", "documentType": "CC", "documentNumber": " 1020304050 ",
     "birthDate": "1990-04-12", "hasMinors": false, "hasPets": false, "hasInsurance": false}
  ],
  "trip": {"origin": "Bogotá", "destination": "Medellín", "date": "2026-11-02", "schedule": "08:00"},
  "seats": ["12"],
  "acceptedTerms": true,
  "billing": {"documentType": "CC", "documentNumber": "1020304050", "name": "Ana Gómez",
              "phone": " 3001234567 ", "email": " Ana.Gomez@Example.COM "}
}`

const testRoutes = `[
  {"id": "R1", "origin": "Bogotá", "destination": "Medellín", "schedule": "08:00", "price": 50000},
  {"id": "R2", "origin": "Bogotá", "destination": "Cali", "schedule": "09:30", "price": 65000},
  {"id": "R3", "origin": "Bogotá", "destination": "Medellín", "schedule": "22:00", "price": 58000}
]`

var fixedNow = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

// decode mirrors the HTTP layer: numbers stay json.Number.
func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

type testEnv struct {
	store        *intdb.MemoryStore
	routes       *repositories.RouteRepository
	tickets      *repositories.TicketRepository
	payments     *repositories.PaymentRepository
	reservations ReservationService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := intdb.NewMemoryStore()
	store.Put(domain.DocRoutes, []byte(testRoutes))

	routes := repositories.NewRouteRepository(store)
	tickets := repositories.NewTicketRepository(store)
	now := func() time.Time { return fixedNow }
	return testEnv{
		store:    store,
		routes:   routes,
		tickets:  tickets,
		payments: repositories.NewPaymentRepository(store),
		reservations: ReservationService{
			Tickets:   tickets,
			Pricing:   PricingService{Routes: routes},
			InFlight:  &InFlightPayments{},
			RequestID: "test",
			Now:       now,
		},
	}
}
