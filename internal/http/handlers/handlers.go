package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	intdb "busticket/internal/db"
	"busticket/internal/http/middleware"
	"busticket/internal/repositories"
	"busticket/internal/services"
)

// Info is what /health reports about the running configuration. It carries
// presence flags only, never secrets.
type Info struct {
	StoreDriver        string
	PaymentProcessor   string
	ProviderConfigured bool
	AuthEnabled        bool
	CORSOrigins        int
}

// Handlers serves the HTTP surface. Services are built per request so each
// carries the caller's request id.
type Handlers struct {
	Store     intdb.Store
	Routes    *repositories.RouteRepository
	Tickets   *repositories.TicketRepository
	Payments  *repositories.PaymentRepository
	Processor services.PaymentProcessor
	Auth      services.AuthService
	Info      Info
	StartedAt time.Time

	inflight services.InFlightPayments
	mu       sync.RWMutex
	engine *gin.Engine
}

// SetRouter stores the active gin engine so the endpoint directory can be listed.
func (h *Handlers) SetRouter(r *gin.Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = r
}

func (h *Handlers) pricing(c *gin.Context) services.PricingService {
	return services.PricingService{Routes: h.Routes, RequestID: middleware.GetRequestID(c)}
}

func (h *Handlers) reservations(c *gin.Context) services.ReservationService {
	return services.ReservationService{
		Tickets:   h.Tickets,
		Pricing:   h.pricing(c),
		InFlight:  &h.inflight,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handlers) payments(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Payments:     h.Payments,
		Reservations: h.reservations(c),
		Processor:    h.Processor,
		RequestID:    middleware.GetRequestID(c),
	}
}

func (h *Handlers) docs(c *gin.Context) services.DocsService {
	return services.DocsService{Tickets: h.reservations(c), RequestID: middleware.GetRequestID(c)}
}
