package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/metrics"
	"busticket/internal/repositories"
	"busticket/internal/utils"
)

// Fields a client may change through Update. Everything else on a ticket is
// derived or owned by the payment flow.
var updatableTicketFields = map[string]bool{
	"passengers": true,
	"seats":      true,
	"billing":    true,
}

// ReservationService creates, reads and updates tickets.
type ReservationService struct {
	Tickets   *repositories.TicketRepository
	Pricing   PricingService
	InFlight  *InFlightPayments
	RequestID string
	Now       func() time.Time
}

func (s ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

// Create validates, prices and stores a new ticket in PENDING_PAYMENT.
// Nothing is written when validation fails.
func (s ReservationService) Create(ctx context.Context, body map[string]any) (models.Ticket, error) {
	req, err := ValidateReservation(body)
	if err != nil {
		if ve, ok := err.(domain.ValidationError); ok {
			metrics.TicketsRejected.WithLabelValues(ve.Code).Inc()
		}
		return models.Ticket{}, err
	}

	s.Pricing.RequestID = s.RequestID
	total, routePrice, err := s.Pricing.PriceFor(ctx, req.Trip, req.Passengers)
	if err != nil {
		return models.Ticket{}, err
	}

	ticket := models.Ticket{
		Status:          domain.TicketPendingPayment,
		PaymentStatus:   domain.PaymentPending,
		CreatedAt:       s.now(),
		Passengers:      req.Passengers,
		Trip:            req.Trip,
		Seats:           req.Seats,
		Billing:         req.Billing,
		AcceptedTerms:   req.AcceptedTerms,
		TotalPassengers: len(req.Passengers),
		TotalPrice:      total,
		RoutePrice:      routePrice,
	}

	ticket, err = s.Tickets.Insert(ctx, ticket)
	if err != nil {
		return models.Ticket{}, err
	}
	metrics.TicketsCreated.Inc()
	utils.LogEvent(s.RequestID, "tickets", "create", fmt.Sprintf("ticket_id=%s passengers=%d total=%d", ticket.ID, ticket.TotalPassengers, ticket.TotalPrice))
	return ticket, nil
}

func (s ReservationService) Get(ctx context.Context, id string) (models.Ticket, error) {
	return s.Tickets.GetByID(ctx, id)
}

func (s ReservationService) List(ctx context.Context) ([]models.Ticket, error) {
	return s.Tickets.List(ctx)
}

// Update merges passengers, seats and billing into a stored ticket, re-checks
// the ticket invariants and recomputes the totals from the stored route price.
// Billing is merged field by field; passengers and seats are replaced.
// Confirmed tickets, and tickets with a payment running, only accept billing
// changes.
func (s ReservationService) Update(ctx context.Context, id string, body map[string]any) (models.Ticket, error) {
	if len(body) == 0 {
		return models.Ticket{}, invalid(CodeEmptyUpdate, "no fields to update", nil)
	}
	rejected := make([]string, 0)
	for k := range body {
		if !updatableTicketFields[k] {
			rejected = append(rejected, k)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return models.Ticket{}, invalid(CodeFieldNotUpdatable, "fields cannot be updated", map[string]any{
			"fields":          rejected,
			"updatableFields": []string{"billing", "passengers", "seats"},
		})
	}

	_, touchesPassengers := body["passengers"]
	_, touchesSeats := body["seats"]

	ticket, err := s.Tickets.Update(ctx, id, func(t *models.Ticket) error {
		if t.Status == domain.TicketConfirmed && (touchesPassengers || touchesSeats) {
			return domain.ConflictError{Code: "TICKET_CONFIRMED", Resource: "ticket", Msg: "passengers and seats of a confirmed ticket cannot change"}
		}
		if s.InFlight.Active(t.ID) && (touchesPassengers || touchesSeats) {
			return domain.ConflictError{Code: CodePaymentInProgress, Resource: "ticket", Msg: "passengers and seats cannot change while a payment is running"}
		}

		passengers := t.Passengers
		if touchesPassengers {
			p, err := validatePassengers(body["passengers"])
			if err != nil {
				return err
			}
			passengers = p
		}

		billing := t.Billing
		if raw, ok := body["billing"]; ok {
			b, err := validateBilling(mergeBilling(t.Billing, raw))
			if err != nil {
				return err
			}
			billing = b
		}

		seats := t.Seats
		if touchesSeats {
			parsed, err := parseSeats(body["seats"])
			if err != nil {
				return err
			}
			seats = parsed
		}
		if err := checkSeatCount(seats, len(passengers)); err != nil {
			return err
		}

		now := s.now()
		t.Passengers = assignSeats(passengers, seats)
		t.Seats = seats
		t.Billing = billing
		t.TotalPassengers = len(passengers)
		t.TotalPrice = TotalFor(t.RoutePrice, passengers)
		t.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	utils.LogEvent(s.RequestID, "tickets", "update", "ticket_id="+id)
	return ticket, nil
}

// MarkPaid moves a ticket to CONFIRMED/PAID. Only PENDING_PAYMENT tickets
// whose total still equals the charged amount move.
func (s ReservationService) MarkPaid(ctx context.Context, id, paymentID string, amount int64, paidAt time.Time) (models.Ticket, error) {
	ticket, err := s.Tickets.Update(ctx, id, func(t *models.Ticket) error {
		if t.Status == domain.TicketConfirmed {
			return domain.ConflictError{Code: "ALREADY_PAID", Resource: "ticket", Msg: "ticket is already paid"}
		}
		if t.TotalPrice != amount {
			return domain.ConflictError{Code: CodeAmountMismatch, Resource: "ticket", Msg: fmt.Sprintf("ticket total %d no longer matches the charged amount %d", t.TotalPrice, amount)}
		}
		pid := paymentID
		paid := paidAt.UTC()
		t.Status = domain.TicketConfirmed
		t.PaymentStatus = domain.PaymentPaid
		t.PaymentID = &pid
		t.PaidAt = &paid
		t.UpdatedAt = &paid
		return nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	utils.LogEvent(s.RequestID, "tickets", "confirm", "ticket_id="+id+" payment_id="+paymentID)
	return ticket, nil
}

// mergeBilling overlays the given billing keys on the stored billing.
func mergeBilling(current models.Billing, raw any) any {
	patch, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	merged := map[string]any{
		"documentType":   current.DocumentType,
		"documentNumber": current.DocumentNumber,
		"name":           current.Name,
		"phone":          current.Phone,
		"email":          current.Email,
		"countryCode":    current.CountryCode,
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
