package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busticket/internal/domain/models"
	"busticket/internal/http/middleware"
	"busticket/internal/utils"
)

// ticketSummary is the creation response shape.
func ticketSummary(t models.Ticket) gin.H {
	return gin.H{
		"id":            t.ID,
		"status":        t.Status,
		"paymentStatus": t.PaymentStatus,
		"passengers":    t.TotalPassengers,
		"mainPassenger": t.MainPassenger().FullName(),
		"trip":          t.Trip.Summary(),
		"date":          t.Trip.Date,
		"schedule":      t.Trip.Schedule,
		"seats":         t.Seats,
		"totalPrice":    t.TotalPrice,
		"routePrice":    t.RoutePrice,
		"createdAt":     t.CreatedAt,
	}
}

// POST /tickets
func (h *Handlers) CreateTicket(c *gin.Context) {
	body, ok := readJSONObject(c)
	if !ok {
		return
	}
	ticket, err := h.reservations(c).Create(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reservation created",
		"ticket":  ticketSummary(ticket),
	})
}

// GET /tickets
func (h *Handlers) ListTickets(c *gin.Context) {
	tickets, err := h.reservations(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	listResponse(c, tickets)
}

// GET /tickets/:id
//
// The response lists the ticket's payment attempts alongside it.
func (h *Handlers) GetTicket(c *gin.Context) {
	ticket, err := h.reservations(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	payments, err := h.Payments.ListByReservation(c.Request.Context(), ticket.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ticket, "payments": payments})
}

// PATCH /tickets/:id
func (h *Handlers) UpdateTicket(c *gin.Context) {
	body, ok := readJSONObject(c)
	if !ok {
		return
	}
	ticket, err := h.reservations(c).Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	actor := "anonymous"
	if user, ok := middleware.CurrentUser(c); ok {
		actor = user.Subject
	}
	utils.LogEvent(middleware.GetRequestID(c), "tickets", "patch", "ticket_id="+ticket.ID+" by="+actor)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation updated", "data": ticket})
}
