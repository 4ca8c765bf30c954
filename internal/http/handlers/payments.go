package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/http/middleware"
)

func ticketPaymentState(t models.Ticket) gin.H {
	return gin.H{
		"id":            t.ID,
		"status":        t.Status,
		"paymentStatus": t.PaymentStatus,
		"paymentId":     t.PaymentID,
		"paidAt":        t.PaidAt,
		"totalPrice":    t.TotalPrice,
	}
}

// POST /process-payment
//
// The processor runs on a context detached from the client: once started, an
// attempt always completes and is recorded even if the client disconnects.
func (h *Handlers) ProcessPayment(c *gin.Context) {
	body, ok := readJSONObject(c)
	if !ok {
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := h.payments(c).Process(ctx, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	p := res.Payment
	switch p.Status {
	case domain.PaymentApproved:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Payment approved",
			"payment_id": p.ID,
			"status":     p.Status,
			"payment":    p,
			"ticket":     ticketPaymentState(res.Ticket),
		})
	case domain.PaymentRejected:
		reason, _ := p.Details["reason"].(string)
		c.JSON(http.StatusBadRequest, gin.H{
			"success":        false,
			"error":          "Payment rejected",
			"code":           "PAYMENT_REJECTED",
			"payment_id":     p.ID,
			"payment_status": p.Status,
			"reason":         reason,
			"request_id":     middleware.GetRequestID(c),
		})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"success":    true,
			"message":    "Payment pending confirmation",
			"payment_id": p.ID,
			"status":     p.Status,
			"payment":    p,
			"ticket":     ticketPaymentState(res.Ticket),
		})
	}
}

// GET /payment-status/:payment_id
func (h *Handlers) GetPaymentStatus(c *gin.Context) {
	p, err := h.payments(c).Get(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// GET /payments
func (h *Handlers) ListPayments(c *gin.Context) {
	payments, err := h.payments(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	listResponse(c, payments)
}
