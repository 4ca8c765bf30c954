package domain

// TicketStatus is the reservation lifecycle state.
type TicketStatus string

const (
	TicketPendingPayment TicketStatus = "PENDING_PAYMENT"
	TicketConfirmed      TicketStatus = "CONFIRMED"
)

// PaymentState mirrors TicketStatus on the payment side of a ticket.
type PaymentState string

const (
	PaymentPending PaymentState = "PENDING"
	PaymentPaid    PaymentState = "PAID"
)

// PaymentMethod identifies how a payment attempt was made.
type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodPSE  PaymentMethod = "pse"
)

// PaymentStatus is the outcome of a single payment attempt.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentWaiting  PaymentStatus = "pending"
)

// Document names in the store.
const (
	DocRoutes   = "routes"
	DocTickets  = "tickets"
	DocPayments = "payments"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
}
