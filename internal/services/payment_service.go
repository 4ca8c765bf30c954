package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/metrics"
	"busticket/internal/repositories"
	"busticket/internal/utils"
)

const (
	DefaultCardDelay = 2 * time.Second
	DefaultPSEDelay  = 3 * time.Second

	ReasonInsufficientFunds = "insufficient_funds"

	CodePaymentInProgress = "PAYMENT_IN_PROGRESS"
)

// PaymentOutcome is what a processor decided for one attempt.
type PaymentOutcome struct {
	Status      domain.PaymentStatus
	Reason      string
	Details     map[string]any
	ProcessedAt time.Time
}

// PaymentProcessor charges a validated payment request.
type PaymentProcessor interface {
	Name() string
	Process(ctx context.Context, req PaymentRequest) (PaymentOutcome, error)
}

// SimulatedProcessor is a deterministic stand-in for a gateway. Card numbers
// starting with 4000 are rejected; everything else is approved.
type SimulatedProcessor struct {
	CardDelay time.Duration
	PSEDelay  time.Duration
	Now       func() time.Time
}

func NewSimulatedProcessor(cardDelay, pseDelay time.Duration) SimulatedProcessor {
	return SimulatedProcessor{CardDelay: cardDelay, PSEDelay: pseDelay}
}

func (p SimulatedProcessor) Name() string { return "simulated" }

func (p SimulatedProcessor) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return utils.NowUTC()
}

func (p SimulatedProcessor) Process(ctx context.Context, req PaymentRequest) (PaymentOutcome, error) {
	switch req.Method {
	case domain.MethodCard:
		if req.Card == nil {
			return PaymentOutcome{}, invalid(CodeInvalidCardData, "card data is required", nil)
		}
		if err := wait(ctx, p.CardDelay); err != nil {
			return PaymentOutcome{}, err
		}
		return p.decideCard(*req.Card), nil
	case domain.MethodPSE:
		if req.PSE == nil {
			return PaymentOutcome{}, invalid(CodeInvalidPSEData, "PSE data is required", nil)
		}
		if err := wait(ctx, p.PSEDelay); err != nil {
			return PaymentOutcome{}, err
		}
		return PaymentOutcome{
			Status: domain.PaymentApproved,
			Details: map[string]any{
				"transaction_id":  newTransactionID(),
				"bank_id":         req.PSE.BankID,
				"document_number": req.PSE.DocumentNumber,
				"email":           req.PSE.Email,
			},
			ProcessedAt: p.now(),
		}, nil
	default:
		return PaymentOutcome{}, invalid(CodeInvalidMethod, "unsupported payment method", map[string]any{
			"payment_method": req.Method,
		})
	}
}

func (p SimulatedProcessor) decideCard(card CardData) PaymentOutcome {
	number := utils.DigitsOnly(card.CardNumber)
	masked := utils.MaskCard(number)

	if strings.HasPrefix(number, "4000") {
		return PaymentOutcome{
			Status: domain.PaymentRejected,
			Reason: ReasonInsufficientFunds,
			Details: map[string]any{
				"reason":      ReasonInsufficientFunds,
				"masked_card": masked,
			},
			ProcessedAt: p.now(),
		}
	}

	// 4111 and 5555 are the documented test prefixes; any other number is approved too.
	details := map[string]any{
		"transaction_id":  newTransactionID(),
		"masked_card":     masked,
		"cardholder_name": card.CardholderName,
	}
	if card.Installments != "" {
		details["installments"] = card.Installments
	}
	return PaymentOutcome{Status: domain.PaymentApproved, Details: details, ProcessedAt: p.now()}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newTransactionID() string { return "TRX-" + uuid.NewString() }

// ProviderProcessor forwards payments to an external gateway over HTTP.
type ProviderProcessor struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Now     func() time.Time
}

// NewProviderProcessor refuses to build a processor without a credential.
func NewProviderProcessor(baseURL, token string, client *http.Client) (ProviderProcessor, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	token = strings.TrimSpace(token)
	if baseURL == "" || token == "" {
		return ProviderProcessor{}, fmt.Errorf("payment provider: url and token are required")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return ProviderProcessor{BaseURL: baseURL, Token: token, Client: client}, nil
}

func (p ProviderProcessor) Name() string { return "provider" }

type providerTransaction struct {
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	Card      *CardData `json:"card,omitempty"`
	PSE       *PSEData  `json:"pse,omitempty"`
}

type providerResponse struct {
	ID      string         `json:"id"`
	Status  string         `json:"status"`
	Reason  string         `json:"reason"`
	Details map[string]any `json:"details"`
}

func (p ProviderProcessor) Process(ctx context.Context, req PaymentRequest) (PaymentOutcome, error) {
	payload, err := json.Marshal(providerTransaction{
		Reference: req.ReservationID,
		Amount:    req.Amount,
		Currency:  "COP",
		Method:    string(req.Method),
		Card:      req.Card,
		PSE:       req.PSE,
	})
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("encode provider request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/transactions", bytes.NewReader(payload))
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("build provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.Token)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return PaymentOutcome{}, fmt.Errorf("provider responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out providerResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return PaymentOutcome{}, fmt.Errorf("decode provider response: %w", err)
	}

	details := out.Details
	if details == nil {
		details = map[string]any{}
	}
	if out.ID != "" {
		details["transaction_id"] = out.ID
	}
	if req.Card != nil {
		details["masked_card"] = utils.MaskCard(req.Card.CardNumber)
	}

	status := domain.PaymentStatus(strings.ToLower(out.Status))
	switch status {
	case domain.PaymentApproved, domain.PaymentRejected, domain.PaymentWaiting:
	default:
		return PaymentOutcome{}, fmt.Errorf("provider returned unknown status %q", out.Status)
	}
	if out.Reason != "" {
		details["reason"] = out.Reason
	}

	now := utils.NowUTC()
	if p.Now != nil {
		now = p.Now().UTC()
	}
	return PaymentOutcome{Status: status, Reason: out.Reason, Details: details, ProcessedAt: now}, nil
}

// PaymentResult is returned by PaymentService.Process.
type PaymentResult struct {
	Payment models.Payment
	Ticket  models.Ticket
}

// Approved reports whether the attempt confirmed the ticket.
func (r PaymentResult) Approved() bool { return r.Payment.Status == domain.PaymentApproved }

// PaymentService runs payment attempts against tickets and keeps their records.
type PaymentService struct {
	Payments     *repositories.PaymentRepository
	Reservations ReservationService
	Processor    PaymentProcessor
	RequestID    string
	Now          func() time.Time
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

// Process validates the body, charges it through the processor and records the
// attempt. Approved attempts confirm the ticket; other outcomes leave it as is.
// One attempt per ticket runs at a time.
func (s PaymentService) Process(ctx context.Context, body map[string]any) (PaymentResult, error) {
	req, err := ValidatePaymentRequest(body)
	if err != nil {
		return PaymentResult{}, err
	}

	s.Reservations.RequestID = s.RequestID
	inflight := s.Reservations.InFlight
	if !inflight.acquire(req.ReservationID) {
		return PaymentResult{}, domain.ConflictError{Code: CodePaymentInProgress, Resource: "ticket", Msg: "a payment for ticket " + req.ReservationID + " is already running"}
	}
	defer inflight.release(req.ReservationID)

	ticket, err := s.Reservations.Get(ctx, req.ReservationID)
	if err != nil {
		return PaymentResult{}, err
	}
	if ticket.Status == domain.TicketConfirmed {
		return PaymentResult{}, domain.ConflictError{Code: "ALREADY_PAID", Resource: "ticket", Msg: "ticket " + ticket.ID + " is already paid"}
	}
	if req.Amount != ticket.TotalPrice {
		return PaymentResult{}, invalid(CodeAmountMismatch, "amount does not match the ticket total", map[string]any{
			"expectedAmount": ticket.TotalPrice,
			"receivedAmount": req.Amount,
		})
	}
	if s.Processor == nil {
		return PaymentResult{}, domain.InternalError{Msg: "payment processor not configured"}
	}

	createdAt := s.now()
	started := time.Now()
	outcome, err := s.Processor.Process(ctx, req)
	metrics.PaymentProcessingDuration.WithLabelValues(string(req.Method)).Observe(time.Since(started).Seconds())
	if err != nil {
		if domain.IsValidation(err) {
			return PaymentResult{}, err
		}
		utils.LogWarn(s.RequestID, "payment", "process", "processor "+s.Processor.Name()+" failed: "+err.Error())
		return PaymentResult{}, domain.InternalError{Msg: "payment could not be processed", Err: err}
	}

	processedAt := outcome.ProcessedAt
	if processedAt.IsZero() {
		processedAt = s.now()
	}
	payment, err := s.Payments.Record(ctx, models.Payment{
		ReservationID: ticket.ID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        outcome.Status,
		CreatedAt:     createdAt,
		ProcessedAt:   &processedAt,
		Details:       outcome.Details,
	})
	if err != nil {
		return PaymentResult{}, err
	}
	metrics.PaymentsProcessed.WithLabelValues(string(req.Method), string(outcome.Status)).Inc()
	utils.LogEvent(s.RequestID, "payment", "process", fmt.Sprintf("payment_id=%s ticket_id=%s method=%s status=%s", payment.ID, ticket.ID, req.Method, outcome.Status))

	if outcome.Status != domain.PaymentApproved {
		return PaymentResult{Payment: payment, Ticket: ticket}, nil
	}

	confirmed, err := s.Reservations.MarkPaid(ctx, ticket.ID, payment.ID, req.Amount, processedAt)
	if err != nil {
		utils.LogWarn(s.RequestID, "payment", "confirm", "payment "+payment.ID+" approved but ticket not confirmed: "+err.Error())
		return PaymentResult{Payment: payment, Ticket: ticket}, err
	}
	return PaymentResult{Payment: payment, Ticket: confirmed}, nil
}

func (s PaymentService) Get(ctx context.Context, id string) (models.Payment, error) {
	return s.Payments.GetByID(ctx, id)
}

func (s PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	return s.Payments.List(ctx)
}
