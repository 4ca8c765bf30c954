package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/utils"
)

// TicketGetter loads one ticket by id.
type TicketGetter interface {
	Get(ctx context.Context, id string) (models.Ticket, error)
}

// DocsService renders PDF e-tickets and invoices for confirmed tickets.
type DocsService struct {
	Tickets   TicketGetter
	RequestID string
}

func (s DocsService) GenerateETicket(ctx context.Context, ticketID string) ([]byte, string, error) {
	t, err := s.loadConfirmed(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "ticket_id="+t.ID)
	return buildETicketPDF(t)
}

func (s DocsService) GenerateInvoice(ctx context.Context, ticketID string) ([]byte, string, error) {
	t, err := s.loadConfirmed(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", "ticket_id="+t.ID)
	return buildInvoicePDF(t)
}

func (s DocsService) loadConfirmed(ctx context.Context, ticketID string) (models.Ticket, error) {
	if s.Tickets == nil {
		return models.Ticket{}, domain.InternalError{Msg: "ticket source not configured"}
	}
	t, err := s.Tickets.Get(ctx, ticketID)
	if err != nil {
		return models.Ticket{}, err
	}
	if t.Status != domain.TicketConfirmed {
		return models.Ticket{}, domain.ConflictError{Code: "TICKET_NOT_PAID", Resource: "ticket", Msg: "documents are only issued for paid tickets"}
	}
	return t, nil
}

func buildETicketPDF(t models.Ticket) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("E-Ticket "+t.ID, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket       : %s", t.ID),
		fmt.Sprintf("Route        : %s -> %s", safe(t.Trip.Origin, "-"), safe(t.Trip.Destination, "-")),
		fmt.Sprintf("Date / time  : %s %s", safe(t.Trip.Date, "-"), safe(t.Trip.Schedule, "-")),
		fmt.Sprintf("Passengers   : %d", t.TotalPassengers),
		fmt.Sprintf("Seats        : %s", safe(strings.Join(t.Seats, ", "), "-")),
	}
	if t.PaymentID != nil {
		lines = append(lines, fmt.Sprintf("Payment      : %s", *t.PaymentID))
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range t.Passengers {
		line := fmt.Sprintf("%d) %s  %s %s  seat %s", i+1, safe(p.FullName(), "-"), p.DocumentType, p.DocumentNumber, safe(p.Seat, "-"))
		if p.HasInsurance {
			line += "  (insured)"
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this e-ticket and an identity document for every passenger at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%s.pdf", utils.SafeFilenamePart(t.ID))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(t models.Ticket) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+t.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	issued := t.CreatedAt
	if t.PaidAt != nil {
		issued = *t.PaidAt
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice      : INV-"+t.ID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date         : "+utils.FormatDateTime(issued))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	for _, l := range []string{
		fmt.Sprintf("Name     : %s", safe(t.Billing.Name, "-")),
		fmt.Sprintf("Document : %s %s", t.Billing.DocumentType, t.Billing.DocumentNumber),
		fmt.Sprintf("Phone    : %s", safe(t.Billing.FullPhone, "-")),
		fmt.Sprintf("E-mail   : %s", safe(t.Billing.Email, "-")),
	} {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Items:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("Bus ticket %s -> %s (%s %s)", safe(t.Trip.Origin, "-"), safe(t.Trip.Destination, "-"), safe(t.Trip.Date, "-"), safe(t.Trip.Schedule, "-"))
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d x %s  %s", t.TotalPassengers, desc, utils.FormatPesos(t.RoutePrice))), "", "", false)

	insured := 0
	for _, p := range t.Passengers {
		if p.HasInsurance {
			insured++
		}
	}
	if insured > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("%d x Travel insurance  %s", insured, utils.FormatPesos(InsuranceSurcharge)))
		pdf.Ln(8)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatPesos(t.TotalPrice))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s.pdf", utils.SafeFilenamePart(t.ID))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
