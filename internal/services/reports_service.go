package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

const reportDateLayout = "2006-01-02"

// SalesReportFilter bounds the report by ticket creation date (inclusive,
// YYYY-MM-DD). Empty bounds are open.
type SalesReportFilter struct {
	StartDate string
	EndDate   string
}

type RouteSales struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Tickets     int    `json:"tickets"`
	Passengers  int    `json:"passengers"`
	Revenue     int64  `json:"revenue"`
}

type SalesReport struct {
	StartDate        string         `json:"start_date,omitempty"`
	EndDate          string         `json:"end_date,omitempty"`
	Tickets          int            `json:"tickets"`
	Confirmed        int            `json:"confirmed"`
	PendingPayment   int            `json:"pending_payment"`
	Passengers       int            `json:"passengers"`
	Revenue          int64          `json:"revenue"`
	ByRoute          []RouteSales   `json:"by_route"`
	PaymentsByStatus map[string]int `json:"payments_by_status"`
	PaymentsByMethod map[string]int `json:"payments_by_method"`
}

type TicketLister interface {
	List(ctx context.Context) ([]models.Ticket, error)
}

type PaymentLister interface {
	List(ctx context.Context) ([]models.Payment, error)
}

// ReportsService aggregates tickets and payments. Revenue counts confirmed
// tickets only.
type ReportsService struct {
	Tickets  TicketLister
	Payments PaymentLister
}

func (s ReportsService) GetSalesReport(ctx context.Context, f SalesReportFilter) (SalesReport, error) {
	start, end, err := parseReportRange(f)
	if err != nil {
		return SalesReport{}, err
	}

	tickets, err := s.Tickets.List(ctx)
	if err != nil {
		return SalesReport{}, err
	}
	payments, err := s.Payments.List(ctx)
	if err != nil {
		return SalesReport{}, err
	}

	inRange := func(t time.Time) bool {
		if !start.IsZero() && t.Before(start) {
			return false
		}
		if !end.IsZero() && !t.Before(end) {
			return false
		}
		return true
	}

	tickets = lo.Filter(tickets, func(t models.Ticket, _ int) bool { return inRange(t.CreatedAt) })
	report := SalesReport{
		StartDate:        f.StartDate,
		EndDate:          f.EndDate,
		Tickets:          len(tickets),
		ByRoute:          []RouteSales{},
		PaymentsByStatus: map[string]int{},
		PaymentsByMethod: map[string]int{},
	}

	byRoute := lo.GroupBy(tickets, func(t models.Ticket) string {
		return t.Trip.Origin + "\x00" + t.Trip.Destination
	})
	for _, group := range byRoute {
		rs := RouteSales{Origin: group[0].Trip.Origin, Destination: group[0].Trip.Destination}
		for _, t := range group {
			rs.Tickets++
			if t.Status != domain.TicketConfirmed {
				continue
			}
			rs.Passengers += t.TotalPassengers
			rs.Revenue += t.TotalPrice
		}
		report.ByRoute = append(report.ByRoute, rs)
	}
	sort.Slice(report.ByRoute, func(i, j int) bool {
		a, b := report.ByRoute[i], report.ByRoute[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Origin+a.Destination < b.Origin+b.Destination
	})

	for _, t := range tickets {
		switch t.Status {
		case domain.TicketConfirmed:
			report.Confirmed++
			report.Passengers += t.TotalPassengers
			report.Revenue += t.TotalPrice
		case domain.TicketPendingPayment:
			report.PendingPayment++
		}
	}

	for _, p := range payments {
		if !inRange(p.CreatedAt) {
			continue
		}
		report.PaymentsByStatus[string(p.Status)]++
		report.PaymentsByMethod[string(p.Method)]++
	}
	return report, nil
}

func parseReportRange(f SalesReportFilter) (time.Time, time.Time, error) {
	var start, end time.Time
	if s := strings.TrimSpace(f.StartDate); s != "" {
		t, err := time.Parse(reportDateLayout, s)
		if err != nil {
			return start, end, invalid("INVALID_DATE_RANGE", "start_date must be YYYY-MM-DD", map[string]any{"start_date": f.StartDate})
		}
		start = t
	}
	if s := strings.TrimSpace(f.EndDate); s != "" {
		t, err := time.Parse(reportDateLayout, s)
		if err != nil {
			return start, end, invalid("INVALID_DATE_RANGE", "end_date must be YYYY-MM-DD", map[string]any{"end_date": f.EndDate})
		}
		end = t.AddDate(0, 0, 1)
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return start, end, invalid("INVALID_DATE_RANGE", "start_date must not be after end_date", map[string]any{
			"start_date": f.StartDate,
			"end_date":   f.EndDate,
		})
	}
	return start, end, nil
}
