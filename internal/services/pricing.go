package services

import (
	"context"
	"fmt"

	"busticket/internal/domain/models"
	"busticket/internal/utils"
)

const (
	// DefaultRoutePrice applies when no route matches the trip.
	DefaultRoutePrice int64 = 45000
	// InsuranceSurcharge is added per insured passenger.
	InsuranceSurcharge int64 = 2000
)

// RouteLister is the read side of the route reference document.
type RouteLister interface {
	List(ctx context.Context) ([]models.Route, error)
}

// Quote is the price breakdown of a reservation.
type Quote struct {
	RoutePrice     int64 `json:"routePrice"`
	TotalPrice     int64 `json:"totalPrice"`
	Passengers     int   `json:"passengers"`
	Insured        int   `json:"insuredPassengers"`
	DefaultApplied bool  `json:"defaultPriceApplied"`
}

// PricingService prices trips against the route reference set.
type PricingService struct {
	Routes    RouteLister
	RequestID string
}

// PriceFor returns (totalPrice, routePrice) for a trip. A missing route falls
// back to DefaultRoutePrice with a warning; it never fails the reservation.
func (s PricingService) PriceFor(ctx context.Context, trip models.Trip, passengers []models.Passenger) (int64, int64, error) {
	q, err := s.Quote(ctx, trip, passengers)
	if err != nil {
		return 0, 0, err
	}
	return q.TotalPrice, q.RoutePrice, nil
}

func (s PricingService) Quote(ctx context.Context, trip models.Trip, passengers []models.Passenger) (Quote, error) {
	var routes []models.Route
	if s.Routes != nil {
		var err error
		routes, err = s.Routes.List(ctx)
		if err != nil {
			return Quote{}, err
		}
	}

	price, ok := LookupRoutePrice(routes, trip.Origin, trip.Destination)
	if !ok {
		utils.LogWarn(s.RequestID, "pricing", "lookup", fmt.Sprintf("no route %q -> %q, using default price %d", trip.Origin, trip.Destination, DefaultRoutePrice))
		price = DefaultRoutePrice
	}

	insured := 0
	for _, p := range passengers {
		if p.HasInsurance {
			insured++
		}
	}
	return Quote{
		RoutePrice:     price,
		TotalPrice:     TotalFor(price, passengers),
		Passengers:     len(passengers),
		Insured:        insured,
		DefaultApplied: !ok,
	}, nil
}

// LookupRoutePrice finds the first route with exactly this origin and destination.
// Matching is case-sensitive.
func LookupRoutePrice(routes []models.Route, origin, destination string) (int64, bool) {
	for _, r := range routes {
		if r.Origin == origin && r.Destination == destination {
			return r.Price, true
		}
	}
	return 0, false
}

// TotalFor sums the route price per passenger plus the insurance surcharge.
func TotalFor(routePrice int64, passengers []models.Passenger) int64 {
	var total int64
	for _, p := range passengers {
		total += routePrice
		if p.HasInsurance {
			total += InsuranceSurcharge
		}
	}
	return total
}
