package models

import (
	"time"

	"busticket/internal/domain"
)

// Passenger is one traveller on a ticket, bound to the seat at the same index.
type Passenger struct {
	Name           string `json:"name"`
	LastName       string `json:"lastName"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	BirthDate      string `json:"birthDate"`
	HasMinors      bool   `json:"hasMinors"`
	HasPets        bool   `json:"hasPets"`
	HasInsurance   bool   `json:"hasInsurance"`
	Seat           string `json:"seat"`
}

// FullName joins name and last name for display.
func (p Passenger) FullName() string {
	if p.LastName == "" {
		return p.Name
	}
	return p.Name + " " + p.LastName
}

// Billing holds the payer's contact data.
type Billing struct {
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	CountryCode    string `json:"countryCode"`
	FullPhone      string `json:"fullPhone"`
}

// Trip identifies the journey a ticket was bought for.
type Trip struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Schedule    string `json:"schedule"`
}

// Summary renders "origin → destination".
func (t Trip) Summary() string {
	return t.Origin + " → " + t.Destination
}

// Ticket is a reservation covering one or more passengers on a single trip.
type Ticket struct {
	ID              string              `json:"id"`
	Status          domain.TicketStatus `json:"status"`
	PaymentStatus   domain.PaymentState `json:"paymentStatus"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       *time.Time          `json:"updatedAt,omitempty"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
	Passengers      []Passenger         `json:"passengers"`
	Trip            Trip                `json:"trip"`
	Seats           []string            `json:"seats"`
	Billing         Billing             `json:"billing"`
	AcceptedTerms   bool                `json:"acceptedTerms"`
	TotalPassengers int                 `json:"totalPassengers"`
	TotalPrice      int64               `json:"totalPrice"`
	RoutePrice      int64               `json:"routePrice"`
	PaymentID       *string             `json:"paymentId"`
}

// RecordID satisfies repositories.Record.
func (t Ticket) RecordID() string { return t.ID }

// MainPassenger returns the first passenger, who is the reservation's contact on board.
func (t Ticket) MainPassenger() Passenger {
	if len(t.Passengers) == 0 {
		return Passenger{}
	}
	return t.Passengers[0]
}
