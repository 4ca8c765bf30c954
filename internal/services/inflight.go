package services

import "sync"

// InFlightPayments tracks tickets that have a payment attempt running. A nil
// tracker never reports anything in flight.
type InFlightPayments struct {
	m sync.Map
}

// acquire marks the ticket as being paid. It reports false when another
// attempt already holds it.
func (p *InFlightPayments) acquire(ticketID string) bool {
	if p == nil {
		return true
	}
	_, held := p.m.LoadOrStore(ticketID, struct{}{})
	return !held
}

func (p *InFlightPayments) release(ticketID string) {
	if p == nil {
		return
	}
	p.m.Delete(ticketID)
}

// Active reports whether a payment attempt is running for the ticket.
func (p *InFlightPayments) Active(ticketID string) bool {
	if p == nil {
		return false
	}
	_, ok := p.m.Load(ticketID)
	return ok
}
