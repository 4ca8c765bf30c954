package repositories

import "github.com/google/uuid"

// IDGenerator produces record ids. Swappable in tests.
type IDGenerator func() string

func NewTicketID() string  { return "TCK-" + uuid.NewString() }
func NewPaymentID() string { return "PAY-" + uuid.NewString() }

// uniqueID keeps drawing from gen until the id is unused in items.
func uniqueID[T Record](items []T, gen IDGenerator) string {
	for {
		id := gen()
		if id != "" && indexOf(items, id) < 0 {
			return id
		}
	}
}
