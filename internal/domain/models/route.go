package models

// Route is static reference data: one priced origin/destination/schedule combination.
type Route struct {
	ID          string `json:"id,omitempty"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Company     string `json:"company,omitempty"`
	Price       int64  `json:"price"`
}

// RecordID satisfies repositories.Record.
func (r Route) RecordID() string { return r.ID }
