package dashboard

import "time"

// RecentHire is the subset of an employee row shown on the dashboard.
type RecentHire struct {
	ID         int64
	FirstName  string
	LastName   string
	Position   string
	Department *string
	Status     string
	HiredAt    time.Time
}

type StatusCount struct {
	Status string
	Count  int64
}
