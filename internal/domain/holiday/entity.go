package holiday

import "time"

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
