package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// GetActiveByDate returns nil, nil when no active holiday falls on date.
	GetActiveByDate(ctx context.Context, date time.Time) (*Holiday, error)
}
