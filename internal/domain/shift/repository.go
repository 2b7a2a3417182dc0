package shift

import "context"

type ShiftRepository interface {
	ListAll(ctx context.Context) ([]Shift, error)
}
