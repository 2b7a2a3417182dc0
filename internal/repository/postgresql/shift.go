package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// ListAll implements shift.ShiftRepository.
func (s *shiftRepositoryImpl) ListAll(ctx context.Context) ([]shift.Shift, error) {
	ctx, cancel := s.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, is_night_shift, created_at, updated_at
		FROM shifts
		WHERE deleted_at IS NULL
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", wrapTimeout(err))
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var sh shift.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.IsNightShift, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", wrapTimeout(err))
	}

	return shifts, nil
}
