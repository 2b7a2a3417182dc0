package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// GetActiveByDate implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) GetActiveByDate(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
	ctx, cancel := h.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, date, name, status, created_at, updated_at
		FROM holidays
		WHERE date = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1
	`

	var hol holiday.Holiday
	err := q.QueryRow(ctx, query, attendance.DateOnly(date), holiday.StatusActive).Scan(
		&hol.ID, &hol.Date, &hol.Name, &hol.Status, &hol.CreatedAt, &hol.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", wrapTimeout(err))
	}

	return &hol, nil
}
