package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/energy-planner/internal/model"
)

type energyRow struct {
	ID        string    `db:"id"`
	Year      int       `db:"year"`
	Month     int       `db:"month"`
	Day       int       `db:"day"`
	Ceiling   int       `db:"ceiling"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r energyRow) toModel() model.DailyEnergyRecord {
	return model.DailyEnergyRecord{
		ID:        r.ID,
		Date:      model.CalendarDay{Year: r.Year, Month: time.Month(r.Month), Day: r.Day},
		Ceiling:   r.Ceiling,
		UpdatedAt: r.UpdatedAt,
	}
}

func insertEnergyRecord(ctx context.Context, tx *sqlx.Tx, r model.DailyEnergyRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO daily_energy (id, year, month, day, ceiling, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Date.Year, int(r.Date.Month), r.Date.Day, r.Ceiling, updatedAt(r),
	)
	return err
}

func updateEnergyRecord(ctx context.Context, tx *sqlx.Tx, r model.DailyEnergyRecord) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE daily_energy SET year = ?, month = ?, day = ?, ceiling = ?, updated_at = ?
		WHERE id = ?`,
		r.Date.Year, int(r.Date.Month), r.Date.Day, r.Ceiling, updatedAt(r),
		r.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, "energy record", r.ID)
}

func updatedAt(r model.DailyEnergyRecord) time.Time {
	if r.UpdatedAt.IsZero() {
		return time.Now().UTC()
	}
	return r.UpdatedAt.UTC()
}

// dayKey is the integer YYYYMMDD used for range comparisons.
func dayKey(d model.CalendarDay) int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// FetchEnergyRecords retrieves daily energy records matching the filter,
// oldest first.
func (s *SQLiteStore) FetchEnergyRecords(
	ctx context.Context,
	filter EnergyFilter,
) ([]model.DailyEnergyRecord, error) {
	var conditions []string
	var args []interface{}

	const key = "(year * 10000 + month * 100 + day)"
	switch {
	case filter.Day != nil:
		conditions = append(conditions, "year = ? AND month = ? AND day = ?")
		args = append(args, filter.Day.Year, int(filter.Day.Month), filter.Day.Day)
	default:
		if filter.From != nil {
			conditions = append(conditions, key+" >= ?")
			args = append(args, dayKey(*filter.From))
		}
		if filter.To != nil {
			conditions = append(conditions, key+" <= ?")
			args = append(args, dayKey(*filter.To))
		}
	}

	query := "SELECT id, year, month, day, ceiling, updated_at FROM daily_energy"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY year, month, day"

	var rows []energyRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying energy records: %w", err)
	}

	records := make([]model.DailyEnergyRecord, len(rows))
	for i, r := range rows {
		records[i] = r.toModel()
	}
	return records, nil
}
