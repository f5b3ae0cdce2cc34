package model

import "time"

// DailyEnergyRecord is the energy ceiling the user chose for one calendar
// day. There is at most one record per day.
type DailyEnergyRecord struct {
	ID        string      `json:"id" yaml:"id"`
	Date      CalendarDay `json:"date" yaml:"date"`
	Ceiling   int         `json:"ceiling" yaml:"ceiling"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"updated_at"`
}
