package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей, плюс дескрипторы @hourly и т.п.).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Schedule — разобранное расписание запусков.
type Schedule struct {
	expr     string
	location *time.Location
	spec     cron.Schedule
}

// Parse разбирает cron-выражение в заданной timezone.
// Пустая timezone — UTC.
func Parse(expr, timezone string) (*Schedule, error) {
	spec, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	loc := time.UTC
	if timezone != "" {
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
	}

	return &Schedule{expr: expr, location: loc, spec: spec}, nil
}

// Next вычисляет следующее время запуска после from.
func (s *Schedule) Next(from time.Time) time.Time {
	next := s.spec.Next(from.In(s.location))
	return next.UTC() // возвращаем в UTC для логов и событий
}

// String возвращает исходное выражение.
func (s *Schedule) String() string {
	return s.expr
}
