package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/leavehq/leave-backend-go/internal/domain/holiday"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
)

// DayCounter counts working days for submitted requests. Unlike the draft
// preview, which only skips weekends, submission also excludes configured
// holidays so approved leave is never charged for days the office is closed.
type DayCounter struct {
	holiday.HolidayRepository
}

func NewDayCounter(holidayRepository holiday.HolidayRepository) *DayCounter {
	return &DayCounter{HolidayRepository: holidayRepository}
}

// CountWorkingDays counts Monday through Friday days in the inclusive range,
// skipping active holidays. Recurring holidays match on month and day in any
// year.
func (c *DayCounter) CountWorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0, nil
	}

	holidays, err := c.HolidayRepository.ListInRange(ctx, dateOnly(start), dateOnly(end))
	if err != nil {
		return 0, fmt.Errorf("failed to list holidays: %w", err)
	}

	exact := make(map[string]bool)
	recurring := make(map[string]bool)
	for _, h := range holidays {
		if h.IsRecurring {
			recurring[h.Date.Format("01-02")] = true
		} else {
			exact[h.Date.Format("2006-01-02")] = true
		}
	}

	count := 0
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if exact[d.Format("2006-01-02")] || recurring[d.Format("01-02")] {
			continue
		}
		count++
	}
	return count, nil
}

// ChargeableDays converts the working day count into charged days for the
// request's duration type. Hourly requests are charged from the hour count
// alone.
func (c *DayCounter) ChargeableDays(ctx context.Context, draft leave.RequestDraft) (float64, error) {
	if draft.DurationType == leave.DurationHourly {
		charged := draft.Hours / 8
		if charged < 0 {
			charged = 0
		}
		return charged, nil
	}

	workingDays, err := c.CountWorkingDays(ctx, draft.StartDate, draft.EndDate)
	if err != nil {
		return 0, err
	}

	if draft.DurationType == leave.DurationHalfDay {
		return float64(workingDays) * 0.5, nil
	}
	return float64(workingDays), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
