package leave

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehq/leave-backend-go/internal/domain/holiday"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
)

type stubHolidayRepo struct {
	holidays []holiday.Holiday
}

func (s *stubHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	s.holidays = append(s.holidays, h)
	return h, nil
}

func (s *stubHolidayRepo) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	for _, h := range s.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, pgx.ErrNoRows
}

func (s *stubHolidayRepo) GetByDate(ctx context.Context, date time.Time) (holiday.Holiday, error) {
	for _, h := range s.holidays {
		if h.Date.Equal(date) {
			return h, nil
		}
	}
	return holiday.Holiday{}, pgx.ErrNoRows
}

func (s *stubHolidayRepo) List(ctx context.Context, activeOnly bool) ([]holiday.Holiday, error) {
	if !activeOnly {
		return s.holidays, nil
	}
	var out []holiday.Holiday
	for _, h := range s.holidays {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *stubHolidayRepo) ListInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range s.holidays {
		if !h.IsActive {
			continue
		}
		if h.IsRecurring || (!h.Date.Before(start) && !h.Date.After(end)) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *stubHolidayRepo) Update(ctx context.Context, req holiday.UpdateHolidayRequest) error {
	return nil
}

func (s *stubHolidayRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWorkingDays(t *testing.T) {
	repo := &stubHolidayRepo{
		holidays: []holiday.Holiday{
			// Wednesday
			{ID: "h1", Date: day(2025, time.March, 5), Name: "Founders Day", IsActive: true},
			// Recurring New Year, stored against an old year
			{ID: "h2", Date: day(2020, time.January, 1), Name: "New Year", IsRecurring: true, IsActive: true},
			// Inactive holidays do not skip days
			{ID: "h3", Date: day(2025, time.March, 6), Name: "Retired Holiday", IsActive: false},
		},
	}
	counter := NewDayCounter(repo)
	ctx := context.Background()

	t.Run("skips weekends", func(t *testing.T) {
		// Mon Mar 10 .. Sun Mar 16
		got, err := counter.CountWorkingDays(ctx, day(2025, time.March, 10), day(2025, time.March, 16))
		require.NoError(t, err)
		assert.Equal(t, 5, got)
	})

	t.Run("skips exact date holidays", func(t *testing.T) {
		// Mon Mar 3 .. Fri Mar 7, minus Founders Day on Wednesday
		got, err := counter.CountWorkingDays(ctx, day(2025, time.March, 3), day(2025, time.March, 7))
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})

	t.Run("recurring holidays match any year", func(t *testing.T) {
		// Wed Jan 1 2025 is New Year via the 2020 recurring row
		got, err := counter.CountWorkingDays(ctx, day(2025, time.January, 1), day(2025, time.January, 3))
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("ignores inactive holidays", func(t *testing.T) {
		// Thu Mar 6 alone, the retired holiday
		got, err := counter.CountWorkingDays(ctx, day(2025, time.March, 6), day(2025, time.March, 6))
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("inverted range counts zero", func(t *testing.T) {
		got, err := counter.CountWorkingDays(ctx, day(2025, time.March, 10), day(2025, time.March, 3))
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})
}

func TestChargeableDays(t *testing.T) {
	counter := NewDayCounter(&stubHolidayRepo{})
	ctx := context.Background()

	t.Run("full day charges working days", func(t *testing.T) {
		draft := leave.RequestDraft{
			StartDate:    day(2025, time.March, 10),
			EndDate:      day(2025, time.March, 14),
			DurationType: leave.DurationFullDay,
		}
		got, err := counter.ChargeableDays(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, 5.0, got)
	})

	t.Run("half day charges half", func(t *testing.T) {
		draft := leave.RequestDraft{
			StartDate:    day(2025, time.March, 10),
			EndDate:      day(2025, time.March, 11),
			DurationType: leave.DurationHalfDay,
			StartHalf:    leave.HalfDayMorning,
		}
		got, err := counter.ChargeableDays(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got)
	})

	t.Run("hourly charges hours over eight", func(t *testing.T) {
		draft := leave.RequestDraft{
			StartDate:    day(2025, time.March, 10),
			EndDate:      day(2025, time.March, 14),
			DurationType: leave.DurationHourly,
			Hours:        4,
		}
		got, err := counter.ChargeableDays(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, 0.5, got)
	})

	t.Run("hourly never charges negative days", func(t *testing.T) {
		draft := leave.RequestDraft{
			StartDate:    day(2025, time.March, 10),
			EndDate:      day(2025, time.March, 14),
			DurationType: leave.DurationHourly,
			Hours:        -2,
		}
		got, err := counter.ChargeableDays(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})
}
