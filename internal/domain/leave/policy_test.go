package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func permissiveType() LeaveType {
	return LeaveType{
		ID:                 "lt-casual",
		Name:               "Casual Leave",
		Category:           CategoryCasual,
		IsActive:           true,
		AllowFullDay:       true,
		AllowHalfDay:       true,
		AllowHourly:        true,
		MaxConsecutiveDays: 30,
	}
}

func validDraft() RequestDraft {
	return RequestDraft{
		LeaveTypeID:  "lt-casual",
		StartDate:    date(2025, time.March, 10), // Monday
		EndDate:      date(2025, time.March, 14), // Friday
		DurationType: DurationFullDay,
		Reason:       "Family vacation trip",
	}
}

var today = date(2025, time.March, 1)

func TestValidateDraft_ValidFullWeek(t *testing.T) {
	result := ValidateDraft(validDraft(), permissiveType(), today)

	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors)
	assert.Equal(t, 5.0, result.ChargeableDays)
}

func TestValidateDraft_SingleWeekdayFullDay(t *testing.T) {
	draft := validDraft()
	draft.StartDate = date(2025, time.March, 12) // Wednesday
	draft.EndDate = date(2025, time.March, 12)

	result := ValidateDraft(draft, permissiveType(), today)

	assert.True(t, result.Valid())
	assert.Equal(t, 1.0, result.ChargeableDays)
}

func TestValidateDraft_WeekendOnlyIsZeroDaysNotAnError(t *testing.T) {
	draft := validDraft()
	draft.StartDate = date(2025, time.March, 15) // Saturday
	draft.EndDate = date(2025, time.March, 15)

	result := ValidateDraft(draft, permissiveType(), today)

	assert.True(t, result.Valid())
	assert.Equal(t, 0.0, result.ChargeableDays)
}

func TestValidateDraft_FullCalendarWeekAlwaysFiveWeekdays(t *testing.T) {
	// Seven consecutive days contain exactly five weekdays no matter which
	// day of the week the range starts on.
	for offset := 0; offset < 7; offset++ {
		start := date(2025, time.June, 2).AddDate(0, 0, offset)
		draft := validDraft()
		draft.StartDate = start
		draft.EndDate = start.AddDate(0, 0, 6)

		result := ValidateDraft(draft, permissiveType(), today)

		assert.True(t, result.Valid(), "start %s", start.Weekday())
		assert.Equal(t, 5.0, result.ChargeableDays, "start %s", start.Weekday())
	}
}

func TestValidateDraft_HalfDayIsHalfOfFullDay(t *testing.T) {
	ranges := []struct{ start, end time.Time }{
		{date(2025, time.March, 10), date(2025, time.March, 14)},
		{date(2025, time.March, 10), date(2025, time.March, 10)},
		{date(2025, time.March, 13), date(2025, time.March, 24)},
		{date(2025, time.March, 15), date(2025, time.March, 16)}, // weekend
	}

	for _, r := range ranges {
		full := validDraft()
		full.StartDate, full.EndDate = r.start, r.end

		half := full
		half.DurationType = DurationHalfDay
		half.StartHalf = HalfDayMorning

		fullResult := ValidateDraft(full, permissiveType(), today)
		halfResult := ValidateDraft(half, permissiveType(), today)

		assert.Equal(t, fullResult.ChargeableDays/2, halfResult.ChargeableDays)
	}
}

func TestValidateDraft_HourlyIgnoresDateRange(t *testing.T) {
	draft := validDraft()
	draft.DurationType = DurationHourly
	draft.Hours = 4

	short := ValidateDraft(draft, permissiveType(), today)

	draft.EndDate = date(2025, time.March, 28)
	long := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, 0.5, short.ChargeableDays)
	assert.Equal(t, 0.5, long.ChargeableDays)
}

func TestValidateDraft_HourlyBoundaries(t *testing.T) {
	cases := []struct {
		hours   float64
		wantErr bool
	}{
		{0, true},
		{8.01, true},
		{9, true},
		{-1, true},
		{0.5, false},
		{1, false},
		{8, false},
	}

	for _, c := range cases {
		draft := validDraft()
		draft.DurationType = DurationHourly
		draft.Hours = c.hours

		result := ValidateDraft(draft, permissiveType(), today)

		if c.wantErr {
			assert.Equal(t, "must be between 1 and 8", result.Errors["hours"], "hours=%v", c.hours)
		} else {
			assert.NotContains(t, result.Errors, "hours", "hours=%v", c.hours)
		}
		// Preview is computed regardless of validity, floored at zero.
		want := c.hours / 8
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, result.ChargeableDays, "hours=%v", c.hours)
	}
}

func TestValidateDraft_NegativeHoursChargeNothing(t *testing.T) {
	draft := validDraft()
	draft.DurationType = DurationHourly
	draft.Hours = -2

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "must be between 1 and 8", result.Errors["hours"])
	assert.Equal(t, 0.0, result.ChargeableDays)
	assert.GreaterOrEqual(t, result.ChargeableDays, 0.0)
}

func TestValidateDraft_HourlyOverLimitStillPreviews(t *testing.T) {
	draft := validDraft()
	draft.DurationType = DurationHourly
	draft.Hours = 9

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "must be between 1 and 8", result.Errors["hours"])
	assert.Equal(t, 1.125, result.ChargeableDays)
}

func TestValidateDraft_PastStartDate(t *testing.T) {
	draft := validDraft()
	draft.StartDate = date(2025, time.January, 1)
	draft.EndDate = date(2025, time.January, 3)

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "cannot be in the past", result.Errors["start_date"])
}

func TestValidateDraft_StartDateTodayIsAllowed(t *testing.T) {
	draft := validDraft()
	draft.StartDate = date(2025, time.March, 3) // Monday
	draft.EndDate = date(2025, time.March, 3)

	result := ValidateDraft(draft, permissiveType(), date(2025, time.March, 3))

	assert.NotContains(t, result.Errors, "start_date")
}

func TestValidateDraft_MissingDates(t *testing.T) {
	draft := validDraft()
	draft.StartDate = time.Time{}
	draft.EndDate = time.Time{}

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "required", result.Errors["start_date"])
	assert.Equal(t, "required", result.Errors["end_date"])
	assert.Equal(t, 0.0, result.ChargeableDays)
}

func TestValidateDraft_EndBeforeStart(t *testing.T) {
	draft := validDraft()
	draft.StartDate = date(2025, time.March, 14)
	draft.EndDate = date(2025, time.March, 10)

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "must be after start date", result.Errors["end_date"])
	assert.Equal(t, 0.0, result.ChargeableDays)
}

func TestValidateDraft_Reason(t *testing.T) {
	cases := []struct {
		reason string
		want   string
	}{
		{"", "required"},
		{"   ", "required"},
		{"too short", "must be at least 10 characters"},
		{"a genuinely long enough reason", ""},
	}

	for _, c := range cases {
		draft := validDraft()
		draft.Reason = c.reason

		result := ValidateDraft(draft, permissiveType(), today)

		if c.want == "" {
			assert.NotContains(t, result.Errors, "reason", "reason=%q", c.reason)
		} else {
			assert.Equal(t, c.want, result.Errors["reason"], "reason=%q", c.reason)
		}
	}
}

func TestValidateDraft_MissingLeaveType(t *testing.T) {
	draft := validDraft()
	draft.LeaveTypeID = ""

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "required", result.Errors["leave_type_id"])
}

func TestValidateDraft_HalfDayWithoutPeriod(t *testing.T) {
	draft := validDraft()
	draft.DurationType = DurationHalfDay
	draft.StartHalf = ""

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "required", result.Errors["start_half"])
}

func TestValidateDraft_DurationModeFlags(t *testing.T) {
	restricted := permissiveType()
	restricted.AllowHalfDay = false
	restricted.AllowHourly = false

	half := validDraft()
	half.DurationType = DurationHalfDay
	half.StartHalf = HalfDayAfternoon

	result := ValidateDraft(half, restricted, today)
	assert.Equal(t, "half day not permitted for this leave type", result.Errors["duration_type"])

	hourly := validDraft()
	hourly.DurationType = DurationHourly
	hourly.Hours = 2

	result = ValidateDraft(hourly, restricted, today)
	assert.Equal(t, "hourly leave not permitted for this leave type", result.Errors["duration_type"])

	noFull := permissiveType()
	noFull.AllowFullDay = false

	result = ValidateDraft(validDraft(), noFull, today)
	assert.Equal(t, "full day not permitted for this leave type", result.Errors["duration_type"])
}

func TestValidateDraft_UnknownDurationType(t *testing.T) {
	draft := validDraft()
	draft.DurationType = "weekly"

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Contains(t, result.Errors, "duration_type")
}

func TestValidateDraft_DocumentationRequired(t *testing.T) {
	sick := permissiveType()
	sick.Category = CategorySick
	sick.RequiresDocumentation = true

	draft := validDraft()

	result := ValidateDraft(draft, sick, today)
	assert.Equal(t, "required", result.Errors["documentation"])

	draft.Documentation = "doctor's note attached"
	result = ValidateDraft(draft, sick, today)
	assert.NotContains(t, result.Errors, "documentation")
}

func TestValidateDraft_MaxConsecutiveDays(t *testing.T) {
	short := permissiveType()
	short.MaxConsecutiveDays = 3

	draft := validDraft() // Mon-Fri, 5 weekdays

	result := ValidateDraft(draft, short, today)
	assert.Equal(t, "exceeds maximum consecutive days allowed", result.Errors["end_date"])
	assert.Equal(t, 5.0, result.ChargeableDays)

	// A zero limit means unbounded.
	unbounded := permissiveType()
	unbounded.MaxConsecutiveDays = 0

	result = ValidateDraft(draft, unbounded, today)
	assert.True(t, result.Valid())
}

func TestValidateDraft_CollectsAllErrors(t *testing.T) {
	draft := RequestDraft{
		DurationType: DurationHalfDay,
		Reason:       "short",
	}

	result := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, "required", result.Errors["leave_type_id"])
	assert.Equal(t, "required", result.Errors["start_date"])
	assert.Equal(t, "required", result.Errors["end_date"])
	assert.Equal(t, "must be at least 10 characters", result.Errors["reason"])
	assert.Equal(t, "required", result.Errors["start_half"])
}

func TestValidateDraft_Idempotent(t *testing.T) {
	draft := validDraft()
	draft.DurationType = DurationHalfDay
	draft.StartHalf = HalfDayMorning

	first := ValidateDraft(draft, permissiveType(), today)
	second := ValidateDraft(draft, permissiveType(), today)

	assert.Equal(t, first, second)
}

func TestValidateDraft_MonotonicOverEndDate(t *testing.T) {
	draft := validDraft()
	draft.EndDate = draft.StartDate

	prev := ValidateDraft(draft, permissiveType(), today).ChargeableDays
	for i := 1; i <= 21; i++ {
		draft.EndDate = draft.StartDate.AddDate(0, 0, i)
		got := ValidateDraft(draft, permissiveType(), today).ChargeableDays
		assert.GreaterOrEqual(t, got, prev, "end %s", draft.EndDate)
		prev = got
	}
}

func TestCountWeekdays(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"mon-fri", date(2025, time.March, 10), date(2025, time.March, 14), 5},
		{"sat only", date(2025, time.March, 15), date(2025, time.March, 15), 0},
		{"sun only", date(2025, time.March, 16), date(2025, time.March, 16), 0},
		{"fri-mon spans weekend", date(2025, time.March, 14), date(2025, time.March, 17), 2},
		{"two full weeks", date(2025, time.March, 10), date(2025, time.March, 23), 10},
		{"inverted range", date(2025, time.March, 14), date(2025, time.March, 10), 0},
		{"zero start", time.Time{}, date(2025, time.March, 14), 0},
		{"zero end", date(2025, time.March, 10), time.Time{}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CountWeekdays(c.start, c.end))
		})
	}
}
