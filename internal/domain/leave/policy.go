package leave

import (
	"strings"
	"time"
)

// RequestDraft is the transient input to draft validation. A zero StartDate
// or EndDate means the field was not supplied.
type RequestDraft struct {
	LeaveTypeID   string
	StartDate     time.Time
	EndDate       time.Time
	DurationType  DurationType
	StartHalf     HalfDayPeriod
	Hours         float64
	Reason        string
	Documentation string
	MedicalProof  string
}

// DraftResult carries the computed chargeable day count together with any
// per-field validation messages. ChargeableDays is populated even when
// Errors is non-empty so callers can render a live preview; a result with
// errors must not be submitted.
type DraftResult struct {
	ChargeableDays float64
	Errors         map[string]string
}

// Valid reports whether the draft passed every validation rule.
func (r DraftResult) Valid() bool {
	return len(r.Errors) == 0
}

const (
	minReasonLength = 10
	hoursPerDay     = 8
)

// ValidateDraft checks a request draft against its leave type configuration
// and computes the chargeable day count. The caller guarantees leaveType is
// the configuration referenced by draft.LeaveTypeID. The current date is
// injected so the function stays deterministic.
//
// All rules are evaluated independently and every applicable error is
// collected; the function never returns an error value.
func ValidateDraft(draft RequestDraft, leaveType LeaveType, today time.Time) DraftResult {
	errs := make(map[string]string)

	if strings.TrimSpace(draft.LeaveTypeID) == "" {
		errs["leave_type_id"] = "required"
	}

	start := dateOnly(draft.StartDate)
	end := dateOnly(draft.EndDate)

	switch {
	case draft.StartDate.IsZero():
		errs["start_date"] = "required"
	case start.Before(dateOnly(today)):
		errs["start_date"] = "cannot be in the past"
	}

	switch {
	case draft.EndDate.IsZero():
		errs["end_date"] = "required"
	case !draft.StartDate.IsZero() && end.Before(start):
		errs["end_date"] = "must be after start date"
	}

	reason := strings.TrimSpace(draft.Reason)
	switch {
	case reason == "":
		errs["reason"] = "required"
	case len(reason) < minReasonLength:
		errs["reason"] = "must be at least 10 characters"
	}

	switch draft.DurationType {
	case DurationFullDay:
		if !leaveType.AllowFullDay {
			errs["duration_type"] = "full day not permitted for this leave type"
		}
	case DurationHalfDay:
		if draft.StartHalf != HalfDayMorning && draft.StartHalf != HalfDayAfternoon {
			errs["start_half"] = "required"
		}
		if !leaveType.AllowHalfDay {
			errs["duration_type"] = "half day not permitted for this leave type"
		}
	case DurationHourly:
		if draft.Hours <= 0 || draft.Hours > hoursPerDay {
			errs["hours"] = "must be between 1 and 8"
		}
		if !leaveType.AllowHourly {
			errs["duration_type"] = "hourly leave not permitted for this leave type"
		}
	default:
		errs["duration_type"] = "must be one of full_day, half_day, hourly"
	}

	if leaveType.RequiresDocumentation && strings.TrimSpace(draft.Documentation) == "" {
		errs["documentation"] = "required"
	}

	weekdays := CountWeekdays(draft.StartDate, draft.EndDate)

	if leaveType.MaxConsecutiveDays > 0 && weekdays > leaveType.MaxConsecutiveDays {
		errs["end_date"] = "exceeds maximum consecutive days allowed"
	}

	var chargeable float64
	switch draft.DurationType {
	case DurationHalfDay:
		chargeable = float64(weekdays) * 0.5
	case DurationHourly:
		// Hourly leave is charged from the hour count alone; the date range
		// is not consulted. Matches the legacy calculator.
		chargeable = draft.Hours / hoursPerDay
		if chargeable < 0 {
			chargeable = 0
		}
	default:
		chargeable = float64(weekdays)
	}

	return DraftResult{ChargeableDays: chargeable, Errors: errs}
}

// CountWeekdays walks the inclusive date range and counts days falling on
// Monday through Friday. An empty or inverted range counts zero.
func CountWeekdays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	count := 0
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			count++
		}
	}
	return count
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
