package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehq/leave-backend-go/internal/pkg/validator"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	return errs.ToMap()
}

func TestCreateLeaveTypeRequestValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := CreateLeaveTypeRequest{
			Name:           "Annual Leave",
			Category:       "paid",
			DefaultBalance: 20,
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("missing name and bad category", func(t *testing.T) {
		req := CreateLeaveTypeRequest{Category: "vacation"}
		errs := fieldErrors(t, req.Validate())
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "category")
	})

	t.Run("negative balances rejected", func(t *testing.T) {
		req := CreateLeaveTypeRequest{
			Name:            "Sick Leave",
			Category:        "sick",
			DefaultBalance:  -1,
			MaxCarryForward: -3,
		}
		errs := fieldErrors(t, req.Validate())
		assert.Contains(t, errs, "default_balance")
		assert.Contains(t, errs, "max_carry_forward")
	})

	t.Run("bad color code", func(t *testing.T) {
		color := "blue"
		req := CreateLeaveTypeRequest{Name: "Casual", Category: "casual", ColorCode: &color}
		errs := fieldErrors(t, req.Validate())
		assert.Contains(t, errs, "color_code")
	})
}

func TestCreateLeaveTypeRequestToEntity(t *testing.T) {
	t.Run("applies defaults for omitted fields", func(t *testing.T) {
		req := CreateLeaveTypeRequest{Name: "Annual Leave", Category: "paid", DefaultBalance: 20}
		lt := req.ToEntity()

		assert.True(t, lt.IsActive)
		assert.True(t, lt.AllowFullDay)
		assert.True(t, lt.AllowHalfDay)
		assert.False(t, lt.AllowHourly)
		assert.Equal(t, 30, lt.MaxConsecutiveDays)
		assert.True(t, lt.RequiresApproval)
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		hourly := true
		noApproval := false
		maxDays := 5
		req := CreateLeaveTypeRequest{
			Name:               "Hourly Leave",
			Category:           "casual",
			AllowHourly:        &hourly,
			RequiresApproval:   &noApproval,
			MaxConsecutiveDays: &maxDays,
		}
		lt := req.ToEntity()

		assert.True(t, lt.AllowHourly)
		assert.False(t, lt.RequiresApproval)
		assert.Equal(t, 5, lt.MaxConsecutiveDays)
	})
}

func TestCreateLeaveRequestRequestValidate(t *testing.T) {
	t.Run("well formed dates pass", func(t *testing.T) {
		req := CreateLeaveRequestRequest{StartDate: "2025-03-10", EndDate: "2025-03-14"}
		assert.NoError(t, req.Validate())
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		req := CreateLeaveRequestRequest{StartDate: "10/03/2025", EndDate: "2025-02-30"}
		errs := fieldErrors(t, req.Validate())
		assert.Contains(t, errs, "start_date")
		assert.Contains(t, errs, "end_date")
	})

	t.Run("absent dates are left to draft validation", func(t *testing.T) {
		req := CreateLeaveRequestRequest{}
		assert.NoError(t, req.Validate())
	})
}

func TestCreateLeaveRequestRequestToDraft(t *testing.T) {
	half := "morning"
	hours := 4.0
	doc := "attached.pdf"
	req := CreateLeaveRequestRequest{
		LeaveTypeID:   "lt-1",
		StartDate:     "2025-03-10",
		EndDate:       "2025-03-14",
		DurationType:  "half_day",
		StartHalf:     &half,
		Hours:         &hours,
		Reason:        "family commitments abroad",
		Documentation: &doc,
	}

	draft := req.ToDraft()

	assert.Equal(t, "lt-1", draft.LeaveTypeID)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), draft.StartDate)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), draft.EndDate)
	assert.Equal(t, DurationHalfDay, draft.DurationType)
	assert.Equal(t, HalfDayMorning, draft.StartHalf)
	assert.Equal(t, 4.0, draft.Hours)
	assert.Equal(t, "attached.pdf", draft.Documentation)
}

func TestCreateLeaveRequestRequestToDraftUnparseableDates(t *testing.T) {
	req := CreateLeaveRequestRequest{StartDate: "soon", EndDate: ""}
	draft := req.ToDraft()

	assert.True(t, draft.StartDate.IsZero())
	assert.True(t, draft.EndDate.IsZero())
}

func TestRejectRequestRequestValidate(t *testing.T) {
	req := RejectRequestRequest{RequestID: "req-1"}
	errs := fieldErrors(t, req.Validate())
	assert.Contains(t, errs, "rejection_reason")

	req.RejectionReason = "insufficient coverage that week"
	assert.NoError(t, req.Validate())
}
