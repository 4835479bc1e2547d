package leave

import (
	"time"

	"github.com/leavehq/leave-backend-go/internal/pkg/validator"
)

var categories = []string{
	string(CategoryCasual), string(CategorySick), string(CategoryPaid),
	string(CategoryUnpaid), string(CategoryMaternity), string(CategoryPaternity),
	string(CategoryBereavement), string(CategoryEarned),
}

var durationTypes = []string{
	string(DurationFullDay), string(DurationHalfDay), string(DurationHourly),
}

type CreateLeaveTypeRequest struct {
	Name                  string  `json:"name"`
	Description           *string `json:"description,omitempty"`
	Category              string  `json:"category"`
	DefaultBalance        int     `json:"default_balance"`
	AllowCarryForward     bool    `json:"allow_carry_forward"`
	MaxCarryForward       int     `json:"max_carry_forward"`
	ColorCode             *string `json:"color_code,omitempty"`
	AllowFullDay          *bool   `json:"allow_full_day,omitempty"`
	AllowHalfDay          *bool   `json:"allow_half_day,omitempty"`
	AllowHourly           *bool   `json:"allow_hourly,omitempty"`
	MaxConsecutiveDays    *int    `json:"max_consecutive_days,omitempty"`
	RequiresApproval      *bool   `json:"requires_approval,omitempty"`
	CanExceedBalance      bool    `json:"can_exceed_balance"`
	RequiresDocumentation bool    `json:"requires_documentation"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if !validator.IsInSlice(r.Category, categories) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is not a recognized leave category",
		})
	}

	if r.DefaultBalance < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_balance",
			Message: "default_balance must not be negative",
		})
	}

	if r.MaxCarryForward < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_carry_forward",
			Message: "max_carry_forward must not be negative",
		})
	}

	if r.MaxConsecutiveDays != nil && *r.MaxConsecutiveDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_consecutive_days",
			Message: "max_consecutive_days must not be negative",
		})
	}

	if r.ColorCode != nil && !validator.IsValidHexColor(*r.ColorCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "color_code",
			Message: "color_code must be a hex color like #3b82f6",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToEntity applies the original defaults for omitted optional fields.
func (r *CreateLeaveTypeRequest) ToEntity() LeaveType {
	lt := LeaveType{
		Name:                  r.Name,
		Description:           r.Description,
		Category:              LeaveTypeCategory(r.Category),
		DefaultBalance:        r.DefaultBalance,
		AllowCarryForward:     r.AllowCarryForward,
		MaxCarryForward:       r.MaxCarryForward,
		ColorCode:             r.ColorCode,
		IsActive:              true,
		AllowFullDay:          true,
		AllowHalfDay:          true,
		AllowHourly:           false,
		MaxConsecutiveDays:    30,
		RequiresApproval:      true,
		CanExceedBalance:      r.CanExceedBalance,
		RequiresDocumentation: r.RequiresDocumentation,
	}
	if r.AllowFullDay != nil {
		lt.AllowFullDay = *r.AllowFullDay
	}
	if r.AllowHalfDay != nil {
		lt.AllowHalfDay = *r.AllowHalfDay
	}
	if r.AllowHourly != nil {
		lt.AllowHourly = *r.AllowHourly
	}
	if r.MaxConsecutiveDays != nil {
		lt.MaxConsecutiveDays = *r.MaxConsecutiveDays
	}
	if r.RequiresApproval != nil {
		lt.RequiresApproval = *r.RequiresApproval
	}
	return lt
}

type UpdateLeaveTypeRequest struct {
	ID                    string  `json:"-"`
	Name                  *string `json:"name,omitempty"`
	Description           *string `json:"description,omitempty"`
	Category              *string `json:"category,omitempty"`
	DefaultBalance        *int    `json:"default_balance,omitempty"`
	AllowCarryForward     *bool   `json:"allow_carry_forward,omitempty"`
	MaxCarryForward       *int    `json:"max_carry_forward,omitempty"`
	ColorCode             *string `json:"color_code,omitempty"`
	IsActive              *bool   `json:"is_active,omitempty"`
	AllowFullDay          *bool   `json:"allow_full_day,omitempty"`
	AllowHalfDay          *bool   `json:"allow_half_day,omitempty"`
	AllowHourly           *bool   `json:"allow_hourly,omitempty"`
	MaxConsecutiveDays    *int    `json:"max_consecutive_days,omitempty"`
	RequiresApproval      *bool   `json:"requires_approval,omitempty"`
	CanExceedBalance      *bool   `json:"can_exceed_balance,omitempty"`
	RequiresDocumentation *bool   `json:"requires_documentation,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.Category != nil && !validator.IsInSlice(*r.Category, categories) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is not a recognized leave category",
		})
	}

	if r.DefaultBalance != nil && *r.DefaultBalance < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_balance",
			Message: "default_balance must not be negative",
		})
	}

	if r.ColorCode != nil && !validator.IsValidHexColor(*r.ColorCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "color_code",
			Message: "color_code must be a hex color like #3b82f6",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateLeaveRequestRequest is the wire form of a new leave request. Dates
// arrive as "YYYY-MM-DD" strings; Validate only checks wire shape, the
// business rules live in ValidateDraft against the actual leave type.
type CreateLeaveRequestRequest struct {
	EmployeeID    string   `json:"-"`
	LeaveTypeID   string   `json:"leave_type_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DurationType  string   `json:"duration_type"`
	StartHalf     *string  `json:"start_half,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	Reason        string   `json:"reason"`
	MedicalProof  *string  `json:"medical_proof,omitempty"`
	Documentation *string  `json:"documentation,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.StartDate) {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if !validator.IsEmpty(r.EndDate) {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToDraft converts the wire form to the draft value the policy validates.
// Unparseable or absent dates map to the zero time, which the policy
// reports as a missing field.
func (r *CreateLeaveRequestRequest) ToDraft() RequestDraft {
	draft := RequestDraft{
		LeaveTypeID:  r.LeaveTypeID,
		DurationType: DurationType(r.DurationType),
		Reason:       r.Reason,
	}
	if t, ok := validator.IsValidDate(r.StartDate); ok {
		draft.StartDate = t
	}
	if t, ok := validator.IsValidDate(r.EndDate); ok {
		draft.EndDate = t
	}
	if r.StartHalf != nil {
		draft.StartHalf = HalfDayPeriod(*r.StartHalf)
	}
	if r.Hours != nil {
		draft.Hours = *r.Hours
	}
	if r.Documentation != nil {
		draft.Documentation = *r.Documentation
	}
	if r.MedicalProof != nil {
		draft.MedicalProof = *r.MedicalProof
	}
	return draft
}

// UpdateLeaveRequestRequest lets an employee modify their own pending request.
type UpdateLeaveRequestRequest struct {
	ID            string   `json:"-"`
	EmployeeID    string   `json:"-"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
	DurationType  *string  `json:"duration_type,omitempty"`
	StartHalf     *string  `json:"start_half,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	Reason        *string  `json:"reason,omitempty"`
	Documentation *string  `json:"documentation,omitempty"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.DurationType != nil && !validator.IsInSlice(*r.DurationType, durationTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_type",
			Message: "duration_type must be one of full_day, half_day, hourly",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequestRequest struct {
	RequestID       string `json:"-"`
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.RejectionReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PreviewRequest feeds the live duration preview endpoint.
type PreviewRequest struct {
	LeaveTypeID   string   `json:"leave_type_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DurationType  string   `json:"duration_type"`
	StartHalf     *string  `json:"start_half,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	Reason        string   `json:"reason"`
	Documentation *string  `json:"documentation,omitempty"`
}

func (r *PreviewRequest) ToDraft() RequestDraft {
	create := CreateLeaveRequestRequest{
		LeaveTypeID:   r.LeaveTypeID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		DurationType:  r.DurationType,
		StartHalf:     r.StartHalf,
		Hours:         r.Hours,
		Reason:        r.Reason,
		Documentation: r.Documentation,
	}
	return create.ToDraft()
}

// PreviewResponse mirrors DraftResult on the wire.
type PreviewResponse struct {
	ChargeableDays float64           `json:"chargeable_days"`
	Valid          bool              `json:"valid"`
	Errors         map[string]string `json:"errors"`
}

type LeaveTypeResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Description           *string    `json:"description,omitempty"`
	Category              string     `json:"category"`
	ColorCode             *string    `json:"color_code,omitempty"`
	IsActive              bool       `json:"is_active"`
	DefaultBalance        int        `json:"default_balance"`
	AllowCarryForward     bool       `json:"allow_carry_forward"`
	MaxCarryForward       int        `json:"max_carry_forward"`
	AllowFullDay          bool       `json:"allow_full_day"`
	AllowHalfDay          bool       `json:"allow_half_day"`
	AllowHourly           bool       `json:"allow_hourly"`
	MaxConsecutiveDays    int        `json:"max_consecutive_days"`
	RequiresApproval      bool       `json:"requires_approval"`
	CanExceedBalance      bool       `json:"can_exceed_balance"`
	RequiresDocumentation bool       `json:"requires_documentation"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

func NewLeaveTypeResponse(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:                    lt.ID,
		Name:                  lt.Name,
		Description:           lt.Description,
		Category:              string(lt.Category),
		ColorCode:             lt.ColorCode,
		IsActive:              lt.IsActive,
		DefaultBalance:        lt.DefaultBalance,
		AllowCarryForward:     lt.AllowCarryForward,
		MaxCarryForward:       lt.MaxCarryForward,
		AllowFullDay:          lt.AllowFullDay,
		AllowHalfDay:          lt.AllowHalfDay,
		AllowHourly:           lt.AllowHourly,
		MaxConsecutiveDays:    lt.MaxConsecutiveDays,
		RequiresApproval:      lt.RequiresApproval,
		CanExceedBalance:      lt.CanExceedBalance,
		RequiresDocumentation: lt.RequiresDocumentation,
		CreatedAt:             lt.CreatedAt,
	}
	if !lt.UpdatedAt.IsZero() {
		resp.UpdatedAt = &lt.UpdatedAt
	}
	return resp
}

type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    *string    `json:"employee_name,omitempty"`
	LeaveTypeID     string     `json:"leave_type_id"`
	LeaveTypeName   *string    `json:"leave_type_name,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	DurationType    string     `json:"duration_type"`
	StartHalf       *string    `json:"start_half,omitempty"`
	Hours           *float64   `json:"hours,omitempty"`
	NumberOfDays    float64    `json:"number_of_days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApprovedByID    *string    `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	MedicalProof    *string    `json:"medical_proof,omitempty"`
	Documentation   *string    `json:"documentation,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              lr.ID,
		EmployeeID:      lr.EmployeeID,
		EmployeeName:    lr.EmployeeName,
		LeaveTypeID:     lr.LeaveTypeID,
		LeaveTypeName:   lr.LeaveTypeName,
		StartDate:       lr.StartDate.Format("2006-01-02"),
		EndDate:         lr.EndDate.Format("2006-01-02"),
		DurationType:    string(lr.DurationType),
		Hours:           lr.Hours,
		NumberOfDays:    lr.NumberOfDays,
		Reason:          lr.Reason,
		Status:          string(lr.Status),
		ApprovedByID:    lr.ApprovedByID,
		ApprovedAt:      lr.ApprovedAt,
		RejectionReason: lr.RejectionReason,
		MedicalProof:    lr.MedicalProof,
		Documentation:   lr.Documentation,
		CreatedAt:       lr.CreatedAt,
	}
	if lr.StartHalf != nil {
		half := string(*lr.StartHalf)
		resp.StartHalf = &half
	}
	return resp
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

type LeaveBalanceResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	LeaveTypeID        string  `json:"leave_type_id"`
	LeaveTypeName      *string `json:"leave_type_name,omitempty"`
	Year               int     `json:"year"`
	AllocatedDays      float64 `json:"allocated_days"`
	UsedDays           float64 `json:"used_days"`
	PendingDays        float64 `json:"pending_days"`
	CarriedForwardDays float64 `json:"carried_forward_days"`
	AvailableDays      float64 `json:"available_days"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:                 b.ID,
		EmployeeID:         b.EmployeeID,
		EmployeeName:       b.EmployeeName,
		LeaveTypeID:        b.LeaveTypeID,
		LeaveTypeName:      b.LeaveTypeName,
		Year:               b.Year,
		AllocatedDays:      b.AllocatedDays,
		UsedDays:           b.UsedDays,
		PendingDays:        b.PendingDays,
		CarriedForwardDays: b.CarriedForwardDays,
		AvailableDays:      b.AvailableDays,
	}
}

type LeaveAuditResponse struct {
	ID             string    `json:"id"`
	LeaveRequestID string    `json:"leave_request_id"`
	Action         string    `json:"action"`
	PerformedByID  string    `json:"performed_by_id"`
	OldStatus      *string   `json:"old_status,omitempty"`
	NewStatus      *string   `json:"new_status,omitempty"`
	Comments       *string   `json:"comments,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewLeaveAuditResponse(a LeaveAudit) LeaveAuditResponse {
	return LeaveAuditResponse{
		ID:             a.ID,
		LeaveRequestID: a.LeaveRequestID,
		Action:         string(a.Action),
		PerformedByID:  a.PerformedByID,
		OldStatus:      a.OldStatus,
		NewStatus:      a.NewStatus,
		Comments:       a.Comments,
		CreatedAt:      a.CreatedAt,
	}
}
