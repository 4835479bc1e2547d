package leave

import "time"

// LeaveTypeCategory groups leave types for reporting and category-specific
// rules (sick leave may exceed balance with medical proof).
type LeaveTypeCategory string

const (
	CategoryCasual      LeaveTypeCategory = "casual"
	CategorySick        LeaveTypeCategory = "sick"
	CategoryPaid        LeaveTypeCategory = "paid"
	CategoryUnpaid      LeaveTypeCategory = "unpaid"
	CategoryMaternity   LeaveTypeCategory = "maternity"
	CategoryPaternity   LeaveTypeCategory = "paternity"
	CategoryBereavement LeaveTypeCategory = "bereavement"
	CategoryEarned      LeaveTypeCategory = "earned"
)

// LeaveType entity
type LeaveType struct {
	ID          string
	Name        string
	Description *string
	Category    LeaveTypeCategory
	ColorCode   *string
	IsActive    bool

	// Balance rules
	DefaultBalance    int
	AllowCarryForward bool
	MaxCarryForward   int

	// Duration rules
	AllowFullDay       bool
	AllowHalfDay       bool
	AllowHourly        bool
	MaxConsecutiveDays int

	// Workflow rules
	RequiresApproval      bool
	CanExceedBalance      bool
	RequiresDocumentation bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequestStatus string

const (
	StatusPending   LeaveRequestStatus = "pending"
	StatusApproved  LeaveRequestStatus = "approved"
	StatusRejected  LeaveRequestStatus = "rejected"
	StatusCancelled LeaveRequestStatus = "cancelled"
)

// DurationType is the charging granularity of a single request.
type DurationType string

const (
	DurationFullDay DurationType = "full_day"
	DurationHalfDay DurationType = "half_day"
	DurationHourly  DurationType = "hourly"
)

// HalfDayPeriod selects which half of the day a half_day request covers.
type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time

	DurationType DurationType
	StartHalf    *HalfDayPeriod // set iff DurationType == half_day
	Hours        *float64       // set iff DurationType == hourly
	NumberOfDays float64

	Reason        string
	MedicalProof  *string
	Documentation *string

	Status          LeaveRequestStatus
	ApprovedByID    *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields for responses
	EmployeeName  *string
	LeaveTypeName *string
}

// LeaveBalance tracks one employee's allocation for one leave type and year.
// AvailableDays is maintained as allocated - used - pending + carried_forward.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	AllocatedDays      float64
	UsedDays           float64
	PendingDays        float64
	CarriedForwardDays float64
	AvailableDays      float64

	CreatedAt time.Time
	UpdatedAt time.Time

	LeaveTypeName *string
	EmployeeName  *string
}

type AuditAction string

const (
	AuditCreated   AuditAction = "created"
	AuditApproved  AuditAction = "approved"
	AuditRejected  AuditAction = "rejected"
	AuditCancelled AuditAction = "cancelled"
	AuditModified  AuditAction = "modified"
)

// LeaveAudit records one transition of a leave request.
type LeaveAudit struct {
	ID             string
	LeaveRequestID string
	Action         AuditAction
	PerformedByID  string
	OldStatus      *string
	NewStatus      *string
	Comments       *string
	CreatedAt      time.Time
}
