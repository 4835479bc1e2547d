package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByName(ctx context.Context, name string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, req UpdateLeaveTypeRequest) error
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	GetByEmployeeID(ctx context.Context, employeeID string, status *LeaveRequestStatus) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status LeaveRequestStatus) ([]LeaveRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int64, error)
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeRequestID *string) (bool, error)
	UpdateStatus(ctx context.Context, req StatusUpdate) error
	UpdateDraft(ctx context.Context, request LeaveRequest) error
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	ListByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	Update(ctx context.Context, balance LeaveBalance) error
}

// LeaveAuditRepository - interface for leave_request_audits table
type LeaveAuditRepository interface {
	Create(ctx context.Context, audit LeaveAudit) error
	GetByRequestID(ctx context.Context, leaveRequestID string) ([]LeaveAudit, error)
}

// StatusUpdate carries one request transition for persistence.
type StatusUpdate struct {
	ID              string
	Status          LeaveRequestStatus
	ApprovedByID    *string
	ApprovedAt      *time.Time
	RejectionReason *string
}

// RequestFilter narrows HR-side request listings.
type RequestFilter struct {
	EmployeeID  *string
	LeaveTypeID *string
	Status      *LeaveRequestStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}
