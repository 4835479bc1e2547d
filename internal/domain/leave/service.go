package leave

import "context"

type LeaveService interface {
	// Types
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) error
	GetLeaveType(ctx context.Context, id string) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context, activeOnly bool) ([]LeaveTypeResponse, error)
	DeactivateLeaveType(ctx context.Context, id string) error

	// Requests
	PreviewDraft(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ModifyLeaveRequest(ctx context.Context, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, requestID, approverUserID string, comments *string) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, req RejectRequestRequest, rejectorUserID string) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, requestID, userID string, isHR bool, comments *string) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter RequestFilter) (ListLeaveRequestResponse, error)
	ListPendingRequests(ctx context.Context) ([]LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, employeeID string, status *LeaveRequestStatus) ([]LeaveRequestResponse, error)
	GetAuditTrail(ctx context.Context, requestID string) ([]LeaveAuditResponse, error)

	// Balances
	GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error)
	ListBalances(ctx context.Context, year int) ([]LeaveBalanceResponse, error)
	InitializeBalances(ctx context.Context, employeeID string, year int) error
	CarryForwardBalances(ctx context.Context, fromYear int) error
}
