package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	leave.LeaveBalanceRepository
	leave.LeaveAuditRepository
	balanceService *BalanceService
	requestService *RequestService
	dayCounter     *DayCounter
}

func NewLeaveService(
	db *database.DB,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveAuditRepository leave.LeaveAuditRepository,
	balanceService *BalanceService,
	requestService *RequestService,
	dayCounter *DayCounter,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:                     db,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		LeaveAuditRepository:   leaveAuditRepository,
		balanceService:         balanceService,
		requestService:         requestService,
		dayCounter:             dayCounter,
	}
}

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	_, err := l.LeaveTypeRepository.GetByName(ctx, req.Name)
	if err == nil {
		return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNameExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to check leave type name: %w", err)
	}

	created, err := l.LeaveTypeRepository.Create(ctx, req.ToEntity())
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leave.NewLeaveTypeResponse(created), nil
}

// UpdateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveTypeNotFound
		}
		return fmt.Errorf("failed to get leave type: %w", err)
	}

	if req.Name != nil && *req.Name != existing.Name {
		_, err := l.LeaveTypeRepository.GetByName(ctx, *req.Name)
		if err == nil {
			return leave.ErrLeaveTypeNameExists
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to check leave type name: %w", err)
		}
	}

	if err := l.LeaveTypeRepository.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	return nil
}

// GetLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveType(ctx context.Context, id string) (leave.LeaveTypeResponse, error) {
	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return leave.NewLeaveTypeResponse(leaveType), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, activeOnly bool) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, leave.NewLeaveTypeResponse(lt))
	}
	return responses, nil
}

// DeactivateLeaveType implements leave.LeaveService. Types with history are
// never deleted, only hidden from new requests.
func (l *LeaveServiceImpl) DeactivateLeaveType(ctx context.Context, id string) error {
	_, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveTypeNotFound
		}
		return fmt.Errorf("failed to get leave type: %w", err)
	}

	inactive := false
	update := leave.UpdateLeaveTypeRequest{ID: id, IsActive: &inactive}
	if err := l.LeaveTypeRepository.Update(ctx, update); err != nil {
		return fmt.Errorf("failed to deactivate leave type: %w", err)
	}
	return nil
}

// PreviewDraft implements leave.LeaveService. The preview never fails
// validation as an error; field problems are carried in the response so the
// client can render them alongside the running day count.
func (l *LeaveServiceImpl) PreviewDraft(ctx context.Context, req leave.PreviewRequest) (leave.PreviewResponse, error) {
	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.PreviewResponse{}, leave.ErrLeaveTypeNotFound
		}
		return leave.PreviewResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	result := leave.ValidateDraft(req.ToDraft(), leaveType, time.Now())
	return leave.PreviewResponse{
		ChargeableDays: result.ChargeableDays,
		Valid:          result.Valid(),
		Errors:         result.Errors,
	}, nil
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Create(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ModifyLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ModifyLeaveRequest(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Modify(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, requestID, approverUserID string, comments *string) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Approve(ctx, requestID, approverUserID, comments)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, req leave.RejectRequestRequest, rejectorUserID string) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Reject(ctx, req, rejectorUserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// CancelLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, requestID, userID string, isHR bool, comments *string) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Cancel(ctx, requestID, userID, isHR, comments)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.RequestFilter) (leave.ListLeaveRequestResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   responses,
	}, nil
}

// ListPendingRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListPendingRequests(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.LeaveRequestRepository.ListByStatus(ctx, leave.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// ListMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.LeaveRequestRepository.GetByEmployeeID(ctx, employeeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// GetAuditTrail implements leave.LeaveService.
func (l *LeaveServiceImpl) GetAuditTrail(ctx context.Context, requestID string) ([]leave.LeaveAuditResponse, error) {
	_, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrLeaveRequestNotFound
		}
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}

	audits, err := l.LeaveAuditRepository.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit trail: %w", err)
	}

	responses := make([]leave.LeaveAuditResponse, 0, len(audits))
	for _, a := range audits {
		responses = append(responses, leave.NewLeaveAuditResponse(a))
	}
	return responses, nil
}

// GetBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	balances, err := l.LeaveBalanceRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(b))
	}
	return responses, nil
}

// ListBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, year int) ([]leave.LeaveBalanceResponse, error) {
	balances, err := l.LeaveBalanceRepository.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(b))
	}
	return responses, nil
}

// InitializeBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) InitializeBalances(ctx context.Context, employeeID string, year int) error {
	return l.balanceService.Initialize(ctx, employeeID, year)
}

// CarryForwardBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) CarryForwardBalances(ctx context.Context, fromYear int) error {
	return l.balanceService.CarryForward(ctx, fromYear)
}
