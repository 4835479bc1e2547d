package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/employee"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/domain/user"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
	"github.com/leavehq/leave-backend-go/internal/pkg/email"
	"github.com/leavehq/leave-backend-go/internal/pkg/validator"
	"github.com/leavehq/leave-backend-go/internal/repository/postgresql"
)

// RequestService owns the leave request lifecycle: submission, modification
// while pending, and the pending -> approved/rejected/cancelled transitions.
// Every transition writes an audit row and adjusts the balance in the same
// transaction.
type RequestService struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	leave.LeaveAuditRepository
	employee.EmployeeRepository
	user.UserRepository
	balanceService *BalanceService
	dayCounter     *DayCounter
	emailService   email.EmailService
}

func NewRequestService(
	db *database.DB,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	leaveAuditRepository leave.LeaveAuditRepository,
	employeeRepository employee.EmployeeRepository,
	userRepository user.UserRepository,
	balanceService *BalanceService,
	dayCounter *DayCounter,
	emailService email.EmailService,
) *RequestService {
	return &RequestService{
		db:                     db,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		LeaveAuditRepository:   leaveAuditRepository,
		EmployeeRepository:     employeeRepository,
		UserRepository:         userRepository,
		balanceService:         balanceService,
		dayCounter:             dayCounter,
		emailService:           emailService,
	}
}

// draftErrors converts the map produced by draft validation into the
// ValidationErrors the HTTP layer renders as a 422, in stable field order.
func draftErrors(errs map[string]string) validator.ValidationErrors {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make(validator.ValidationErrors, 0, len(errs))
	for _, f := range fields {
		out = append(out, validator.ValidationError{Field: f, Message: errs[f]})
	}
	return out
}

func (s *RequestService) getLeaveType(ctx context.Context, id string) (leave.LeaveType, error) {
	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return leaveType, nil
}

// canExceedBalance reports whether the draft may be charged beyond the
// available balance. Sick leave additionally requires a medical proof
// attachment before the type's exemption applies.
func canExceedBalance(leaveType leave.LeaveType, draft leave.RequestDraft) bool {
	if !leaveType.CanExceedBalance {
		return false
	}
	if leaveType.Category == leave.CategorySick && draft.MedicalProof == "" {
		return false
	}
	return true
}

func (s *RequestService) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return leave.LeaveRequest{}, employee.ErrEmployeeInactive
	}
	if onProbation(emp, time.Now()) {
		return leave.LeaveRequest{}, leave.ErrEmployeeOnProbation
	}

	leaveType, err := s.getLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveRequest{}, leave.ErrLeaveTypeInactive
	}

	draft := req.ToDraft()
	result := leave.ValidateDraft(draft, leaveType, time.Now())
	if !result.Valid() {
		return leave.LeaveRequest{}, draftErrors(result.Errors)
	}
	if err := withinCurrentYear(draft, time.Now()); err != nil {
		return leave.LeaveRequest{}, err
	}

	hasOverlap, err := s.LeaveRequestRepository.HasOverlapping(ctx, emp.ID, draft.StartDate, draft.EndDate, nil)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if hasOverlap {
		return leave.LeaveRequest{}, leave.ErrOverlappingRequest
	}

	// Submission charges holiday-aware working days, not the raw preview
	// count.
	chargeable, err := s.dayCounter.ChargeableDays(ctx, draft)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	year := draft.StartDate.Year()
	balance, err := s.balanceService.GetByEmployeeTypeYear(ctx, emp.ID, leaveType.ID, year)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, fmt.Errorf("failed to get leave balance: %w", err)
		}
		return leave.LeaveRequest{}, leave.ErrBalanceNotFound
	}
	if chargeable > balance.AvailableDays && !canExceedBalance(leaveType, draft) {
		return leave.LeaveRequest{}, leave.ErrInsufficientBalance
	}

	request := leave.LeaveRequest{
		EmployeeID:   emp.ID,
		LeaveTypeID:  leaveType.ID,
		StartDate:    draft.StartDate,
		EndDate:      draft.EndDate,
		DurationType: draft.DurationType,
		Hours:        req.Hours,
		NumberOfDays: chargeable,
		Reason:       draft.Reason,
		MedicalProof: req.MedicalProof,
		Status:       leave.StatusPending,
	}
	if req.StartHalf != nil {
		half := leave.HalfDayPeriod(*req.StartHalf)
		request.StartHalf = &half
	}
	if req.Documentation != nil {
		request.Documentation = req.Documentation
	}

	autoApprove := !leaveType.RequiresApproval

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err := s.LeaveRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		request = created

		pending := string(leave.StatusPending)
		audit := leave.LeaveAudit{
			LeaveRequestID: request.ID,
			Action:         leave.AuditCreated,
			PerformedByID:  emp.UserID,
			NewStatus:      &pending,
		}
		if err := s.LeaveAuditRepository.Create(txCtx, audit); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		if autoApprove {
			now := time.Now()
			approved := leave.StatusApproved
			update := leave.StatusUpdate{
				ID:         request.ID,
				Status:     approved,
				ApprovedAt: &now,
			}
			if err := s.LeaveRequestRepository.UpdateStatus(txCtx, update); err != nil {
				return fmt.Errorf("failed to auto-approve leave request: %w", err)
			}
			request.Status = approved
			request.ApprovedAt = &now

			approvedStr := string(approved)
			audit := leave.LeaveAudit{
				LeaveRequestID: request.ID,
				Action:         leave.AuditApproved,
				PerformedByID:  emp.UserID,
				OldStatus:      &pending,
				NewStatus:      &approvedStr,
			}
			if err := s.LeaveAuditRepository.Create(txCtx, audit); err != nil {
				return fmt.Errorf("failed to create audit record: %w", err)
			}
			return s.balanceService.chargeUsed(txCtx, emp.ID, leaveType.ID, year, chargeable)
		}

		return s.balanceService.addPending(txCtx, emp.ID, leaveType.ID, year, chargeable)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.EmployeeName = strptr(emp.FullName())
	request.LeaveTypeName = &leaveType.Name

	if !autoApprove {
		s.notifyHR(ctx, emp, leaveType, request)
	}

	return request, nil
}

func (s *RequestService) Modify(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.EmployeeID != req.EmployeeID {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if onProbation(emp, time.Now()) {
		return leave.LeaveRequest{}, leave.ErrEmployeeOnProbation
	}

	leaveType, err := s.getLeaveType(ctx, request.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	previousDays := request.NumberOfDays
	applyRequestPatch(&request, req)

	draft := draftFromRequest(request)
	result := leave.ValidateDraft(draft, leaveType, time.Now())
	if !result.Valid() {
		return leave.LeaveRequest{}, draftErrors(result.Errors)
	}
	if err := withinCurrentYear(draft, time.Now()); err != nil {
		return leave.LeaveRequest{}, err
	}

	hasOverlap, err := s.LeaveRequestRepository.HasOverlapping(ctx, request.EmployeeID, request.StartDate, request.EndDate, &request.ID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if hasOverlap {
		return leave.LeaveRequest{}, leave.ErrOverlappingRequest
	}

	chargeable, err := s.dayCounter.ChargeableDays(ctx, draft)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	request.NumberOfDays = chargeable

	year := request.StartDate.Year()
	balance, err := s.balanceService.GetByEmployeeTypeYear(ctx, request.EmployeeID, leaveType.ID, year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if chargeable-previousDays > balance.AvailableDays && !canExceedBalance(leaveType, draft) {
		return leave.LeaveRequest{}, leave.ErrInsufficientBalance
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.LeaveRequestRepository.UpdateDraft(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		pending := string(leave.StatusPending)
		audit := leave.LeaveAudit{
			LeaveRequestID: request.ID,
			Action:         leave.AuditModified,
			PerformedByID:  performedBy(ctx, request.EmployeeID),
			OldStatus:      &pending,
			NewStatus:      &pending,
		}
		if err := s.LeaveAuditRepository.Create(txCtx, audit); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		return s.balanceService.addPending(txCtx, request.EmployeeID, leaveType.ID, year, chargeable-previousDays)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (s *RequestService) Approve(ctx context.Context, requestID, approverUserID string, comments *string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
	}

	now := time.Now()
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		update := leave.StatusUpdate{
			ID:           request.ID,
			Status:       leave.StatusApproved,
			ApprovedByID: &approverUserID,
			ApprovedAt:   &now,
		}
		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, update); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		pending := string(leave.StatusPending)
		approved := string(leave.StatusApproved)
		audit := leave.LeaveAudit{
			LeaveRequestID: request.ID,
			Action:         leave.AuditApproved,
			PerformedByID:  approverUserID,
			OldStatus:      &pending,
			NewStatus:      &approved,
			Comments:       comments,
		}
		if err := s.LeaveAuditRepository.Create(txCtx, audit); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		return s.balanceService.commitPending(txCtx, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year(), request.NumberOfDays)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.Status = leave.StatusApproved
	request.ApprovedByID = &approverUserID
	request.ApprovedAt = &now

	s.notifyEmployee(ctx, request, "approved", nil)

	return request, nil
}

func (s *RequestService) Reject(ctx context.Context, req leave.RejectRequestRequest, rejectorUserID string) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		update := leave.StatusUpdate{
			ID:              request.ID,
			Status:          leave.StatusRejected,
			RejectionReason: &req.RejectionReason,
		}
		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, update); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		pending := string(leave.StatusPending)
		rejected := string(leave.StatusRejected)
		audit := leave.LeaveAudit{
			LeaveRequestID: request.ID,
			Action:         leave.AuditRejected,
			PerformedByID:  rejectorUserID,
			OldStatus:      &pending,
			NewStatus:      &rejected,
			Comments:       &req.RejectionReason,
		}
		if err := s.LeaveAuditRepository.Create(txCtx, audit); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		return s.balanceService.addPending(txCtx, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year(), -request.NumberOfDays)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.Status = leave.StatusRejected
	request.RejectionReason = &req.RejectionReason

	s.notifyEmployee(ctx, request, "rejected", &req.RejectionReason)

	return request, nil
}

// Cancel withdraws a request. Employees may cancel their own pending or
// approved requests; HR may cancel anyone's. Cancelling an approved request
// refunds used days, cancelling a pending one releases the pending hold.
func (s *RequestService) Cancel(ctx context.Context, requestID, userID string, isHR bool, comments *string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if !isHR {
		emp, err := s.EmployeeRepository.GetByUserID(ctx, userID)
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
		}
		if request.EmployeeID != emp.ID {
			return leave.LeaveRequest{}, leave.ErrNotRequestOwner
		}
	}

	if request.Status != leave.StatusPending && request.Status != leave.StatusApproved {
		return leave.LeaveRequest{}, leave.ErrNotCancellable
	}

	oldStatus := request.Status
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		update := leave.StatusUpdate{
			ID:     request.ID,
			Status: leave.StatusCancelled,
		}
		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, update); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		old := string(oldStatus)
		cancelled := string(leave.StatusCancelled)
		audit := leave.LeaveAudit{
			LeaveRequestID: request.ID,
			Action:         leave.AuditCancelled,
			PerformedByID:  userID,
			OldStatus:      &old,
			NewStatus:      &cancelled,
			Comments:       comments,
		}
		if err := s.LeaveAuditRepository.Create(txCtx, audit); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		year := request.StartDate.Year()
		if oldStatus == leave.StatusApproved {
			return s.balanceService.refundUsed(txCtx, request.EmployeeID, request.LeaveTypeID, year, request.NumberOfDays)
		}
		return s.balanceService.addPending(txCtx, request.EmployeeID, request.LeaveTypeID, year, -request.NumberOfDays)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.Status = leave.StatusCancelled
	return request, nil
}

// applyRequestPatch overlays the optional fields of an update onto the
// stored request. Dates arrive pre-validated as YYYY-MM-DD.
func applyRequestPatch(request *leave.LeaveRequest, req leave.UpdateLeaveRequestRequest) {
	if req.StartDate != nil {
		if t, ok := validator.IsValidDate(*req.StartDate); ok {
			request.StartDate = t
		}
	}
	if req.EndDate != nil {
		if t, ok := validator.IsValidDate(*req.EndDate); ok {
			request.EndDate = t
		}
	}
	if req.DurationType != nil {
		request.DurationType = leave.DurationType(*req.DurationType)
	}
	if req.StartHalf != nil {
		half := leave.HalfDayPeriod(*req.StartHalf)
		request.StartHalf = &half
	}
	if req.Hours != nil {
		request.Hours = req.Hours
	}
	if req.Reason != nil {
		request.Reason = *req.Reason
	}
	if req.Documentation != nil {
		request.Documentation = req.Documentation
	}
}

func draftFromRequest(request leave.LeaveRequest) leave.RequestDraft {
	draft := leave.RequestDraft{
		LeaveTypeID:  request.LeaveTypeID,
		StartDate:    request.StartDate,
		EndDate:      request.EndDate,
		DurationType: request.DurationType,
		Reason:       request.Reason,
	}
	if request.StartHalf != nil {
		draft.StartHalf = *request.StartHalf
	}
	if request.Hours != nil {
		draft.Hours = *request.Hours
	}
	if request.Documentation != nil {
		draft.Documentation = *request.Documentation
	}
	if request.MedicalProof != nil {
		draft.MedicalProof = *request.MedicalProof
	}
	return draft
}

const probationDays = 90

// onProbation reports whether the employee is still inside the probation
// window following their hire date. No leave may be requested until it ends.
func onProbation(emp employee.Employee, today time.Time) bool {
	if emp.HireDate.IsZero() {
		return false
	}
	probationEnd := dateOnly(emp.HireDate).AddDate(0, 0, probationDays)
	return !dateOnly(today).After(probationEnd)
}

// withinCurrentYear rejects drafts whose dates leave the current calendar
// year. Next year's requests open once balances for that year exist.
func withinCurrentYear(draft leave.RequestDraft, today time.Time) error {
	if draft.StartDate.Year() != today.Year() || draft.EndDate.Year() != today.Year() {
		return leave.ErrOutsideCurrentYear
	}
	return nil
}

func performedBy(ctx context.Context, fallback string) string {
	if userID, ok := ctx.Value("user_id").(string); ok && userID != "" {
		return userID
	}
	return fallback
}

func strptr(s string) *string {
	return &s
}

// notifyHR emails every HR user about a new pending request. Delivery
// failures are logged, never surfaced to the requester.
func (s *RequestService) notifyHR(ctx context.Context, emp employee.Employee, leaveType leave.LeaveType, request leave.LeaveRequest) {
	hrUsers, err := s.UserRepository.ListByRole(ctx, user.RoleHR)
	if err != nil {
		slog.Error("Failed to list HR users for notification", "error", err)
		return
	}

	for _, hr := range hrUsers {
		err := s.emailService.SendLeaveRequestSubmitted(
			hr.Email,
			emp.FullName(),
			leaveType.Name,
			request.StartDate.Format("2006-01-02"),
			request.EndDate.Format("2006-01-02"),
			request.NumberOfDays,
		)
		if err != nil {
			slog.Error("Failed to send leave request notification", "to", hr.Email, "error", err)
		}
	}
}

func (s *RequestService) notifyEmployee(ctx context.Context, request leave.LeaveRequest, decision string, rejectionReason *string) {
	emp, err := s.EmployeeRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		slog.Error("Failed to get employee for notification", "error", err)
		return
	}
	if emp.Email == nil {
		return
	}

	leaveTypeName := request.LeaveTypeID
	if request.LeaveTypeName != nil {
		leaveTypeName = *request.LeaveTypeName
	}

	err = s.emailService.SendLeaveDecision(
		*emp.Email,
		emp.FullName(),
		leaveTypeName,
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"),
		decision,
		rejectionReason,
	)
	if err != nil {
		slog.Error("Failed to send leave decision notification", "to", *emp.Email, "error", err)
	}
}
