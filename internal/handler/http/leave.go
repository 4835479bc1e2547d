package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/domain/user"
	"github.com/leavehq/leave-backend-go/internal/handler/http/response"
	"github.com/leavehq/leave-backend-go/internal/pkg/validator"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	DeactivateType(w http.ResponseWriter, r *http.Request)

	PreviewRequest(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	ListPendingRequests(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetAuditTrail(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalances(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
	InitializeBalances(w http.ResponseWriter, r *http.Request)
	CarryForwardBalances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

func userIdentity(r *http.Request) (userID string, isHR bool) {
	userID, _ = r.Context().Value("user_id").(string)
	role, _ := r.Context().Value("user_role").(string)
	return userID, user.Role(role).IsHR()
}

func employeeIdentity(r *http.Request) string {
	employeeID, _ := r.Context().Value("employee_id").(string)
	return employeeID
}

func yearParam(r *http.Request) int {
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		return y
	}
	return time.Now().Year()
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := l.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", created)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := l.leaveService.UpdateLeaveType(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", nil)
}

// GetType implements LeaveHandler.
func (l *LeaveHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	leaveType, err := l.leaveService.GetLeaveType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveType)
}

// ListTypes implements LeaveHandler. Employees only see active types; HR may
// request the full list with ?include_inactive=true.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	_, isHR := userIdentity(r)
	activeOnly := true
	if isHR && r.URL.Query().Get("include_inactive") == "true" {
		activeOnly = false
	}

	types, err := l.leaveService.ListLeaveTypes(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

// DeactivateType implements LeaveHandler.
func (l *LeaveHandlerImpl) DeactivateType(w http.ResponseWriter, r *http.Request) {
	if err := l.leaveService.DeactivateLeaveType(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type deactivated successfully", nil)
}

// PreviewRequest implements LeaveHandler. Drives the live duration preview
// while the request form is being filled in.
func (l *LeaveHandlerImpl) PreviewRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.PreviewRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PreviewRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	preview, err := l.leaveService.PreviewDraft(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.EmployeeID = employeeIdentity(r)
	if req.EmployeeID == "" {
		response.Forbidden(w, "No employee profile linked to this account")
		return
	}

	created, err := l.leaveService.CreateLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.ID = chi.URLParam(r, "id")
	req.EmployeeID = employeeIdentity(r)
	if req.EmployeeID == "" {
		response.Forbidden(w, "No employee profile linked to this account")
		return
	}

	updated, err := l.leaveService.ModifyLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", updated)
}

type decisionBody struct {
	Comments *string `json:"comments,omitempty"`
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	// Body is optional
	_ = json.NewDecoder(r.Body).Decode(&body)

	userID, _ := userIdentity(r)
	approved, err := l.leaveService.ApproveLeaveRequest(r.Context(), chi.URLParam(r, "id"), userID, body.Comments)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", approved)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	userID, _ := userIdentity(r)
	rejected, err := l.leaveService.RejectLeaveRequest(r.Context(), req, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", rejected)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	_ = json.NewDecoder(r.Body).Decode(&body)

	userID, isHR := userIdentity(r)
	cancelled, err := l.leaveService.CancelLeaveRequest(r.Context(), chi.URLParam(r, "id"), userID, isHR, body.Comments)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", cancelled)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := l.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Employees may only read their own requests
	_, isHR := userIdentity(r)
	if !isHR && request.EmployeeID != employeeIdentity(r) {
		response.HandleError(w, leave.ErrNotRequestOwner)
		return
	}

	response.Success(w, request)
}

// ListRequests implements LeaveHandler. HR-wide listing with filters.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := leave.RequestFilter{}

	if v := query.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := query.Get("leave_type_id"); v != "" {
		filter.LeaveTypeID = &v
	}
	if v := query.Get("status"); v != "" {
		status := leave.LeaveRequestStatus(v)
		filter.Status = &status
	}
	if v := query.Get("start_date"); v != "" {
		if t, ok := validator.IsValidDate(v); ok {
			filter.StartDate = &t
		}
	}
	if v := query.Get("end_date"); v != "" {
		if t, ok := validator.IsValidDate(v); ok {
			filter.EndDate = &t
		}
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))

	list, err := l.leaveService.ListLeaveRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((list.TotalCount + int64(list.Limit) - 1) / int64(list.Limit))
	response.SuccessWithMeta(w, list.Requests, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: totalPages,
	})
}

// ListPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := l.leaveService.ListPendingRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := employeeIdentity(r)
	if employeeID == "" {
		response.Forbidden(w, "No employee profile linked to this account")
		return
	}

	var status *leave.LeaveRequestStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := leave.LeaveRequestStatus(v)
		status = &s
	}

	requests, err := l.leaveService.ListMyRequests(r.Context(), employeeID, status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetAuditTrail implements LeaveHandler.
func (l *LeaveHandlerImpl) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	audits, err := l.leaveService.GetAuditTrail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, audits)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := employeeIdentity(r)
	if employeeID == "" {
		response.Forbidden(w, "No employee profile linked to this account")
		return
	}

	balances, err := l.leaveService.GetBalances(r.Context(), employeeID, yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetEmployeeBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := l.leaveService.GetBalances(r.Context(), chi.URLParam(r, "id"), yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := l.leaveService.ListBalances(r.Context(), yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// InitializeBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) InitializeBalances(w http.ResponseWriter, r *http.Request) {
	if err := l.leaveService.InitializeBalances(r.Context(), chi.URLParam(r, "id"), yearParam(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances initialized", nil)
}

// CarryForwardBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) CarryForwardBalances(w http.ResponseWriter, r *http.Request) {
	fromYear, err := strconv.Atoi(r.URL.Query().Get("from_year"))
	if err != nil || fromYear <= 0 {
		fromYear = time.Now().Year() - 1
	}

	if err := l.leaveService.CarryForwardBalances(r.Context(), fromYear); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances carried forward", nil)
}
