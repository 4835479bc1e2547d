package leave

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehq/leave-backend-go/internal/domain/employee"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/domain/user"
)

type stubEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (s *stubEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *stubEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if emp, ok := s.employees[id]; ok {
		return emp, nil
	}
	return employee.Employee{}, pgx.ErrNoRows
}

func (s *stubEmployeeRepo) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	for _, emp := range s.employees {
		if emp.UserID == userID {
			return emp, nil
		}
	}
	return employee.Employee{}, pgx.ErrNoRows
}

func (s *stubEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return employee.Employee{}, pgx.ErrNoRows
}

func (s *stubEmployeeRepo) List(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	return nil, nil
}

func (s *stubEmployeeRepo) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	return nil
}

func (s *stubEmployeeRepo) Deactivate(ctx context.Context, id string) error {
	return nil
}

type stubRequestRepo struct {
	requests map[string]leave.LeaveRequest
}

func (s *stubRequestRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	return request, nil
}

func (s *stubRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if r, ok := s.requests[id]; ok {
		return r, nil
	}
	return leave.LeaveRequest{}, pgx.ErrNoRows
}

func (s *stubRequestRepo) GetByEmployeeID(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (s *stubRequestRepo) ListByStatus(ctx context.Context, status leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (s *stubRequestRepo) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	return nil, 0, nil
}

func (s *stubRequestRepo) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeRequestID *string) (bool, error) {
	return false, nil
}

func (s *stubRequestRepo) UpdateStatus(ctx context.Context, req leave.StatusUpdate) error {
	return nil
}

func (s *stubRequestRepo) UpdateDraft(ctx context.Context, request leave.LeaveRequest) error {
	return nil
}

type stubAuditRepo struct{}

func (s *stubAuditRepo) Create(ctx context.Context, audit leave.LeaveAudit) error {
	return nil
}

func (s *stubAuditRepo) GetByRequestID(ctx context.Context, leaveRequestID string) ([]leave.LeaveAudit, error) {
	return nil, nil
}

type stubUserRepo struct{}

func (s *stubUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, pgx.ErrNoRows
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, pgx.ErrNoRows
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	return nil, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return nil
}

type stubEmailService struct{}

func (s *stubEmailService) SendLeaveRequestSubmitted(to, employeeName, leaveTypeName, startDate, endDate string, numberOfDays float64) error {
	return nil
}

func (s *stubEmailService) SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, decision string, rejectionReason *string) error {
	return nil
}

func casualType() leave.LeaveType {
	return leave.LeaveType{
		ID:                 "lt-casual",
		Name:               "Casual Leave",
		Category:           leave.CategoryCasual,
		IsActive:           true,
		AllowFullDay:       true,
		AllowHalfDay:       true,
		AllowHourly:        true,
		MaxConsecutiveDays: 30,
		RequiresApproval:   true,
		DefaultBalance:     20,
	}
}

func newTestRequestService(empRepo *stubEmployeeRepo, reqRepo *stubRequestRepo) *RequestService {
	typeRepo := &stubTypeRepo{types: []leave.LeaveType{casualType()}}
	balanceService := NewBalanceService(nil, typeRepo, newStubBalanceRepo())
	dayCounter := NewDayCounter(&stubHolidayRepo{})

	return NewRequestService(
		nil,
		typeRepo,
		reqRepo,
		&stubAuditRepo{},
		empRepo,
		&stubUserRepo{},
		balanceService,
		dayCounter,
		&stubEmailService{},
	)
}

func TestCreateRequest_RejectsEmployeeOnProbation(t *testing.T) {
	empRepo := &stubEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID:       "emp-1",
			UserID:   "user-1",
			HireDate: time.Now().AddDate(0, 0, -30),
			IsActive: true,
		},
	}}
	svc := newTestRequestService(empRepo, &stubRequestRepo{})

	start := time.Now().AddDate(0, 0, 14)
	req := leave.CreateLeaveRequestRequest{
		EmployeeID:   "emp-1",
		LeaveTypeID:  "lt-casual",
		StartDate:    start.Format("2006-01-02"),
		EndDate:      start.Format("2006-01-02"),
		DurationType: string(leave.DurationFullDay),
		Reason:       "Family vacation trip",
	}

	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, leave.ErrEmployeeOnProbation)
}

func TestCreateRequest_RejectsDatesOutsideCurrentYear(t *testing.T) {
	empRepo := &stubEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID:       "emp-1",
			UserID:   "user-1",
			HireDate: time.Now().AddDate(-2, 0, 0),
			IsActive: true,
		},
	}}
	svc := newTestRequestService(empRepo, &stubRequestRepo{})

	nextYear := time.Now().Year() + 1
	req := leave.CreateLeaveRequestRequest{
		EmployeeID:   "emp-1",
		LeaveTypeID:  "lt-casual",
		StartDate:    time.Date(nextYear, time.June, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		EndDate:      time.Date(nextYear, time.June, 7, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		DurationType: string(leave.DurationFullDay),
		Reason:       "Family vacation trip",
	}

	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, leave.ErrOutsideCurrentYear)
}

func TestModifyRequest_RejectsDatesOutsideCurrentYear(t *testing.T) {
	empRepo := &stubEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID:       "emp-1",
			UserID:   "user-1",
			HireDate: time.Now().AddDate(-2, 0, 0),
			IsActive: true,
		},
	}}
	reqRepo := &stubRequestRepo{requests: map[string]leave.LeaveRequest{
		"req-1": {
			ID:           "req-1",
			EmployeeID:   "emp-1",
			LeaveTypeID:  "lt-casual",
			StartDate:    time.Now().AddDate(0, 0, 14),
			EndDate:      time.Now().AddDate(0, 0, 15),
			DurationType: leave.DurationFullDay,
			NumberOfDays: 2,
			Reason:       "Family vacation trip",
			Status:       leave.StatusPending,
		},
	}}
	svc := newTestRequestService(empRepo, reqRepo)

	nextYear := time.Now().Year() + 1
	start := time.Date(nextYear, time.June, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	end := time.Date(nextYear, time.June, 7, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	req := leave.UpdateLeaveRequestRequest{
		ID:         "req-1",
		EmployeeID: "emp-1",
		StartDate:  &start,
		EndDate:    &end,
	}

	_, err := svc.Modify(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrOutsideCurrentYear)
}

func TestModifyRequest_RejectsEmployeeOnProbation(t *testing.T) {
	empRepo := &stubEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID:       "emp-1",
			UserID:   "user-1",
			HireDate: time.Now().AddDate(0, 0, -10),
			IsActive: true,
		},
	}}
	reqRepo := &stubRequestRepo{requests: map[string]leave.LeaveRequest{
		"req-1": {
			ID:           "req-1",
			EmployeeID:   "emp-1",
			LeaveTypeID:  "lt-casual",
			StartDate:    time.Now().AddDate(0, 0, 14),
			EndDate:      time.Now().AddDate(0, 0, 15),
			DurationType: leave.DurationFullDay,
			NumberOfDays: 2,
			Reason:       "Family vacation trip",
			Status:       leave.StatusPending,
		},
	}}
	svc := newTestRequestService(empRepo, reqRepo)

	reason := "Updated travel plans for trip"
	req := leave.UpdateLeaveRequestRequest{
		ID:         "req-1",
		EmployeeID: "emp-1",
		Reason:     &reason,
	}

	_, err := svc.Modify(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrEmployeeOnProbation)
}
