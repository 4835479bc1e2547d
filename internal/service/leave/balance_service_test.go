package leave

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehq/leave-backend-go/internal/domain/leave"
)

type stubTypeRepo struct {
	types []leave.LeaveType
}

func (s *stubTypeRepo) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	s.types = append(s.types, lt)
	return lt, nil
}

func (s *stubTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	for _, lt := range s.types {
		if lt.ID == id {
			return lt, nil
		}
	}
	return leave.LeaveType{}, pgx.ErrNoRows
}

func (s *stubTypeRepo) GetByName(ctx context.Context, name string) (leave.LeaveType, error) {
	for _, lt := range s.types {
		if lt.Name == name {
			return lt, nil
		}
	}
	return leave.LeaveType{}, pgx.ErrNoRows
}

func (s *stubTypeRepo) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, lt := range s.types {
		if activeOnly && !lt.IsActive {
			continue
		}
		out = append(out, lt)
	}
	return out, nil
}

func (s *stubTypeRepo) Update(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	return nil
}

type stubBalanceRepo struct {
	balances map[string]leave.LeaveBalance
	nextID   int
}

func newStubBalanceRepo() *stubBalanceRepo {
	return &stubBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
}

func (s *stubBalanceRepo) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	s.nextID++
	b.ID = fmt.Sprintf("bal-%d", s.nextID)
	s.balances[balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)] = b
	return b, nil
}

func (s *stubBalanceRepo) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	b, ok := s.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return leave.LeaveBalance{}, pgx.ErrNoRows
	}
	return b, nil
}

func (s *stubBalanceRepo) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, b := range s.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBalanceRepo) ListByYear(ctx context.Context, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, b := range s.balances {
		if b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBalanceRepo) Update(ctx context.Context, balance leave.LeaveBalance) error {
	for key, b := range s.balances {
		if b.ID == balance.ID {
			s.balances[key] = balance
			return nil
		}
	}
	return pgx.ErrNoRows
}

func TestBalanceServiceInitialize(t *testing.T) {
	ctx := context.Background()
	typeRepo := &stubTypeRepo{types: []leave.LeaveType{
		{ID: "annual", Name: "Annual Leave", DefaultBalance: 20, IsActive: true},
		{ID: "sick", Name: "Sick Leave", DefaultBalance: 10, IsActive: true},
		{ID: "old", Name: "Retired Type", DefaultBalance: 5, IsActive: false},
	}}
	balanceRepo := newStubBalanceRepo()
	svc := NewBalanceService(nil, typeRepo, balanceRepo)

	require.NoError(t, svc.Initialize(ctx, "emp-1", 2025))

	annual, err := balanceRepo.GetByEmployeeTypeYear(ctx, "emp-1", "annual", 2025)
	require.NoError(t, err)
	assert.Equal(t, 20.0, annual.AllocatedDays)
	assert.Equal(t, 20.0, annual.AvailableDays)

	_, err = balanceRepo.GetByEmployeeTypeYear(ctx, "emp-1", "old", 2025)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	// Re-running must not duplicate or reset existing rows
	annual.UsedDays = 3
	recompute(&annual)
	require.NoError(t, balanceRepo.Update(ctx, annual))
	require.NoError(t, svc.Initialize(ctx, "emp-1", 2025))

	again, err := balanceRepo.GetByEmployeeTypeYear(ctx, "emp-1", "annual", 2025)
	require.NoError(t, err)
	assert.Equal(t, 3.0, again.UsedDays)
}

func TestBalanceServiceCarryForward(t *testing.T) {
	ctx := context.Background()
	typeRepo := &stubTypeRepo{types: []leave.LeaveType{
		{ID: "annual", Name: "Annual Leave", DefaultBalance: 20, IsActive: true, AllowCarryForward: true, MaxCarryForward: 5},
		{ID: "casual", Name: "Casual Leave", DefaultBalance: 8, IsActive: true},
	}}
	balanceRepo := newStubBalanceRepo()
	svc := NewBalanceService(nil, typeRepo, balanceRepo)

	seed := func(leaveTypeID string, allocated, used float64) {
		b := leave.LeaveBalance{EmployeeID: "emp-1", LeaveTypeID: leaveTypeID, Year: 2024, AllocatedDays: allocated, UsedDays: used}
		recompute(&b)
		_, err := balanceRepo.Create(ctx, b)
		require.NoError(t, err)
	}
	seed("annual", 20, 12) // 8 unused, capped to 5
	seed("casual", 8, 2)   // carry forward not allowed

	require.NoError(t, svc.CarryForward(ctx, 2024))

	next, err := balanceRepo.GetByEmployeeTypeYear(ctx, "emp-1", "annual", 2025)
	require.NoError(t, err)
	assert.Equal(t, 5.0, next.CarriedForwardDays)
	assert.Equal(t, 20.0, next.AllocatedDays)
	assert.Equal(t, 25.0, next.AvailableDays)

	_, err = balanceRepo.GetByEmployeeTypeYear(ctx, "emp-1", "casual", 2025)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestBalanceTransitions(t *testing.T) {
	ctx := context.Background()
	balanceRepo := newStubBalanceRepo()
	svc := NewBalanceService(nil, &stubTypeRepo{}, balanceRepo)

	b := leave.LeaveBalance{EmployeeID: "emp-1", LeaveTypeID: "annual", Year: 2025, AllocatedDays: 20}
	recompute(&b)
	_, err := balanceRepo.Create(ctx, b)
	require.NoError(t, err)

	current := func() leave.LeaveBalance {
		got, err := balanceRepo.GetByEmployeeTypeYear(ctx, "emp-1", "annual", 2025)
		require.NoError(t, err)
		return got
	}

	// Submit holds 5 pending days
	require.NoError(t, svc.addPending(ctx, "emp-1", "annual", 2025, 5))
	got := current()
	assert.Equal(t, 5.0, got.PendingDays)
	assert.Equal(t, 15.0, got.AvailableDays)

	// Approval moves them to used
	require.NoError(t, svc.commitPending(ctx, "emp-1", "annual", 2025, 5))
	got = current()
	assert.Equal(t, 0.0, got.PendingDays)
	assert.Equal(t, 5.0, got.UsedDays)
	assert.Equal(t, 15.0, got.AvailableDays)

	// Cancellation of the approved request refunds them
	require.NoError(t, svc.refundUsed(ctx, "emp-1", "annual", 2025, 5))
	got = current()
	assert.Equal(t, 0.0, got.UsedDays)
	assert.Equal(t, 20.0, got.AvailableDays)

	// Unknown balance surfaces the domain error
	err = svc.addPending(ctx, "emp-2", "annual", 2025, 1)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}
