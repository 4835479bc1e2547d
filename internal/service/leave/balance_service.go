package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

// BalanceService maintains per-employee, per-type, per-year leave balances.
// Available days are always derived as allocated - used - pending + carried
// forward; every mutation goes through recompute so the stored value never
// drifts.
type BalanceService struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
}

func NewBalanceService(db *database.DB, leaveTypeRepository leave.LeaveTypeRepository, leaveBalanceRepository leave.LeaveBalanceRepository) *BalanceService {
	return &BalanceService{
		db:                     db,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
	}
}

func recompute(b *leave.LeaveBalance) {
	b.AvailableDays = b.AllocatedDays - b.UsedDays - b.PendingDays + b.CarriedForwardDays
}

// Initialize creates a balance row for every active leave type the employee
// does not yet have for the given year, seeded from the type's default
// balance.
func (s *BalanceService) Initialize(ctx context.Context, employeeID string, year int) error {
	types, err := s.LeaveTypeRepository.List(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list leave types: %w", err)
	}

	for _, lt := range types {
		_, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, lt.ID, year)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to get leave balance: %w", err)
		}

		balance := leave.LeaveBalance{
			EmployeeID:    employeeID,
			LeaveTypeID:   lt.ID,
			Year:          year,
			AllocatedDays: float64(lt.DefaultBalance),
		}
		recompute(&balance)
		if _, err := s.LeaveBalanceRepository.Create(ctx, balance); err != nil {
			return fmt.Errorf("failed to create leave balance: %w", err)
		}
	}
	return nil
}

// CarryForward rolls unused days from fromYear into the next year for every
// leave type that allows it, capped at the type's max carry forward.
func (s *BalanceService) CarryForward(ctx context.Context, fromYear int) error {
	balances, err := s.LeaveBalanceRepository.ListByYear(ctx, fromYear)
	if err != nil {
		return fmt.Errorf("failed to list leave balances: %w", err)
	}

	types := make(map[string]leave.LeaveType)

	for _, b := range balances {
		lt, ok := types[b.LeaveTypeID]
		if !ok {
			lt, err = s.LeaveTypeRepository.GetByID(ctx, b.LeaveTypeID)
			if err != nil {
				return fmt.Errorf("failed to get leave type: %w", err)
			}
			types[b.LeaveTypeID] = lt
		}

		if !lt.AllowCarryForward {
			continue
		}

		carry := b.AvailableDays
		if carry <= 0 {
			continue
		}
		if float64(lt.MaxCarryForward) < carry {
			carry = float64(lt.MaxCarryForward)
		}

		next, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, b.EmployeeID, b.LeaveTypeID, fromYear+1)
		if errors.Is(err, pgx.ErrNoRows) {
			next = leave.LeaveBalance{
				EmployeeID:    b.EmployeeID,
				LeaveTypeID:   b.LeaveTypeID,
				Year:          fromYear + 1,
				AllocatedDays: float64(lt.DefaultBalance),
			}
			recompute(&next)
			next, err = s.LeaveBalanceRepository.Create(ctx, next)
		}
		if err != nil {
			return fmt.Errorf("failed to prepare next year balance: %w", err)
		}

		next.CarriedForwardDays = carry
		recompute(&next)
		if err := s.LeaveBalanceRepository.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
	}
	return nil
}

// addPending moves days into the pending bucket for a newly submitted
// request. A negative delta releases pending days.
func (s *BalanceService) addPending(ctx context.Context, employeeID, leaveTypeID string, year int, delta float64) error {
	balance, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	balance.PendingDays += delta
	if balance.PendingDays < 0 {
		balance.PendingDays = 0
	}
	recompute(&balance)
	return s.LeaveBalanceRepository.Update(ctx, balance)
}

// commitPending converts pending days into used days on approval.
func (s *BalanceService) commitPending(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	balance, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	balance.PendingDays -= days
	if balance.PendingDays < 0 {
		balance.PendingDays = 0
	}
	balance.UsedDays += days
	recompute(&balance)
	return s.LeaveBalanceRepository.Update(ctx, balance)
}

// refundUsed releases used days when an approved request is cancelled.
func (s *BalanceService) refundUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	balance, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	balance.UsedDays -= days
	if balance.UsedDays < 0 {
		balance.UsedDays = 0
	}
	recompute(&balance)
	return s.LeaveBalanceRepository.Update(ctx, balance)
}

// chargeUsed records days directly as used, for auto-approved requests that
// skip the pending stage.
func (s *BalanceService) chargeUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	balance, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	balance.UsedDays += days
	recompute(&balance)
	return s.LeaveBalanceRepository.Update(ctx, balance)
}
