package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `lb.id, lb.employee_id, lb.leave_type_id, lb.year,
	   lb.allocated_days, lb.used_days, lb.pending_days, lb.carried_forward_days, lb.available_days,
	   lb.created_at, lb.updated_at,
	   lt.name AS leave_type_name, e.first_name || ' ' || e.last_name AS employee_name`

const leaveBalanceJoins = `
	FROM leave_balances lb
	INNER JOIN leave_types lt ON lb.leave_type_id = lt.id
	INNER JOIN employees e ON lb.employee_id = e.id`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.AllocatedDays, &b.UsedDays, &b.PendingDays, &b.CarriedForwardDays, &b.AvailableDays,
		&b.CreatedAt, &b.UpdatedAt,
		&b.LeaveTypeName, &b.EmployeeName,
	)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	return b, nil
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			allocated_days, used_days, pending_days, carried_forward_days, available_days,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	id := uuid.NewString()
	err := q.QueryRow(ctx, query,
		id, balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.AllocatedDays, balance.UsedDays, balance.PendingDays, balance.CarriedForwardDays, balance.AvailableDays,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE lb.employee_id = $1 AND lb.leave_type_id = $2 AND lb.year = $3`,
		leaveBalanceColumns, leaveBalanceJoins)
	return scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
}

// GetByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE lb.employee_id = $1 AND lb.year = $2 ORDER BY lt.name`,
		leaveBalanceColumns, leaveBalanceJoins)

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// ListByYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByYear(ctx context.Context, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE lb.year = $1 ORDER BY employee_name, lt.name`,
		leaveBalanceColumns, leaveBalanceJoins)

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Update implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Update(ctx context.Context, balance leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET allocated_days = $2, used_days = $3, pending_days = $4,
		    carried_forward_days = $5, available_days = $6, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query,
		balance.ID, balance.AllocatedDays, balance.UsedDays, balance.PendingDays,
		balance.CarriedForwardDays, balance.AvailableDays,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("leave balance with id %s not found", balance.ID)
	}
	return nil
}
