package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `id, name, description, category, color_code, is_active,
	   default_balance, allow_carry_forward, max_carry_forward,
	   allow_full_day, allow_half_day, allow_hourly, max_consecutive_days,
	   requires_approval, can_exceed_balance, requires_documentation,
	   created_at, updated_at`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.Name, &lt.Description, &lt.Category, &lt.ColorCode, &lt.IsActive,
		&lt.DefaultBalance, &lt.AllowCarryForward, &lt.MaxCarryForward,
		&lt.AllowFullDay, &lt.AllowHalfDay, &lt.AllowHourly, &lt.MaxConsecutiveDays,
		&lt.RequiresApproval, &lt.CanExceedBalance, &lt.RequiresDocumentation,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveType{}, err
	}
	return lt, nil
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_types (
			id, name, description, category, color_code, is_active,
			default_balance, allow_carry_forward, max_carry_forward,
			allow_full_day, allow_half_day, allow_hourly, max_consecutive_days,
			requires_approval, can_exceed_balance, requires_documentation,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	id := uuid.NewString()
	err := q.QueryRow(ctx, query,
		id, leaveType.Name, leaveType.Description, leaveType.Category, leaveType.ColorCode, leaveType.IsActive,
		leaveType.DefaultBalance, leaveType.AllowCarryForward, leaveType.MaxCarryForward,
		leaveType.AllowFullDay, leaveType.AllowHalfDay, leaveType.AllowHourly, leaveType.MaxConsecutiveDays,
		leaveType.RequiresApproval, leaveType.CanExceedBalance, leaveType.RequiresDocumentation,
	).Scan(&leaveType.ID, &leaveType.CreatedAt, &leaveType.UpdatedAt)

	if err != nil {
		return leave.LeaveType{}, err
	}

	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := fmt.Sprintf(`SELECT %s FROM leave_types WHERE id = $1`, leaveTypeColumns)
	return scanLeaveType(q.QueryRow(ctx, query, id))
}

// GetByName implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByName(ctx context.Context, name string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := fmt.Sprintf(`SELECT %s FROM leave_types WHERE LOWER(name) = LOWER($1)`, leaveTypeColumns)
	return scanLeaveType(q.QueryRow(ctx, query, name))
}

// List implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := fmt.Sprintf(`SELECT %s FROM leave_types`, leaveTypeColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// Update implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	q := GetQuerier(ctx, l.db)

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Category != nil {
		addSet("category", *req.Category)
	}
	if req.DefaultBalance != nil {
		addSet("default_balance", *req.DefaultBalance)
	}
	if req.AllowCarryForward != nil {
		addSet("allow_carry_forward", *req.AllowCarryForward)
	}
	if req.MaxCarryForward != nil {
		addSet("max_carry_forward", *req.MaxCarryForward)
	}
	if req.ColorCode != nil {
		addSet("color_code", *req.ColorCode)
	}
	if req.IsActive != nil {
		addSet("is_active", *req.IsActive)
	}
	if req.AllowFullDay != nil {
		addSet("allow_full_day", *req.AllowFullDay)
	}
	if req.AllowHalfDay != nil {
		addSet("allow_half_day", *req.AllowHalfDay)
	}
	if req.AllowHourly != nil {
		addSet("allow_hourly", *req.AllowHourly)
	}
	if req.MaxConsecutiveDays != nil {
		addSet("max_consecutive_days", *req.MaxConsecutiveDays)
	}
	if req.RequiresApproval != nil {
		addSet("requires_approval", *req.RequiresApproval)
	}
	if req.CanExceedBalance != nil {
		addSet("can_exceed_balance", *req.CanExceedBalance)
	}
	if req.RequiresDocumentation != nil {
		addSet("requires_documentation", *req.RequiresDocumentation)
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, req.ID)

	query := fmt.Sprintf("UPDATE leave_types SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("leave type with id %s not found", req.ID)
	}
	return nil
}
