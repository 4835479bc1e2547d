package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/employee"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `e.id, e.user_id, e.employee_code, e.first_name, e.last_name,
	   e.department, e.position, e.phone_number, e.hire_date, e.is_active,
	   e.created_at, e.updated_at, u.email`

const employeeJoins = `
	FROM employees e
	INNER JOIN users u ON e.user_id = u.id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName,
		&e.Department, &e.Position, &e.PhoneNumber, &e.HireDate, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt, &e.Email,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, user_id, employee_code, first_name, last_name,
			department, position, phone_number, hire_date, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`
	id := uuid.NewString()
	err := q.QueryRow(ctx, query,
		id, emp.UserID, emp.EmployeeCode, emp.FirstName, emp.LastName,
		emp.Department, emp.Position, emp.PhoneNumber, emp.HireDate, emp.IsActive,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE e.id = $1`, employeeColumns, employeeJoins)
	return scanEmployee(q.QueryRow(ctx, query, id))
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE e.user_id = $1`, employeeColumns, employeeJoins)
	return scanEmployee(q.QueryRow(ctx, query, userID))
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE e.employee_code = $1`, employeeColumns, employeeJoins)
	return scanEmployee(q.QueryRow(ctx, query, code))
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s %s`, employeeColumns, employeeJoins)
	if activeOnly {
		query += ` WHERE e.is_active = TRUE`
	}
	query += ` ORDER BY e.last_name, e.first_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.FirstName != nil {
		addSet("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		addSet("last_name", *req.LastName)
	}
	if req.Department != nil {
		addSet("department", *req.Department)
	}
	if req.Position != nil {
		addSet("position", *req.Position)
	}
	if req.PhoneNumber != nil {
		addSet("phone_number", *req.PhoneNumber)
	}
	if req.IsActive != nil {
		addSet("is_active", *req.IsActive)
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, req.ID)

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("employee with id %s not found", req.ID)
	}
	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("employee with id %s not found", id)
	}
	return nil
}
