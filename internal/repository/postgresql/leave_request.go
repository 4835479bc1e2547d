package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
	   lr.duration_type, lr.start_half, lr.hours, lr.number_of_days,
	   lr.reason, lr.medical_proof, lr.documentation,
	   lr.status, lr.approved_by_id, lr.approved_at, lr.rejection_reason,
	   lr.created_at, lr.updated_at,
	   e.first_name || ' ' || e.last_name AS employee_name, lt.name AS leave_type_name`

const leaveRequestJoins = `
	FROM leave_requests lr
	INNER JOIN employees e ON lr.employee_id = e.id
	INNER JOIN leave_types lt ON lr.leave_type_id = lt.id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate,
		&lr.DurationType, &lr.StartHalf, &lr.Hours, &lr.NumberOfDays,
		&lr.Reason, &lr.MedicalProof, &lr.Documentation,
		&lr.Status, &lr.ApprovedByID, &lr.ApprovedAt, &lr.RejectionReason,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.LeaveTypeName,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, start_date, end_date,
			duration_type, start_half, hours, number_of_days,
			reason, medical_proof, documentation, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	id := uuid.NewString()
	err := q.QueryRow(ctx, query,
		id, request.EmployeeID, request.LeaveTypeID, request.StartDate, request.EndDate,
		request.DurationType, request.StartHalf, request.Hours, request.NumberOfDays,
		request.Reason, request.MedicalProof, request.Documentation, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s %s WHERE lr.id = $1`, leaveRequestColumns, leaveRequestJoins)
	return scanLeaveRequest(q.QueryRow(ctx, query, id))
}

// GetByEmployeeID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s %s WHERE lr.employee_id = $1`, leaveRequestColumns, leaveRequestJoins)
	args := []interface{}{employeeID}
	if status != nil {
		query += ` AND lr.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY lr.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// ListByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStatus(ctx context.Context, status leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s %s WHERE lr.status = $1 ORDER BY lr.created_at ASC`, leaveRequestColumns, leaveRequestJoins)

	rows, err := q.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{}
	args := []interface{}{}
	argIdx := 1

	addWhere := func(condition string, value interface{}) {
		where = append(where, fmt.Sprintf(condition, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil {
		addWhere("lr.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.LeaveTypeID != nil {
		addWhere("lr.leave_type_id = $%d", *filter.LeaveTypeID)
	}
	if filter.Status != nil {
		addWhere("lr.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		addWhere("lr.end_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addWhere("lr.start_date <= $%d", *filter.EndDate)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) %s%s`, leaveRequestJoins, whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s%s ORDER BY lr.created_at DESC LIMIT $%d OFFSET $%d`,
		leaveRequestColumns, leaveRequestJoins, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}
	return requests, total, rows.Err()
}

// HasOverlapping implements leave.LeaveRequestRepository. Only pending and
// approved requests block the range.
func (r *leaveRequestRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeRequestID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
	`
	args := []interface{}{employeeID, start, end}
	if excludeRequestID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeRequestID)
	}
	query += `)`

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, req leave.StatusUpdate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by_id = $3, approved_at = $4, rejection_reason = $5, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, req.ID, req.Status, req.ApprovedByID, req.ApprovedAt, req.RejectionReason)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("leave request with id %s not found", req.ID)
	}
	return nil
}

// UpdateDraft implements leave.LeaveRequestRepository. Rewrites the mutable
// fields of a still-pending request.
func (r *leaveRequestRepositoryImpl) UpdateDraft(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET start_date = $2, end_date = $3, duration_type = $4, start_half = $5,
		    hours = $6, number_of_days = $7, reason = $8, documentation = $9,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	commandTag, err := q.Exec(ctx, query,
		request.ID, request.StartDate, request.EndDate, request.DurationType, request.StartHalf,
		request.Hours, request.NumberOfDays, request.Reason, request.Documentation,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("pending leave request with id %s not found", request.ID)
	}
	return nil
}
