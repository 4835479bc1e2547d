package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/leavehq/leave-backend-go/internal/domain/leave"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
)

type leaveAuditRepositoryImpl struct {
	db *database.DB
}

func NewLeaveAuditRepository(db *database.DB) leave.LeaveAuditRepository {
	return &leaveAuditRepositoryImpl{db: db}
}

// Create implements leave.LeaveAuditRepository.
func (r *leaveAuditRepositoryImpl) Create(ctx context.Context, audit leave.LeaveAudit) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_request_audits (
			id, leave_request_id, action, performed_by_id, old_status, new_status, comments, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW()
		)
	`
	_, err := q.Exec(ctx, query,
		uuid.NewString(), audit.LeaveRequestID, audit.Action, audit.PerformedByID,
		audit.OldStatus, audit.NewStatus, audit.Comments,
	)
	return err
}

// GetByRequestID implements leave.LeaveAuditRepository.
func (r *leaveAuditRepositoryImpl) GetByRequestID(ctx context.Context, leaveRequestID string) ([]leave.LeaveAudit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, leave_request_id, action, performed_by_id, old_status, new_status, comments, created_at
		FROM leave_request_audits
		WHERE leave_request_id = $1
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, leaveRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []leave.LeaveAudit
	for rows.Next() {
		var a leave.LeaveAudit
		err := rows.Scan(&a.ID, &a.LeaveRequestID, &a.Action, &a.PerformedByID, &a.OldStatus, &a.NewStatus, &a.Comments, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}
