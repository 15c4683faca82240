package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/logger"
	"tooltrack-backend/internal/repository"
)

type issuanceRepository struct {
	db *sql.DB
}

func NewIssuanceRepository(db *sql.DB) repository.IssuanceRepository {
	return &issuanceRepository{db: db}
}

const issuanceColumns = `id, issuance_number, tool_id, issued_to_id, issued_by_id, issued_date, expected_return_date, expected_duration_days, COALESCE(work_order_number, ''), purpose, COALESCE(notes, ''), status, actual_return_date, is_overdue, last_overdue_notification_date, overdue_notification_count, created_at`

func scanIssuance(row interface{ Scan(...any) error }) (*domain.Issuance, error) {
	i := &domain.Issuance{}
	err := row.Scan(&i.ID, &i.IssuanceNumber, &i.ToolID, &i.IssuedToID, &i.IssuedByID, &i.IssuedDate,
		&i.ExpectedReturnDate, &i.ExpectedDurationDays, &i.WorkOrderNumber, &i.Purpose, &i.Notes,
		&i.Status, &i.ActualReturnDate, &i.IsOverdue, &i.LastOverdueNotificationDate,
		&i.OverdueNotificationCount, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// isUniqueViolation reports whether err is a Postgres unique violation,
// optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func (r *issuanceRepository) CreateIssuance(ctx context.Context, iss *domain.Issuance) error {
	logger.DatabaseCall("INSERT", "tool_issuances", "tool_id", iss.ToolID, "issuance_number", iss.IssuanceNumber)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Flip the tool out of rotation first; the status guard makes two
	// concurrent checkouts mutually exclusive.
	res, err := tx.ExecContext(ctx,
		`UPDATE tools SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		domain.ToolStatusInactive, iss.ToolID, domain.ToolStatusActive)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("tool %d is not available for checkout: %w", iss.ToolID, domain.ErrConflict)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO tool_issuances (issuance_number, tool_id, issued_to_id, issued_by_id, issued_date, expected_return_date, expected_duration_days, work_order_number, purpose, notes, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, NULLIF($10, ''), $11, NOW())
		 RETURNING id, created_at`,
		iss.IssuanceNumber, iss.ToolID, iss.IssuedToID, iss.IssuedByID, iss.IssuedDate,
		iss.ExpectedReturnDate, iss.ExpectedDurationDays, iss.WorkOrderNumber, iss.Purpose,
		iss.Notes, iss.Status).Scan(&iss.ID, &iss.CreatedAt)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "tool_id", iss.ToolID)
		// The partial unique index is the last line of defense for the
		// one-open-loan-per-tool invariant.
		if isUniqueViolation(err, "ux_tool_issuances_open_loan") {
			return fmt.Errorf("tool %d already has an open issuance: %w", iss.ToolID, domain.ErrConflict)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("issuance number %s already in use: %w", iss.IssuanceNumber, domain.ErrConflict)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.DatabaseResult("INSERT", 1, nil, "issuance_id", iss.ID)
	return nil
}

func (r *issuanceRepository) CompleteIssuance(ctx context.Context, issuanceID int32, status domain.IssuanceStatus, toolStatus domain.ToolStatus, ret *domain.Return, at time.Time) (*domain.Issuance, *domain.Return, error) {
	logger.DatabaseCall("UPDATE", "tool_issuances", "issuance_id", issuanceID, "status", status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	// The status guard rejects double checkins and keeps a stale overdue
	// write from clobbering a finished loan.
	row := tx.QueryRowContext(ctx,
		`UPDATE tool_issuances
		 SET status = $1, actual_return_date = $2, is_overdue = FALSE
		 WHERE id = $3 AND status IN ($4, $5)
		 RETURNING `+issuanceColumns,
		status, at, issuanceID, domain.IssuanceStatusIssued, domain.IssuanceStatusOverdue)
	iss, err := scanIssuance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("issuance %d has no open loan to complete: %w", issuanceID, domain.ErrConflict)
	}
	if err != nil {
		return nil, nil, err
	}

	if ret != nil {
		ret.IssuanceID = issuanceID
		ret.ReturnedDate = at
		err = tx.QueryRowContext(ctx,
			`INSERT INTO tool_returns (issuance_id, returned_by_id, returned_date, condition, notes, created_at)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW()) RETURNING id, created_at`,
			ret.IssuanceID, ret.ReturnedByID, ret.ReturnedDate, ret.Condition, ret.Notes).Scan(&ret.ID, &ret.CreatedAt)
		if err != nil {
			return nil, nil, err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tools SET status = $1, updated_at = NOW() WHERE id = $2`,
		toolStatus, iss.ToolID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "issuance_id", issuanceID, "status", status)
	return iss, ret, nil
}

func (r *issuanceRepository) GetByID(ctx context.Context, id int32) (*domain.Issuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM tool_issuances WHERE id = $1`
	iss, err := scanIssuance(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issuance %d: %w", id, domain.ErrNotFound)
	}
	return iss, err
}

func (r *issuanceRepository) GetActiveForTool(ctx context.Context, toolID int32) (*domain.Issuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM tool_issuances WHERE tool_id = $1 AND status IN ($2, $3)`
	iss, err := scanIssuance(r.db.QueryRowContext(ctx, query, toolID, domain.IssuanceStatusIssued, domain.IssuanceStatusOverdue))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no active issuance for tool %d: %w", toolID, domain.ErrNotFound)
	}
	return iss, err
}

func (r *issuanceRepository) TechnicianHasOverdue(ctx context.Context, technicianID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tool_issuances WHERE issued_to_id = $1 AND status = $2)`
	err := r.db.QueryRowContext(ctx, query, technicianID, domain.IssuanceStatusOverdue).Scan(&exists)
	return exists, err
}

func (r *issuanceRepository) IssuanceNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tool_issuances WHERE issuance_number = $1)`
	err := r.db.QueryRowContext(ctx, query, number).Scan(&exists)
	return exists, err
}

func (r *issuanceRepository) ListActive(ctx context.Context) ([]domain.Issuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM tool_issuances
	          WHERE status IN ($1, $2) ORDER BY expected_return_date NULLS LAST`
	return r.list(ctx, query, domain.IssuanceStatusIssued, domain.IssuanceStatusOverdue)
}

func (r *issuanceRepository) ListPastDue(ctx context.Context, now time.Time, notNotifiedSince *time.Time) ([]domain.Issuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM tool_issuances
	          WHERE status IN ($1, $2)
	            AND actual_return_date IS NULL
	            AND expected_return_date IS NOT NULL
	            AND expected_return_date < $3`
	args := []any{domain.IssuanceStatusIssued, domain.IssuanceStatusOverdue, now}
	if notNotifiedSince != nil {
		query += ` AND (last_overdue_notification_date IS NULL OR last_overdue_notification_date < $4)`
		args = append(args, *notNotifiedSince)
	}
	query += ` ORDER BY expected_return_date`
	return r.list(ctx, query, args...)
}

func (r *issuanceRepository) MarkOverdue(ctx context.Context, id int32, at time.Time) (bool, error) {
	query := `UPDATE tool_issuances
	          SET status = $1, is_overdue = TRUE, last_overdue_notification_date = $2,
	              overdue_notification_count = overdue_notification_count + 1
	          WHERE id = $3 AND status = $4 AND actual_return_date IS NULL`
	res, err := r.db.ExecContext(ctx, query, domain.IssuanceStatusOverdue, at, id, domain.IssuanceStatusIssued)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *issuanceRepository) TouchOverdueNotification(ctx context.Context, id int32, at time.Time) (bool, error) {
	query := `UPDATE tool_issuances
	          SET last_overdue_notification_date = $1,
	              overdue_notification_count = overdue_notification_count + 1
	          WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, at, id, domain.IssuanceStatusOverdue)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *issuanceRepository) list(ctx context.Context, query string, args ...any) ([]domain.Issuance, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issuances []domain.Issuance
	for rows.Next() {
		iss, err := scanIssuance(rows)
		if err != nil {
			return nil, err
		}
		issuances = append(issuances, *iss)
	}
	return issuances, rows.Err()
}
