package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/repository"
)

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

const toolColumns = `id, code, name, COALESCE(description, ''), tool_type, COALESCE(category, ''), COALESCE(unit, ''), stock_quantity, minimum_stock, calibration_required, calibration_frequency_days, last_calibration_date, next_calibration_date, status, created_at, updated_at`

func scanTool(row interface{ Scan(...any) error }) (*domain.Tool, error) {
	t := &domain.Tool{}
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Description, &t.ToolType, &t.Category, &t.Unit,
		&t.StockQuantity, &t.MinimumStock, &t.CalibrationRequired, &t.CalibrationFrequencyDays,
		&t.LastCalibrationDate, &t.NextCalibrationDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *toolRepository) Create(ctx context.Context, t *domain.Tool) error {
	query := `INSERT INTO tools (code, name, description, tool_type, category, unit, stock_quantity, minimum_stock, calibration_required, calibration_frequency_days, last_calibration_date, next_calibration_date, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, t.Code, t.Name, t.Description, t.ToolType, t.Category, t.Unit,
		t.StockQuantity, t.MinimumStock, t.CalibrationRequired, t.CalibrationFrequencyDays,
		t.LastCalibrationDate, t.NextCalibrationDate, t.Status, now, now).Scan(&t.ID)
}

func (r *toolRepository) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE id = $1`
	t, err := scanTool(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tool %d: %w", id, domain.ErrNotFound)
	}
	return t, err
}

func (r *toolRepository) ListCalibrationDue(ctx context.Context, due time.Time) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools
	          WHERE calibration_required = TRUE AND next_calibration_date IS NOT NULL AND next_calibration_date <= $1
	          ORDER BY next_calibration_date`
	rows, err := r.db.QueryContext(ctx, query, due)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}
