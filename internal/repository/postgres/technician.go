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

type technicianRepository struct {
	db *sql.DB
}

func NewTechnicianRepository(db *sql.DB) repository.TechnicianRepository {
	return &technicianRepository{db: db}
}

func (r *technicianRepository) Create(ctx context.Context, t *domain.Technician) error {
	query := `INSERT INTO technicians (badge, first_name, last_name, email, department, position, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, t.Badge, t.FirstName, t.LastName, t.Email, t.Department, t.Position, t.IsActive, now, now).Scan(&t.ID)
}

func (r *technicianRepository) GetByID(ctx context.Context, id int32) (*domain.Technician, error) {
	t := &domain.Technician{}
	query := `SELECT id, badge, first_name, last_name, COALESCE(email, ''), COALESCE(department, ''), COALESCE(position, ''), is_active, created_at, updated_at
	          FROM technicians WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Badge, &t.FirstName, &t.LastName, &t.Email, &t.Department, &t.Position, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("technician %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
