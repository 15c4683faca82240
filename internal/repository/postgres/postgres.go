package postgres

import (
	"database/sql"

	"tooltrack-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.TechnicianRepository
	repository.ToolRepository
	repository.IssuanceRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		TechnicianRepository:   NewTechnicianRepository(db),
		ToolRepository:         NewToolRepository(db),
		IssuanceRepository:     NewIssuanceRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
