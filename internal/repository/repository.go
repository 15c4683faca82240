package repository

import (
	"context"
	"time"

	"tooltrack-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type TechnicianRepository interface {
	Create(ctx context.Context, tech *domain.Technician) error
	GetByID(ctx context.Context, id int32) (*domain.Technician, error)
}

type ToolRepository interface {
	Create(ctx context.Context, tool *domain.Tool) error
	GetByID(ctx context.Context, id int32) (*domain.Tool, error)
	// ListCalibrationDue returns tools requiring calibration on or before due.
	ListCalibrationDue(ctx context.Context, due time.Time) ([]domain.Tool, error)
}

type IssuanceRepository interface {
	// CreateIssuance inserts the loan and flips the tool to INACTIVE as one
	// atomic unit. Fails with domain.ErrConflict when the tool is not ACTIVE
	// or an open loan already exists for it.
	CreateIssuance(ctx context.Context, iss *domain.Issuance) error

	// CompleteIssuance applies a terminal transition, optionally records the
	// return, and sets the tool's status, all in one transaction. ret is nil
	// for loss write-offs. Fails with domain.ErrConflict when the issuance is
	// no longer open.
	CompleteIssuance(ctx context.Context, issuanceID int32, status domain.IssuanceStatus, toolStatus domain.ToolStatus, ret *domain.Return, at time.Time) (*domain.Issuance, *domain.Return, error)

	GetByID(ctx context.Context, id int32) (*domain.Issuance, error)
	GetActiveForTool(ctx context.Context, toolID int32) (*domain.Issuance, error)
	TechnicianHasOverdue(ctx context.Context, technicianID int32) (bool, error)
	IssuanceNumberExists(ctx context.Context, number string) (bool, error)

	ListActive(ctx context.Context) ([]domain.Issuance, error)
	// ListPastDue returns open loans whose expected return date is before now.
	// When notNotifiedSince is non-nil, loans notified at or after that time
	// are filtered out (the notification-cooldown view).
	ListPastDue(ctx context.Context, now time.Time, notNotifiedSince *time.Time) ([]domain.Issuance, error)

	// MarkOverdue performs the first-detection transition ISSUED -> OVERDUE,
	// stamping the notification date and count. Returns false when the loan
	// was no longer in ISSUED (e.g. a concurrent checkin won).
	MarkOverdue(ctx context.Context, id int32, at time.Time) (bool, error)
	// TouchOverdueNotification records a repeat notification for a loan that
	// is already OVERDUE. Returns false when the loan left OVERDUE meanwhile.
	TouchOverdueNotification(ctx context.Context, id int32, at time.Time) (bool, error)
}

type NotificationRepository interface {
	Add(ctx context.Context, note *domain.Notification) error
	ListForUser(ctx context.Context, userID int32) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int32) error
	MarkAllRead(ctx context.Context, userID int32) error
}
