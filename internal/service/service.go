package service

import (
	"context"
	"time"

	"tooltrack-backend/internal/domain"
)

// CheckoutRequest carries everything the checkout processor needs. The acting
// user is passed explicitly; the service layer knows nothing about tokens.
type CheckoutRequest struct {
	ToolID               int32
	TechnicianID         int32
	IssuedByID           int32
	IssueDate            time.Time
	ExpectedReturnDate   *time.Time
	ExpectedDurationDays *int32
	WorkOrderNumber      string
	Purpose              string
	Notes                string
}

type CheckinRequest struct {
	ToolID int32
	// ReturnedByID is the technician handing the tool back. ReceivedByID is
	// the user processing the return at the counter.
	ReturnedByID   int32
	ReceivedByID   int32
	IsDamaged      bool
	ConditionNotes string
}

// OverdueScanSummary reports what a single detector cycle did.
type OverdueScanSummary struct {
	Scanned      int
	NewlyOverdue int
	Renotified   int
	Skipped      int
	Failures     int
}

type IssuanceService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*domain.Issuance, error)
	Checkin(ctx context.Context, req CheckinRequest) (*domain.Issuance, *domain.Return, error)
	MarkLost(ctx context.Context, issuanceID, actorID int32, notes string) (*domain.Issuance, error)
	GetIssuance(ctx context.Context, id int32) (*domain.Issuance, error)
	ListActive(ctx context.Context) ([]domain.Issuance, error)
	// ListOverdue is the detector's read-only view. With
	// includeBeingProcessed it returns the full overdue set, otherwise only
	// loans past the notification cooldown. Performs no writes.
	ListOverdue(ctx context.Context, includeBeingProcessed bool) ([]domain.Issuance, error)
	// ProcessOverdue runs one detector cycle: flag newly past-due loans,
	// re-notify cold ones, skip the rest. Per-item failures are logged and
	// counted, never fatal.
	ProcessOverdue(ctx context.Context) (*OverdueScanSummary, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	MarkAllAsRead(ctx context.Context, userID int32) error
}

// EmailService is the narrow outbound transport consumed by the core.
type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
}
