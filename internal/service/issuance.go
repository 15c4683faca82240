package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/logger"
	"tooltrack-backend/internal/repository"
)

type issuanceService struct {
	issuanceRepo repository.IssuanceRepository
	toolRepo     repository.ToolRepository
	techRepo     repository.TechnicianRepository
	userRepo     repository.UserRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	cooldown     time.Duration
	emailTimeout time.Duration
}

func NewIssuanceService(
	issuanceRepo repository.IssuanceRepository,
	toolRepo repository.ToolRepository,
	techRepo repository.TechnicianRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	cooldown time.Duration,
	emailTimeout time.Duration,
) IssuanceService {
	return &issuanceService{
		issuanceRepo: issuanceRepo,
		toolRepo:     toolRepo,
		techRepo:     techRepo,
		userRepo:     userRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		cooldown:     cooldown,
		emailTimeout: emailTimeout,
	}
}

func (s *issuanceService) Checkout(ctx context.Context, req CheckoutRequest) (*domain.Issuance, error) {
	if req.ExpectedDurationDays != nil && *req.ExpectedDurationDays < 0 {
		return nil, fmt.Errorf("expected duration must not be negative: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return nil, fmt.Errorf("purpose is required: %w", domain.ErrValidation)
	}

	tool, err := s.toolRepo.GetByID(ctx, req.ToolID)
	if err != nil {
		return nil, err
	}
	if tool.Status != domain.ToolStatusActive {
		return nil, fmt.Errorf("tool %s is not available for checkout (status: %s): %w",
			tool.Code, tool.Status, domain.ErrConflict)
	}

	if _, err := s.issuanceRepo.GetActiveForTool(ctx, req.ToolID); err == nil {
		return nil, fmt.Errorf("tool %s is already checked out: %w", tool.Code, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	tech, err := s.techRepo.GetByID(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.IssuedByID); err != nil {
		return nil, err
	}

	delinquent, err := s.issuanceRepo.TechnicianHasOverdue(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}
	if delinquent {
		return nil, fmt.Errorf("technician %s has overdue tools: %w", tech.Badge, domain.ErrConflict)
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	expectedReturn := req.ExpectedReturnDate
	if expectedReturn == nil && req.ExpectedDurationDays != nil {
		d := issueDate.AddDate(0, 0, int(*req.ExpectedDurationDays))
		expectedReturn = &d
	}

	number, err := s.generateIssuanceNumber(ctx)
	if err != nil {
		return nil, err
	}

	iss := &domain.Issuance{
		IssuanceNumber:       number,
		ToolID:               req.ToolID,
		IssuedToID:           req.TechnicianID,
		IssuedByID:           req.IssuedByID,
		IssuedDate:           issueDate,
		ExpectedReturnDate:   expectedReturn,
		ExpectedDurationDays: req.ExpectedDurationDays,
		WorkOrderNumber:      req.WorkOrderNumber,
		Purpose:              req.Purpose,
		Notes:                req.Notes,
		Status:               domain.IssuanceStatusIssued,
	}

	// Loan insert and tool flip commit together or not at all.
	if err := s.issuanceRepo.CreateIssuance(ctx, iss); err != nil {
		return nil, err
	}

	logger.Info("Tool checked out",
		"issuance_number", iss.IssuanceNumber,
		"tool_id", iss.ToolID,
		"technician_id", iss.IssuedToID,
		"issued_by", iss.IssuedByID)
	return iss, nil
}

func (s *issuanceService) Checkin(ctx context.Context, req CheckinRequest) (*domain.Issuance, *domain.Return, error) {
	if req.ReturnedByID == 0 {
		return nil, nil, fmt.Errorf("returned_by_id is required: %w", domain.ErrValidation)
	}
	if _, err := s.techRepo.GetByID(ctx, req.ReturnedByID); err != nil {
		return nil, nil, err
	}

	active, err := s.issuanceRepo.GetActiveForTool(ctx, req.ToolID)
	if err != nil {
		return nil, nil, err
	}

	status := domain.IssuanceStatusReturned
	toolStatus := domain.ToolStatusActive
	condition := domain.ReturnConditionGood
	if req.IsDamaged {
		status = domain.IssuanceStatusDamaged
		toolStatus = domain.ToolStatusUnderMaintenance
		condition = domain.ReturnConditionDamaged
	}
	if !domain.CanTransition(active.Status, status) {
		return nil, nil, fmt.Errorf("issuance %s cannot move from %s to %s: %w",
			active.IssuanceNumber, active.Status, status, domain.ErrConflict)
	}

	ret := &domain.Return{
		ReturnedByID: req.ReturnedByID,
		Condition:    condition,
		Notes:        req.ConditionNotes,
	}

	iss, ret, err := s.issuanceRepo.CompleteIssuance(ctx, active.ID, status, toolStatus, ret, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Tool checked in",
		"issuance_number", iss.IssuanceNumber,
		"tool_id", iss.ToolID,
		"status", iss.Status,
		"returned_by", req.ReturnedByID,
		"received_by", req.ReceivedByID,
		"damaged", req.IsDamaged)
	return iss, ret, nil
}

func (s *issuanceService) MarkLost(ctx context.Context, issuanceID, actorID int32, notes string) (*domain.Issuance, error) {
	current, err := s.issuanceRepo.GetByID(ctx, issuanceID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, domain.IssuanceStatusLost) {
		return nil, fmt.Errorf("issuance %s is already closed (status: %s): %w",
			current.IssuanceNumber, current.Status, domain.ErrConflict)
	}

	// A lost tool leaves the rotation until inventory resolves it.
	iss, _, err := s.issuanceRepo.CompleteIssuance(ctx, issuanceID,
		domain.IssuanceStatusLost, domain.ToolStatusUnderMaintenance, nil, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Warn("Tool written off as lost",
		"issuance_number", iss.IssuanceNumber,
		"tool_id", iss.ToolID,
		"reported_by", actorID,
		"notes", notes)
	return iss, nil
}

func (s *issuanceService) GetIssuance(ctx context.Context, id int32) (*domain.Issuance, error) {
	return s.issuanceRepo.GetByID(ctx, id)
}

func (s *issuanceService) ListActive(ctx context.Context) ([]domain.Issuance, error) {
	return s.issuanceRepo.ListActive(ctx)
}

func (s *issuanceService) ListOverdue(ctx context.Context, includeBeingProcessed bool) ([]domain.Issuance, error) {
	now := time.Now().UTC()
	if includeBeingProcessed {
		return s.issuanceRepo.ListPastDue(ctx, now, nil)
	}
	cutoff := now.Add(-s.cooldown)
	return s.issuanceRepo.ListPastDue(ctx, now, &cutoff)
}

func (s *issuanceService) ProcessOverdue(ctx context.Context) (*OverdueScanSummary, error) {
	now := time.Now().UTC()
	items, err := s.issuanceRepo.ListPastDue(ctx, now, nil)
	if err != nil {
		return nil, err
	}

	summary := &OverdueScanSummary{}
	for i := range items {
		item := &items[i]
		summary.Scanned++

		switch item.Status {
		case domain.IssuanceStatusIssued:
			flagged, err := s.issuanceRepo.MarkOverdue(ctx, item.ID, now)
			if err != nil {
				logger.Error("Failed to mark issuance overdue", "issuance_id", item.ID, "error", err)
				summary.Failures++
				continue
			}
			if !flagged {
				// Checked in between scan and write; checkin wins.
				summary.Skipped++
				continue
			}
			summary.NewlyOverdue++
			if !s.notifyOverdue(ctx, item) {
				summary.Failures++
			}

		case domain.IssuanceStatusOverdue:
			if item.LastOverdueNotificationDate != nil &&
				now.Sub(*item.LastOverdueNotificationDate) < s.cooldown {
				summary.Skipped++
				continue
			}
			touched, err := s.issuanceRepo.TouchOverdueNotification(ctx, item.ID, now)
			if err != nil {
				logger.Error("Failed to record overdue re-notification", "issuance_id", item.ID, "error", err)
				summary.Failures++
				continue
			}
			if !touched {
				summary.Skipped++
				continue
			}
			summary.Renotified++
			if !s.notifyOverdue(ctx, item) {
				summary.Failures++
			}
		}
	}

	logger.Info("Overdue scan completed",
		"scanned", summary.Scanned,
		"newly_overdue", summary.NewlyOverdue,
		"renotified", summary.Renotified,
		"skipped", summary.Skipped,
		"failures", summary.Failures)
	return summary, nil
}

// notifyOverdue sends one email plus one in-app notification for an overdue
// loan. Returns false when any part failed; failures never abort the cycle.
func (s *issuanceService) notifyOverdue(ctx context.Context, iss *domain.Issuance) bool {
	tool, err := s.toolRepo.GetByID(ctx, iss.ToolID)
	if err != nil {
		logger.Error("Failed to load tool for overdue notice", "issuance_id", iss.ID, "error", err)
		return false
	}
	tech, err := s.techRepo.GetByID(ctx, iss.IssuedToID)
	if err != nil {
		logger.Error("Failed to load technician for overdue notice", "issuance_id", iss.ID, "error", err)
		return false
	}

	ok := true
	if tech.Email != "" {
		subject := "Overdue Tool Alert"
		body := fmt.Sprintf(`Dear %s,

Tool %s (%s), issued to you under %s, was due back on %s and is now overdue.

Please return the tool as soon as possible.`,
			tech.FullName(), tool.Name, tool.Code, iss.IssuanceNumber,
			iss.ExpectedReturnDate.Format("2006-01-02"))

		// One slow recipient must not stall the rest of the cycle.
		emailCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
		err = s.emailSvc.Send(emailCtx, tech.Email, subject, body)
		cancel()
		if err != nil {
			logger.Error("Failed to send overdue email",
				"issuance_id", iss.ID, "technician_id", tech.ID, "error", err)
			ok = false
		}
	}

	note := &domain.Notification{
		Message:         fmt.Sprintf("Tool %s (%s) is overdue", tool.Name, iss.IssuanceNumber),
		RecipientUserID: tech.ID,
	}
	if err := s.noteRepo.Add(ctx, note); err != nil {
		logger.Error("Failed to store overdue notification",
			"issuance_id", iss.ID, "technician_id", tech.ID, "error", err)
		ok = false
	}
	return ok
}

// generateIssuanceNumber produces a date-stamped token and verifies it is not
// already taken. The unique column catches the remaining race.
func (s *issuanceService) generateIssuanceNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:7]
		number := fmt.Sprintf("ISS-%s-%s", time.Now().UTC().Format("20060102"), suffix)
		exists, err := s.issuanceRepo.IssuanceNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique issuance number")
}
