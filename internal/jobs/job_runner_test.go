package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tooltrack-backend/internal/config"
	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/repository/postgres"
	"tooltrack-backend/internal/service"
)

// MockIssuanceService
type MockIssuanceService struct {
	mock.Mock
}

func (m *MockIssuanceService) Checkout(ctx context.Context, req service.CheckoutRequest) (*domain.Issuance, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issuance), args.Error(1)
}
func (m *MockIssuanceService) Checkin(ctx context.Context, req service.CheckinRequest) (*domain.Issuance, *domain.Return, error) {
	args := m.Called(ctx, req)
	var iss *domain.Issuance
	var ret *domain.Return
	if args.Get(0) != nil {
		iss = args.Get(0).(*domain.Issuance)
	}
	if args.Get(1) != nil {
		ret = args.Get(1).(*domain.Return)
	}
	return iss, ret, args.Error(2)
}
func (m *MockIssuanceService) MarkLost(ctx context.Context, issuanceID, actorID int32, notes string) (*domain.Issuance, error) {
	args := m.Called(ctx, issuanceID, actorID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issuance), args.Error(1)
}
func (m *MockIssuanceService) GetIssuance(ctx context.Context, id int32) (*domain.Issuance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issuance), args.Error(1)
}
func (m *MockIssuanceService) ListActive(ctx context.Context) ([]domain.Issuance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issuance), args.Error(1)
}
func (m *MockIssuanceService) ListOverdue(ctx context.Context, includeBeingProcessed bool) ([]domain.Issuance, error) {
	args := m.Called(ctx, includeBeingProcessed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issuance), args.Error(1)
}
func (m *MockIssuanceService) ProcessOverdue(ctx context.Context) (*service.OverdueScanSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OverdueScanSummary), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockToolRepo
type MockToolRepo struct {
	mock.Mock
}

func (m *MockToolRepo) Create(ctx context.Context, tool *domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}
func (m *MockToolRepo) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}
func (m *MockToolRepo) ListCalibrationDue(ctx context.Context, due time.Time) ([]domain.Tool, error) {
	args := m.Called(ctx, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tool), args.Error(1)
}

func newTestJobRunner(toolRepo *MockToolRepo, issuances *MockIssuanceService, email *MockEmailService, cfg *config.Config) *JobRunner {
	store := &postgres.Store{ToolRepository: toolRepo}
	return NewJobRunner(nil, store, &Services{Email: email, Issuance: issuances}, cfg)
}

func testJobConfig() *config.Config {
	return &config.Config{
		Policy: config.PolicyConfig{
			OverdueCooldownHours:     24,
			EmailTimeoutSeconds:      5,
			CalibrationLookaheadDays: 7,
			MaintenanceEmail:         "maintenance@example.com",
		},
	}
}

func TestJobRunner_RunWithRecovery(t *testing.T) {
	jr := newTestJobRunner(new(MockToolRepo), new(MockIssuanceService), new(MockEmailService), testJobConfig())

	t.Run("Panic Does Not Propagate", func(t *testing.T) {
		assert.NotPanics(t, func() {
			jr.runWithRecovery("PanickingJob", func() {
				panic("boom")
			})
		})
	})

	t.Run("Later Jobs Still Run", func(t *testing.T) {
		jr.runWithRecovery("PanickingJob", func() { panic("boom") })

		ran := false
		jr.runWithRecovery("FollowupJob", func() { ran = true })
		assert.True(t, ran)
	})
}

func TestJobRunner_ProcessOverdueIssuances(t *testing.T) {
	t.Run("Dispatches One Detector Cycle", func(t *testing.T) {
		issuances := new(MockIssuanceService)
		jr := newTestJobRunner(new(MockToolRepo), issuances, new(MockEmailService), testJobConfig())

		issuances.On("ProcessOverdue", mock.Anything).
			Return(&service.OverdueScanSummary{Scanned: 3, NewlyOverdue: 1, Renotified: 1, Skipped: 1}, nil).
			Once()

		jr.ProcessOverdueIssuances()

		issuances.AssertExpectations(t)
	})

	t.Run("Scan Error Is Swallowed", func(t *testing.T) {
		issuances := new(MockIssuanceService)
		jr := newTestJobRunner(new(MockToolRepo), issuances, new(MockEmailService), testJobConfig())

		issuances.On("ProcessOverdue", mock.Anything).Return(nil, assert.AnError)

		assert.NotPanics(t, jr.ProcessOverdueIssuances)
	})
}

func TestJobRunner_RunAllNightlyJobs(t *testing.T) {
	toolRepo := new(MockToolRepo)
	issuances := new(MockIssuanceService)
	jr := newTestJobRunner(toolRepo, issuances, new(MockEmailService), testJobConfig())

	issuances.On("ProcessOverdue", mock.Anything).
		Return(&service.OverdueScanSummary{}, nil).Once()
	toolRepo.On("ListCalibrationDue", mock.Anything, mock.Anything).
		Return([]domain.Tool{}, nil).Once()

	jr.RunAllNightlyJobs()

	issuances.AssertExpectations(t)
	toolRepo.AssertExpectations(t)
}

func TestJobRunner_CheckCalibrationDue(t *testing.T) {
	cal := time.Now().UTC().Add(48 * time.Hour)
	dueTools := []domain.Tool{
		{ID: 2, Code: "TL-001", Name: "Torque Wrench", CalibrationRequired: true, NextCalibrationDate: &cal},
	}

	t.Run("Emails Maintenance Desk", func(t *testing.T) {
		toolRepo := new(MockToolRepo)
		email := new(MockEmailService)
		jr := newTestJobRunner(toolRepo, new(MockIssuanceService), email, testJobConfig())

		toolRepo.On("ListCalibrationDue", mock.Anything, mock.MatchedBy(func(due time.Time) bool {
			lag := time.Until(due) - 7*24*time.Hour
			return lag > -time.Minute && lag < time.Minute
		})).Return(dueTools, nil)
		email.On("Send", mock.Anything, "maintenance@example.com",
			mock.MatchedBy(func(subject string) bool { return strings.Contains(subject, "Calibration Due") }),
			mock.MatchedBy(func(body string) bool { return strings.Contains(body, "TL-001") })).
			Return(nil).Once()

		jr.CheckCalibrationDue()

		email.AssertExpectations(t)
	})

	t.Run("Nothing Due Sends No Email", func(t *testing.T) {
		toolRepo := new(MockToolRepo)
		email := new(MockEmailService)
		jr := newTestJobRunner(toolRepo, new(MockIssuanceService), email, testJobConfig())

		toolRepo.On("ListCalibrationDue", mock.Anything, mock.Anything).Return([]domain.Tool{}, nil)

		jr.CheckCalibrationDue()

		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No Maintenance Address Skips Email", func(t *testing.T) {
		toolRepo := new(MockToolRepo)
		email := new(MockEmailService)
		cfg := testJobConfig()
		cfg.Policy.MaintenanceEmail = ""
		jr := newTestJobRunner(toolRepo, new(MockIssuanceService), email, cfg)

		toolRepo.On("ListCalibrationDue", mock.Anything, mock.Anything).Return(dueTools, nil)

		jr.CheckCalibrationDue()

		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
