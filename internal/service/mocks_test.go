package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tooltrack-backend/internal/domain"
)

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

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTechnicianRepo
type MockTechnicianRepo struct {
	mock.Mock
}

func (m *MockTechnicianRepo) Create(ctx context.Context, tech *domain.Technician) error {
	args := m.Called(ctx, tech)
	return args.Error(0)
}
func (m *MockTechnicianRepo) GetByID(ctx context.Context, id int32) (*domain.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

// MockIssuanceRepo
type MockIssuanceRepo struct {
	mock.Mock
}

func (m *MockIssuanceRepo) CreateIssuance(ctx context.Context, iss *domain.Issuance) error {
	args := m.Called(ctx, iss)
	return args.Error(0)
}
func (m *MockIssuanceRepo) CompleteIssuance(ctx context.Context, issuanceID int32, status domain.IssuanceStatus, toolStatus domain.ToolStatus, ret *domain.Return, at time.Time) (*domain.Issuance, *domain.Return, error) {
	args := m.Called(ctx, issuanceID, status, toolStatus, ret, at)
	var iss *domain.Issuance
	if args.Get(0) != nil {
		iss = args.Get(0).(*domain.Issuance)
	}
	var r *domain.Return
	if args.Get(1) != nil {
		r = args.Get(1).(*domain.Return)
	}
	return iss, r, args.Error(2)
}
func (m *MockIssuanceRepo) GetByID(ctx context.Context, id int32) (*domain.Issuance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issuance), args.Error(1)
}
func (m *MockIssuanceRepo) GetActiveForTool(ctx context.Context, toolID int32) (*domain.Issuance, error) {
	args := m.Called(ctx, toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issuance), args.Error(1)
}
func (m *MockIssuanceRepo) TechnicianHasOverdue(ctx context.Context, technicianID int32) (bool, error) {
	args := m.Called(ctx, technicianID)
	return args.Bool(0), args.Error(1)
}
func (m *MockIssuanceRepo) IssuanceNumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}
func (m *MockIssuanceRepo) ListActive(ctx context.Context) ([]domain.Issuance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issuance), args.Error(1)
}
func (m *MockIssuanceRepo) ListPastDue(ctx context.Context, now time.Time, notNotifiedSince *time.Time) ([]domain.Issuance, error) {
	args := m.Called(ctx, now, notNotifiedSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issuance), args.Error(1)
}
func (m *MockIssuanceRepo) MarkOverdue(ctx context.Context, id int32, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockIssuanceRepo) TouchOverdueNotification(ctx context.Context, id int32, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Add(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListForUser(ctx context.Context, userID int32) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
