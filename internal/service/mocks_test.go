package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"interviewhub/internal/domain"
)

// Hand-rolled testify mocks for the repository and registry interfaces.

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) GroupsOf(ctx context.Context, userID string) ([]*domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Group), args.Error(1)
}

func (m *MockGroupRepo) MembersOf(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) AppendDirect(ctx context.Context, msg *domain.DirectMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) QueryDirectPage(ctx context.Context, userA, userB string, offset, limit int) ([]*domain.DirectMessage, error) {
	args := m.Called(ctx, userA, userB, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DirectMessage), args.Error(1)
}

func (m *MockMessageRepo) QueryDirectBefore(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*domain.DirectMessage, error) {
	args := m.Called(ctx, userA, userB, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DirectMessage), args.Error(1)
}

func (m *MockMessageRepo) CountDirect(ctx context.Context, userA, userB string) (int, error) {
	args := m.Called(ctx, userA, userB)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageRepo) MarkRead(ctx context.Context, senderID, recipientID string) error {
	args := m.Called(ctx, senderID, recipientID)
	return args.Error(0)
}

func (m *MockMessageRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGroupMessageRepo struct {
	mock.Mock
}

func (m *MockGroupMessageRepo) AppendGroup(ctx context.Context, msg *domain.GroupMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockGroupMessageRepo) ListForGroup(ctx context.Context, groupID string) ([]*domain.GroupMessage, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GroupMessage), args.Error(1)
}

func (m *MockGroupMessageRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) SendToUser(userID string, v any) bool {
	args := m.Called(userID, v)
	return args.Bool(0)
}

func (m *MockRegistry) BroadcastToGroup(groupID string, v any) {
	m.Called(groupID, v)
}
