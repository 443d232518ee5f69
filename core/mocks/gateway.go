package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ebspulse/ebspulse/core/domain"
)

// MockGateway is a testify mock of interfaces.Gateway
type MockGateway struct {
	mock.Mock
}

// NewMockGateway creates a mock that asserts its expectations when the test ends
func NewMockGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) ExecuteReport(ctx context.Context, name string, params domain.ParameterSet) (*domain.ResultSet, error) {
	args := m.Called(ctx, name, params)
	result, _ := args.Get(0).(*domain.ResultSet)
	return result, args.Error(1)
}
