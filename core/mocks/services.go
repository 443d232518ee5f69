package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ebspulse/ebspulse/core/domain"
)

// MockReportService is a testify mock of interfaces.ReportService
type MockReportService struct {
	mock.Mock
}

// NewMockReportService creates a mock that asserts its expectations when the test ends
func NewMockReportService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportService {
	m := &MockReportService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockReportService) RunReport(ctx context.Context, name string, rawInputs map[string]string) (*domain.ResultSet, error) {
	args := m.Called(ctx, name, rawInputs)
	result, _ := args.Get(0).(*domain.ResultSet)
	return result, args.Error(1)
}

func (m *MockReportService) TestConnection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
