package mocks

import (
	"context"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockClickStore struct {
	mock.Mock
}

func (m *MockClickStore) RecordClick(ctx context.Context, click *domain.ClickRequest) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockClickStore) GetAnalytics(ctx context.Context, linkID string) (*domain.LinkAnalytics, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkAnalytics), args.Error(1)
}
