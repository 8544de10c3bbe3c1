package mocks

import (
	"context"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLinkCache struct {
	mock.Mock
}

func (m *MockLinkCache) GetLink(ctx context.Context, slug string) (*domain.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkCache) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	args := m.Called(ctx, link, ttl)
	return args.Error(0)
}

func (m *MockLinkCache) DeleteLink(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}
