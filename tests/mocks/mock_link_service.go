package mocks

import (
	"context"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) Shorten(ctx context.Context, originalURL, desiredSlug string, expiresAt *time.Time) (*domain.Link, error) {
	args := m.Called(ctx, originalURL, desiredSlug, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) Redirect(ctx context.Context, slug string, prefetch bool) (*domain.Link, error) {
	args := m.Called(ctx, slug, prefetch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) Details(ctx context.Context, slug string) (*domain.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) RecordClick(ctx context.Context, click *domain.ClickRequest) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockLinkService) Analytics(ctx context.Context, slug string) (*domain.LinkAnalytics, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkAnalytics), args.Error(1)
}

func (m *MockLinkService) UpdateDestination(ctx context.Context, slug, originalURL string, expiresAt *time.Time) (*domain.Link, error) {
	args := m.Called(ctx, slug, originalURL, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) DeleteSlug(ctx context.Context, slug string) (*domain.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) ListActive(ctx context.Context, page, pageSize int) (*domain.LinkPage[domain.Link], error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkPage[domain.Link]), args.Error(1)
}
