package mocks

import (
	"context"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) Purge(ctx context.Context, caller domain.Identity) (int, error) {
	args := m.Called(ctx, caller)
	return args.Int(0), args.Error(1)
}

func (m *MockArchiveService) ListArchived(ctx context.Context, caller domain.Identity, page, pageSize int) (*domain.LinkPage[domain.ArchivedLink], error) {
	args := m.Called(ctx, caller, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkPage[domain.ArchivedLink]), args.Error(1)
}
