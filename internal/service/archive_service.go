package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/logger"
)

// ArchiveService moves expired links out of the active set, preserving their
// history in the archive. Sweeps are idempotent: a record is moved at most
// once, and back-to-back sweeps with no new expirations move nothing.
type ArchiveService struct {
	store LinkStore
}

func NewArchiveService(store LinkStore) *ArchiveService {
	return &ArchiveService{store: store}
}

// Sweep archives every link whose expiry has passed and returns how many
// moved. The scheduler calls this directly; administrative callers go
// through Purge.
func (s *ArchiveService) Sweep(ctx context.Context) (int, error) {
	moved, err := s.store.ArchiveExpired(ctx)
	if err != nil {
		return 0, storeFailure(ctx, "archive_expired", "", err)
	}

	if len(moved) > 0 {
		logger.FromContext(ctx).Info("archived expired links", "count", len(moved))
	}
	return len(moved), nil
}

// Purge is the on-demand sweep. Only super_admin callers may trigger it; the
// rank check runs before any store work.
func (s *ArchiveService) Purge(ctx context.Context, caller domain.Identity) (int, error) {
	if !caller.IsSuperAdmin() {
		return 0, fmt.Errorf("%w: purge requires super_admin", domain.ErrForbidden)
	}
	return s.Sweep(ctx)
}

// ListArchived pages through the archive, newest first, under the same
// pagination contract as the active listing. super_admin only.
func (s *ArchiveService) ListArchived(ctx context.Context, caller domain.Identity, page, pageSize int) (*domain.LinkPage[domain.ArchivedLink], error) {
	if !caller.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: archived listing requires super_admin", domain.ErrForbidden)
	}

	page, pageSize = clampPage(page, pageSize)
	offset := (page - 1) * pageSize

	items, err := s.store.PaginateArchived(ctx, offset, pageSize)
	if err != nil {
		return nil, storeFailure(ctx, "paginate_archived", "", err)
	}

	total, err := s.store.CountArchived(ctx)
	if err != nil {
		return nil, storeFailure(ctx, "count_archived", "", err)
	}

	return &domain.LinkPage[domain.ArchivedLink]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
		TotalCount: total,
	}, nil
}

// Run sweeps on a fixed interval until the context is cancelled. Meant to be
// started once from main, independent of request traffic.
func (s *ArchiveService) Run(ctx context.Context, interval time.Duration) {
	log := logger.Get()
	log.Info("archive sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("archive sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				log.Error("scheduled sweep failed", "error", err)
			}
		}
	}
}
