package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/google/uuid"
)

// LinkRepository is a mutex-guarded in-memory link store. It honors the same
// contracts as the Postgres store (active-set uniqueness, atomic increments,
// all-or-nothing archival) and backs unit tests and local development.
type LinkRepository struct {
	mu       sync.Mutex
	active   map[string]*domain.Link // keyed by slug
	archived []domain.ArchivedLink
	now      func() time.Time
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		active: make(map[string]*domain.Link),
		now:    time.Now,
	}
}

// SetNowFunc overrides the clock. Test hook.
func (r *LinkRepository) SetNowFunc(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[link.Slug]; exists {
		return &domain.DuplicateKeyError{Field: "slug"}
	}
	for _, existing := range r.active {
		if existing.OriginalURL == link.OriginalURL {
			return &domain.DuplicateKeyError{Field: "original_url"}
		}
	}

	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	link.CreatedAt = r.now()
	link.ClickCount = 0

	stored := *link
	r.active[link.Slug] = &stored
	return nil
}

func (r *LinkRepository) FindBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.active[slug]
	if !exists {
		return nil, domain.ErrNotFound
	}
	copied := *link
	return &copied, nil
}

func (r *LinkRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, link := range r.active {
		if link.OriginalURL == originalURL {
			copied := *link
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *LinkRepository) IncrementClickCount(ctx context.Context, slug string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.active[slug]
	if !exists {
		return nil, domain.ErrNotFound
	}
	link.ClickCount++
	copied := *link
	return &copied, nil
}

func (r *LinkRepository) UpdateFields(ctx context.Context, slug string, fields domain.LinkFields) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fields.OriginalURL == nil && fields.ExpiresAt == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.active[slug]
	if !exists {
		return nil, domain.ErrNotFound
	}

	if fields.OriginalURL != nil {
		link.OriginalURL = *fields.OriginalURL
	}
	if fields.ExpiresAt != nil {
		link.ExpiresAt = *fields.ExpiresAt
	}

	copied := *link
	return &copied, nil
}

func (r *LinkRepository) DeleteBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.active[slug]
	if !exists {
		return nil, domain.ErrNotFound
	}
	delete(r.active, slug)
	copied := *link
	return &copied, nil
}

func (r *LinkRepository) Paginate(ctx context.Context, offset, limit int) ([]domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	links := make([]domain.Link, 0, len(r.active))
	for _, link := range r.active {
		links = append(links, *link)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})

	if offset >= len(links) {
		return nil, nil
	}
	end := offset + limit
	if end > len(links) {
		end = len(links)
	}
	return links[offset:end], nil
}

func (r *LinkRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.active)), nil
}

func (r *LinkRepository) ArchiveExpired(ctx context.Context) ([]domain.ArchivedLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var moved []domain.ArchivedLink
	for slug, link := range r.active {
		if link.ExpiresAt.Before(now) {
			moved = append(moved, domain.ArchivedLink{Link: *link, ArchivedAt: now})
			delete(r.active, slug)
		}
	}
	r.archived = append(r.archived, moved...)
	return moved, nil
}

func (r *LinkRepository) PaginateArchived(ctx context.Context, offset, limit int) ([]domain.ArchivedLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	archived := make([]domain.ArchivedLink, len(r.archived))
	copy(archived, r.archived)
	sort.Slice(archived, func(i, j int) bool {
		return archived[i].CreatedAt.After(archived[j].CreatedAt)
	})

	if offset >= len(archived) {
		return nil, nil
	}
	end := offset + limit
	if end > len(archived) {
		end = len(archived)
	}
	return archived[offset:end], nil
}

func (r *LinkRepository) CountArchived(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.archived)), nil
}
