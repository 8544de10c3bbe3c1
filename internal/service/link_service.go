package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/logger"
	"github.com/JusticeIsreal/url-shortener/pkg/slug"
)

// LinkStore is the persistence contract for link records. Implementations
// must enforce active-set uniqueness on slug and original_url, and increment
// click counts atomically at the store.
type LinkStore interface {
	Create(ctx context.Context, link *domain.Link) error
	FindBySlug(ctx context.Context, slug string) (*domain.Link, error)
	FindByOriginalURL(ctx context.Context, originalURL string) (*domain.Link, error)
	IncrementClickCount(ctx context.Context, slug string) (*domain.Link, error)
	UpdateFields(ctx context.Context, slug string, fields domain.LinkFields) (*domain.Link, error)
	DeleteBySlug(ctx context.Context, slug string) (*domain.Link, error)
	Paginate(ctx context.Context, offset, limit int) ([]domain.Link, error)
	Count(ctx context.Context) (int64, error)
	ArchiveExpired(ctx context.Context) ([]domain.ArchivedLink, error)
	PaginateArchived(ctx context.Context, offset, limit int) ([]domain.ArchivedLink, error)
	CountArchived(ctx context.Context) (int64, error)
}

type LinkCache interface {
	GetLink(ctx context.Context, slug string) (*domain.Link, error)
	SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error
	DeleteLink(ctx context.Context, slug string) error
}

type ClickStore interface {
	RecordClick(ctx context.Context, click *domain.ClickRequest) error
	GetAnalytics(ctx context.Context, linkID string) (*domain.LinkAnalytics, error)
}

const (
	// maxSuffixRetries caps the -1, -2, ... suffix walk for custom slugs.
	// The append space is enormous relative to any realistic collision
	// rate, so hitting the cap means something is badly wrong.
	maxSuffixRetries = 1000

	// maxGenerateRetries bounds regeneration when a random slug loses the
	// insert race.
	maxGenerateRetries = 3

	defaultPageSize = 100
)

type LinkService struct {
	store   LinkStore
	cache   LinkCache
	clicks  ClickStore
	nowFunc func() time.Time
}

// NewLinkService wires the lifecycle service. cache and clicks may be nil,
// in which case caching and click analytics are skipped.
func NewLinkService(store LinkStore, cache LinkCache, clicks ClickStore) *LinkService {
	return &LinkService{
		store:   store,
		cache:   cache,
		clicks:  clicks,
		nowFunc: time.Now,
	}
}

// storeFailure logs an unexpected persistence fault with operation context
// before surfacing it as a generic server-side failure. Business-rule
// outcomes never pass through here.
func storeFailure(ctx context.Context, op, slug string, err error) error {
	logger.FromContext(ctx).Error("store operation failed",
		"operation", op,
		"slug", slug,
		"error", err,
	)
	return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, op)
}

// Shorten creates a link for originalURL. A desired slug is validated and, on
// collision, suffixed -1, -2, ... until free; a missing slug is generated.
// The insert is the authority on uniqueness: a pre-check miss followed by a
// duplicate-key insert means a concurrent writer won, and the walk continues
// rather than surfacing a spurious conflict.
func (s *LinkService) Shorten(ctx context.Context, originalURL, desiredSlug string, expiresAt *time.Time) (*domain.Link, error) {
	if originalURL == "" {
		return nil, fmt.Errorf("%w: original_url is required", domain.ErrInvalidInput)
	}

	existing, err := s.store.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		return nil, &domain.ConflictError{Existing: existing}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeFailure(ctx, "find_by_original_url", "", err)
	}

	expiry := s.nowFunc().Add(domain.DefaultRetention)
	if expiresAt != nil {
		expiry = *expiresAt
	}

	if desiredSlug != "" {
		return s.createWithDesiredSlug(ctx, originalURL, desiredSlug, expiry)
	}
	return s.createWithGeneratedSlug(ctx, originalURL, expiry)
}

func (s *LinkService) createWithDesiredSlug(ctx context.Context, originalURL, desiredSlug string, expiry time.Time) (*domain.Link, error) {
	if !slug.Validate(desiredSlug) {
		return nil, fmt.Errorf("%w: malformed or reserved slug %q", domain.ErrInvalidInput, desiredSlug)
	}

	base := slug.Normalize(desiredSlug)
	for attempt := 0; attempt <= maxSuffixRetries; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		taken, err := s.slugTaken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		link, err := s.insert(ctx, candidate, originalURL, expiry)
		if err == nil {
			return link, nil
		}
		var dup *domain.DuplicateKeyError
		if errors.As(err, &dup) {
			if dup.Field == "original_url" {
				return nil, s.conflictOnURL(ctx, originalURL)
			}
			// Lost the slug race between pre-check and insert; walk on.
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("%w: slug %q", domain.ErrExhausted, desiredSlug)
}

func (s *LinkService) createWithGeneratedSlug(ctx context.Context, originalURL string, expiry time.Time) (*domain.Link, error) {
	for attempt := 0; attempt < maxGenerateRetries; attempt++ {
		candidate, err := slug.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}

		link, err := s.insert(ctx, slug.Normalize(candidate), originalURL, expiry)
		if err == nil {
			return link, nil
		}
		var dup *domain.DuplicateKeyError
		if errors.As(err, &dup) {
			if dup.Field == "original_url" {
				return nil, s.conflictOnURL(ctx, originalURL)
			}
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("%w: generated slugs kept colliding", domain.ErrExhausted)
}

func (s *LinkService) slugTaken(ctx context.Context, candidate string) (bool, error) {
	_, err := s.store.FindBySlug(ctx, candidate)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, storeFailure(ctx, "find_by_slug", candidate, err)
}

func (s *LinkService) insert(ctx context.Context, slugValue, originalURL string, expiry time.Time) (*domain.Link, error) {
	link := &domain.Link{
		Slug:        slugValue,
		OriginalURL: originalURL,
		ExpiresAt:   expiry,
	}
	err := s.store.Create(ctx, link)
	if err == nil {
		return link, nil
	}
	if errors.Is(err, domain.ErrDuplicateKey) {
		return nil, err
	}
	return nil, storeFailure(ctx, "create", slugValue, err)
}

// conflictOnURL resolves the record behind a lost original_url race so the
// caller gets the same conflict-with-context as the pre-check path.
func (s *LinkService) conflictOnURL(ctx context.Context, originalURL string) error {
	existing, err := s.store.FindByOriginalURL(ctx, originalURL)
	if err != nil {
		return fmt.Errorf("%w: original_url already shortened", domain.ErrConflict)
	}
	return &domain.ConflictError{Existing: existing}
}

// Redirect resolves a slug to its destination. Expired links are reported as
// expired, not missing; they stay discoverable until the next sweep. A
// prefetch hit resolves the destination without counting a click; a real
// visit increments the click count exactly once at the store.
func (s *LinkService) Redirect(ctx context.Context, rawSlug string, prefetch bool) (*domain.Link, error) {
	normalized := slug.Normalize(rawSlug)

	link, err := s.lookup(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if link.Expired(s.nowFunc()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrExpired, normalized)
	}

	if prefetch {
		return link, nil
	}

	updated, err := s.store.IncrementClickCount(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted or swept between lookup and increment.
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure(ctx, "increment_click_count", normalized, err)
	}

	return updated, nil
}

// lookup reads through the cache when one is configured. Cache faults fall
// back to the store and are never surfaced.
func (s *LinkService) lookup(ctx context.Context, normalized string) (*domain.Link, error) {
	if s.cache != nil {
		if link, err := s.cache.GetLink(ctx, normalized); err == nil && link != nil {
			return link, nil
		}
	}

	link, err := s.store.FindBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure(ctx, "find_by_slug", normalized, err)
	}

	if s.cache != nil {
		cached := *link
		go func() {
			ttl := time.Until(cached.ExpiresAt)
			if ttl > 0 {
				s.cache.SetLink(context.Background(), &cached, ttl)
			}
		}()
	}

	return link, nil
}

// Details returns the full record behind a slug, distinguishing expired from
// missing the same way Redirect does.
func (s *LinkService) Details(ctx context.Context, rawSlug string) (*domain.Link, error) {
	normalized := slug.Normalize(rawSlug)

	link, err := s.lookup(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if link.Expired(s.nowFunc()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrExpired, normalized)
	}

	return link, nil
}

// RecordClick stores one click event for analytics. Best-effort; callers fire
// it off the redirect path.
func (s *LinkService) RecordClick(ctx context.Context, click *domain.ClickRequest) error {
	if s.clicks == nil {
		return nil
	}
	return s.clicks.RecordClick(ctx, click)
}

// Analytics aggregates click statistics for a slug.
func (s *LinkService) Analytics(ctx context.Context, rawSlug string) (*domain.LinkAnalytics, error) {
	if s.clicks == nil {
		return nil, domain.ErrNotFound
	}

	normalized := slug.Normalize(rawSlug)
	link, err := s.store.FindBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure(ctx, "find_by_slug", normalized, err)
	}

	analytics, err := s.clicks.GetAnalytics(ctx, link.ID)
	if err != nil {
		return nil, storeFailure(ctx, "get_analytics", normalized, err)
	}
	return analytics, nil
}

// UpdateDestination changes the destination URL and, optionally, the expiry
// of an existing link. The destination is required; an omitted expiry leaves
// the stored one untouched.
func (s *LinkService) UpdateDestination(ctx context.Context, rawSlug, originalURL string, expiresAt *time.Time) (*domain.Link, error) {
	if originalURL == "" {
		return nil, fmt.Errorf("%w: original_url is required", domain.ErrInvalidInput)
	}

	normalized := slug.Normalize(rawSlug)

	link, err := s.store.UpdateFields(ctx, normalized, domain.LinkFields{
		OriginalURL: &originalURL,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure(ctx, "update_fields", normalized, err)
	}

	s.evict(ctx, normalized)
	return link, nil
}

// DeleteSlug removes an active link and returns the deleted record.
func (s *LinkService) DeleteSlug(ctx context.Context, rawSlug string) (*domain.Link, error) {
	normalized := slug.Normalize(rawSlug)

	link, err := s.store.DeleteBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure(ctx, "delete_by_slug", normalized, err)
	}

	s.evict(ctx, normalized)
	return link, nil
}

func (s *LinkService) evict(ctx context.Context, normalized string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteLink(ctx, normalized); err != nil {
		logger.FromContext(ctx).Warn("cache eviction failed", "slug", normalized, "error", err)
	}
}

// ListActive returns one page of active links, newest first. Page is 1-based;
// a missing or non-positive page size falls back to the default.
func (s *LinkService) ListActive(ctx context.Context, page, pageSize int) (*domain.LinkPage[domain.Link], error) {
	page, pageSize = clampPage(page, pageSize)
	offset := (page - 1) * pageSize

	items, err := s.store.Paginate(ctx, offset, pageSize)
	if err != nil {
		return nil, storeFailure(ctx, "paginate", "", err)
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, storeFailure(ctx, "count", "", err)
	}

	return &domain.LinkPage[domain.Link]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
		TotalCount: total,
	}, nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
