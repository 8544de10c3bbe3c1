package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LinkRepository is the Postgres-backed link store. Slugs are stored
// lowercased; callers are expected to normalize before lookups.
type LinkRepository struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

const linkColumns = "id, slug, original_url, click_count, created_at, expires_at"

func scanLink(row pgx.Row) (*domain.Link, error) {
	var link domain.Link
	err := row.Scan(
		&link.ID,
		&link.Slug,
		&link.OriginalURL,
		&link.ClickCount,
		&link.CreatedAt,
		&link.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}

	query := `
		INSERT INTO urls (id, slug, original_url, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING click_count, created_at
	`

	err := r.db.QueryRow(ctx, query, link.ID, link.Slug, link.OriginalURL, link.ExpiresAt).
		Scan(&link.ClickCount, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			field := "slug"
			if strings.Contains(pgErr.ConstraintName, "original_url") {
				field = "original_url"
			}
			return &domain.DuplicateKeyError{Field: field}
		}
		return err
	}
	return nil
}

func (r *LinkRepository) FindBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM urls WHERE slug = $1`, linkColumns)
	return scanLink(r.db.QueryRow(ctx, query, slug))
}

func (r *LinkRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM urls WHERE original_url = $1`, linkColumns)
	return scanLink(r.db.QueryRow(ctx, query, originalURL))
}

// IncrementClickCount bumps the counter in a single UPDATE so concurrent
// redirects on the same slug never lose increments.
func (r *LinkRepository) IncrementClickCount(ctx context.Context, slug string) (*domain.Link, error) {
	query := fmt.Sprintf(`
		UPDATE urls
		SET click_count = click_count + 1
		WHERE slug = $1
		RETURNING %s
	`, linkColumns)
	return scanLink(r.db.QueryRow(ctx, query, slug))
}

func (r *LinkRepository) UpdateFields(ctx context.Context, slug string, fields domain.LinkFields) (*domain.Link, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	idx := 1

	if fields.OriginalURL != nil {
		sets = append(sets, fmt.Sprintf("original_url = $%d", idx))
		args = append(args, *fields.OriginalURL)
		idx++
	}
	if fields.ExpiresAt != nil {
		sets = append(sets, fmt.Sprintf("expires_at = $%d", idx))
		args = append(args, *fields.ExpiresAt)
		idx++
	}
	if len(sets) == 0 {
		return nil, domain.ErrInvalidInput
	}

	args = append(args, slug)
	query := fmt.Sprintf(`
		UPDATE urls
		SET %s
		WHERE slug = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), idx, linkColumns)

	return scanLink(r.db.QueryRow(ctx, query, args...))
}

func (r *LinkRepository) DeleteBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	query := fmt.Sprintf(`DELETE FROM urls WHERE slug = $1 RETURNING %s`, linkColumns)
	return scanLink(r.db.QueryRow(ctx, query, slug))
}

func (r *LinkRepository) Paginate(ctx context.Context, offset, limit int) ([]domain.Link, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM urls
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, linkColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var link domain.Link
		err := rows.Scan(
			&link.ID,
			&link.Slug,
			&link.OriginalURL,
			&link.ClickCount,
			&link.CreatedAt,
			&link.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

func (r *LinkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM urls`).Scan(&count)
	return count, err
}

// ArchiveExpired moves every expired record from urls to archived_urls in a
// single statement. The CTE delete-and-insert runs atomically, so a record is
// either fully moved or left untouched.
func (r *LinkRepository) ArchiveExpired(ctx context.Context) ([]domain.ArchivedLink, error) {
	query := `
		WITH moved_rows AS (
			DELETE FROM urls
			WHERE expires_at < NOW()
			RETURNING id, slug, original_url, click_count, created_at, expires_at
		)
		INSERT INTO archived_urls (id, slug, original_url, click_count, created_at, expires_at, archived_at)
		SELECT id, slug, original_url, click_count, created_at, expires_at, NOW()
		FROM moved_rows
		RETURNING id, slug, original_url, click_count, created_at, expires_at, archived_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArchivedRows(rows)
}

func (r *LinkRepository) PaginateArchived(ctx context.Context, offset, limit int) ([]domain.ArchivedLink, error) {
	query := `
		SELECT id, slug, original_url, click_count, created_at, expires_at, archived_at
		FROM archived_urls
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArchivedRows(rows)
}

func (r *LinkRepository) CountArchived(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM archived_urls`).Scan(&count)
	return count, err
}

func scanArchivedRows(rows pgx.Rows) ([]domain.ArchivedLink, error) {
	var archived []domain.ArchivedLink
	for rows.Next() {
		var link domain.ArchivedLink
		err := rows.Scan(
			&link.ID,
			&link.Slug,
			&link.OriginalURL,
			&link.ClickCount,
			&link.CreatedAt,
			&link.ExpiresAt,
			&link.ArchivedAt,
		)
		if err != nil {
			return nil, err
		}
		archived = append(archived, link)
	}
	return archived, rows.Err()
}
