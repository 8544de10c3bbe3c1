package postgres

import (
	"context"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClickRepository struct {
	db *pgxpool.Pool
}

func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) RecordClick(ctx context.Context, click *domain.ClickRequest) error {
	query := `
		INSERT INTO url_clicks (link_id, user_agent, referer, ip_address, device_type)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		click.LinkID,
		click.UserAgent,
		click.Referer,
		click.IPAddress,
		click.DeviceType,
	)
	return err
}

func (r *ClickRepository) GetAnalytics(ctx context.Context, linkID string) (*domain.LinkAnalytics, error) {
	analytics := &domain.LinkAnalytics{}

	query := `
		SELECT
			u.slug,
			u.original_url,
			u.click_count,
			u.created_at,
			MAX(c.clicked_at) as last_clicked_at,
			COUNT(DISTINCT c.ip_address) as unique_ips
		FROM urls u
		LEFT JOIN url_clicks c ON u.id = c.link_id
		WHERE u.id = $1
		GROUP BY u.id, u.slug, u.original_url, u.click_count, u.created_at
	`

	var lastClickedAt *time.Time
	err := r.db.QueryRow(ctx, query, linkID).Scan(
		&analytics.Slug,
		&analytics.OriginalURL,
		&analytics.TotalClicks,
		&analytics.CreatedAt,
		&lastClickedAt,
		&analytics.UniqueIPs,
	)
	if err != nil {
		return nil, err
	}
	analytics.LastClickedAt = lastClickedAt

	topReferrers, err := r.getTopReferrers(ctx, linkID, 5)
	if err != nil {
		return nil, err
	}
	analytics.TopReferrers = topReferrers

	deviceStats, err := r.getDeviceStats(ctx, linkID)
	if err != nil {
		return nil, err
	}
	analytics.DeviceStats = *deviceStats

	return analytics, nil
}

func (r *ClickRepository) getTopReferrers(ctx context.Context, linkID string, limit int) ([]domain.ReferrerStats, error) {
	query := `
		SELECT
			COALESCE(NULLIF(referer, ''), 'Direct') as referer,
			COUNT(*) as count
		FROM url_clicks
		WHERE link_id = $1
		GROUP BY referer
		ORDER BY count DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, linkID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ReferrerStats
	for rows.Next() {
		var rs domain.ReferrerStats
		if err := rows.Scan(&rs.Referer, &rs.Count); err != nil {
			return nil, err
		}
		results = append(results, rs)
	}

	return results, rows.Err()
}

func (r *ClickRepository) getDeviceStats(ctx context.Context, linkID string) (*domain.DeviceStats, error) {
	query := `
		SELECT
			COALESCE(device_type, 'unknown') as device_type,
			COUNT(*) as count
		FROM url_clicks
		WHERE link_id = $1
		GROUP BY device_type
	`

	rows, err := r.db.Query(ctx, query, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.DeviceStats{}
	for rows.Next() {
		var deviceType string
		var count int64
		if err := rows.Scan(&deviceType, &count); err != nil {
			return nil, err
		}

		switch deviceType {
		case "mobile":
			stats.Mobile = count
		case "desktop":
			stats.Desktop = count
		case "tablet":
			stats.Tablet = count
		case "bot":
			stats.Bot = count
		default:
			stats.Unknown = count
		}
	}

	return stats, rows.Err()
}
