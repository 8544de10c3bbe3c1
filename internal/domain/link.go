package domain

import "time"

// Link is a shortened URL record in the active set.
type Link struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	OriginalURL string    `json:"original_url"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the link is logically expired at the given instant.
// Expired links stay in the active set until the next archival sweep.
func (l *Link) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// ArchivedLink is a Link moved out of the active set by a sweep.
type ArchivedLink struct {
	Link
	ArchivedAt time.Time `json:"archived_at"`
}

type ShortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,url"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,slug"`
	ExpiresAt   string `json:"expires_at,omitempty" validate:"omitempty"`
}

type UpdateLinkRequest struct {
	OriginalURL string `json:"original_url" validate:"required,url"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// LinkFields is a partial update applied to an existing link.
// At least one field must be set.
type LinkFields struct {
	OriginalURL *string
	ExpiresAt   *time.Time
}

// LinkPage is one page of an active or archived listing.
type LinkPage[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

// DefaultRetention is how long a link lives when no expiry is supplied.
const DefaultRetention = 30 * 24 * time.Hour
