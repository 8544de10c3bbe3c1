package domain

import "time"

// Click is one recorded visit through a slug. Prefetch hits are never recorded.
type Click struct {
	ID         int64     `json:"id"`
	LinkID     string    `json:"link_id"`
	ClickedAt  time.Time `json:"clicked_at"`
	UserAgent  string    `json:"user_agent"`
	Referer    string    `json:"referer"`
	IPAddress  string    `json:"ip_address"`
	DeviceType string    `json:"device_type"`
}

type ClickRequest struct {
	LinkID     string
	UserAgent  string
	Referer    string
	IPAddress  string
	DeviceType string
}

type LinkAnalytics struct {
	Slug          string          `json:"slug"`
	OriginalURL   string          `json:"original_url"`
	TotalClicks   int64           `json:"total_clicks"`
	UniqueIPs     int64           `json:"unique_ips"`
	LastClickedAt *time.Time      `json:"last_clicked_at"`
	CreatedAt     time.Time       `json:"created_at"`
	TopReferrers  []ReferrerStats `json:"top_referrers"`
	DeviceStats   DeviceStats     `json:"device_stats"`
}

type ReferrerStats struct {
	Referer string `json:"referer"`
	Count   int64  `json:"count"`
}

type DeviceStats struct {
	Mobile  int64 `json:"mobile"`
	Desktop int64 `json:"desktop"`
	Tablet  int64 `json:"tablet"`
	Bot     int64 `json:"bot"`
	Unknown int64 `json:"unknown"`
}
