package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/logger"
	"github.com/JusticeIsreal/url-shortener/pkg/detector"
	"github.com/JusticeIsreal/url-shortener/pkg/response"
	"github.com/JusticeIsreal/url-shortener/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LinkService interface {
	Shorten(ctx context.Context, originalURL, desiredSlug string, expiresAt *time.Time) (*domain.Link, error)
	Redirect(ctx context.Context, slug string, prefetch bool) (*domain.Link, error)
	Details(ctx context.Context, slug string) (*domain.Link, error)
	RecordClick(ctx context.Context, click *domain.ClickRequest) error
	Analytics(ctx context.Context, slug string) (*domain.LinkAnalytics, error)
	UpdateDestination(ctx context.Context, slug, originalURL string, expiresAt *time.Time) (*domain.Link, error)
	DeleteSlug(ctx context.Context, slug string) (*domain.Link, error)
	ListActive(ctx context.Context, page, pageSize int) (*domain.LinkPage[domain.Link], error)
}

type LinkHandler struct {
	service LinkService
	baseURL string
}

func NewLinkHandler(service LinkService, baseURL string) *LinkHandler {
	return &LinkHandler{service: service, baseURL: baseURL}
}

// renderServiceError maps the typed business outcomes onto HTTP statuses.
func renderServiceError(c *gin.Context, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithData(c, http.StatusConflict, "The provided URL has already been shortened", conflict.Existing)
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrExhausted), domain.IsConflict(err):
		response.Conflict(c, err.Error())
	case domain.IsNotFound(err):
		response.NotFound(c, "Slug is not attached to any URL in the system")
	case domain.IsExpired(err):
		response.Gone(c, "Link expired")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}

func (h *LinkHandler) shortURL(slug string) string {
	return fmt.Sprintf("%s/%s", h.baseURL, slug)
}

// parseExpiresAt accepts an RFC 3339 expiry or nothing.
func parseExpiresAt(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *LinkHandler) Shorten(c *gin.Context) {
	var req domain.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		response.BadRequest(c, "expires_at must be an RFC 3339 timestamp")
		return
	}

	link, err := h.service.Shorten(c.Request.Context(), req.OriginalURL, req.Slug, expiresAt)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.Created(c, "Shortened URL created", gin.H{
		"slug":       link.Slug,
		"short_url":  h.shortURL(link.Slug),
		"expires_at": link.ExpiresAt,
	})
}

func (h *LinkHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")
	prefetch := detector.IsPrefetch(c.Request.Header)

	link, err := h.service.Redirect(c.Request.Context(), slug, prefetch)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	if !prefetch {
		click := &domain.ClickRequest{
			LinkID:     link.ID,
			UserAgent:  c.Request.UserAgent(),
			Referer:    c.Request.Referer(),
			IPAddress:  detector.ClientIP(c.Request.RemoteAddr, c.GetHeader("X-Forwarded-For"), c.GetHeader("X-Real-IP")),
			DeviceType: detector.DeviceType(c.Request.UserAgent()),
		}
		log := logger.FromContext(c.Request.Context())
		go func() {
			if err := h.service.RecordClick(context.Background(), click); err != nil {
				log.Warn("click recording failed", "slug", link.Slug, "error", err)
			}
		}()
	}

	// 302 keeps browsers re-resolving through the service so expiry and
	// click accounting stay accurate.
	c.Redirect(http.StatusFound, link.OriginalURL)
}

func (h *LinkHandler) Details(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Slug is required")
		return
	}

	link, err := h.service.Details(c.Request.Context(), slug)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Slug details retrieved", gin.H{
		"original_url": link.OriginalURL,
		"slug":         link.Slug,
		"short_url":    h.shortURL(link.Slug),
		"created_at":   link.CreatedAt,
		"expires_at":   link.ExpiresAt,
		"click_count":  link.ClickCount,
	})
}

func (h *LinkHandler) Analytics(c *gin.Context) {
	slug := c.Param("slug")

	analytics, err := h.service.Analytics(c.Request.Context(), slug)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Analytics retrieved", analytics)
}

func (h *LinkHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var req domain.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		response.BadRequest(c, "expires_at must be an RFC 3339 timestamp")
		return
	}

	link, err := h.service.UpdateDestination(c.Request.Context(), slug, req.OriginalURL, expiresAt)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Shortened URL updated", gin.H{
		"original_url": link.OriginalURL,
		"expires_at":   link.ExpiresAt,
	})
}

func (h *LinkHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.service.DeleteSlug(c.Request.Context(), slug)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Shortened URL deleted", link)
}

func (h *LinkHandler) ListActive(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 0)

	result, err := h.service.ListActive(c.Request.Context(), page, pageSize)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Active links retrieved", result)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
