package handler

import (
	"context"
	"fmt"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/middleware"
	"github.com/JusticeIsreal/url-shortener/pkg/response"
	"github.com/gin-gonic/gin"
)

type ArchiveService interface {
	Purge(ctx context.Context, caller domain.Identity) (int, error)
	ListArchived(ctx context.Context, caller domain.Identity, page, pageSize int) (*domain.LinkPage[domain.ArchivedLink], error)
}

type ArchiveHandler struct {
	service ArchiveService
}

func NewArchiveHandler(service ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{service: service}
}

// Purge triggers an on-demand archival sweep. The rank check lives in the
// service; the middleware only guarantees an authenticated identity exists.
func (h *ArchiveHandler) Purge(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized access")
		return
	}

	count, err := h.service.Purge(c.Request.Context(), identity)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Archived %d expired links", count), gin.H{"archived": count})
}

func (h *ArchiveHandler) ListArchived(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized access")
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 0)

	result, err := h.service.ListArchived(c.Request.Context(), identity, page, pageSize)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Archived links retrieved", result)
}
