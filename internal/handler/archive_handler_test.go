package handler

import (
	"net/http"
	"testing"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/middleware"
	"github.com/JusticeIsreal/url-shortener/tests/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newArchiveRouter(service *mocks.MockArchiveService, identity *domain.Identity) *gin.Engine {
	h := NewArchiveHandler(service)
	r := gin.New()
	if identity != nil {
		r.Use(func(c *gin.Context) {
			middleware.SetIdentity(c, *identity)
			c.Next()
		})
	}
	r.POST("/api/admin/purge-expired", h.Purge)
	r.GET("/api/admin/archived", h.ListArchived)
	return r
}

func TestPurgeEndpoint_NoIdentity_Unauthorized(t *testing.T) {
	service := new(mocks.MockArchiveService)
	router := newArchiveRouter(service, nil)

	w := performJSON(t, router, http.MethodPost, "/api/admin/purge-expired", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	service.AssertNotCalled(t, "Purge")
}

func TestPurgeEndpoint_Forbidden(t *testing.T) {
	service := new(mocks.MockArchiveService)
	admin := domain.Identity{ID: "u-1", Rank: domain.RankAdmin}
	router := newArchiveRouter(service, &admin)

	service.On("Purge", mock.Anything, admin).Return(0, domain.ErrForbidden).Once()

	w := performJSON(t, router, http.MethodPost, "/api/admin/purge-expired", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPurgeEndpoint_ReportsCount(t *testing.T) {
	service := new(mocks.MockArchiveService)
	root := domain.Identity{ID: "root-1", Rank: domain.RankSuperAdmin}
	router := newArchiveRouter(service, &root)

	service.On("Purge", mock.Anything, root).Return(4, nil).Once()

	w := performJSON(t, router, http.MethodPost, "/api/admin/purge-expired", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["archived"])
	service.AssertExpectations(t)
}

func TestListArchivedEndpoint(t *testing.T) {
	service := new(mocks.MockArchiveService)
	root := domain.Identity{ID: "root-1", Rank: domain.RankSuperAdmin}
	router := newArchiveRouter(service, &root)

	service.On("ListArchived", mock.Anything, root, 1, 0).
		Return(&domain.LinkPage[domain.ArchivedLink]{
			Items:      []domain.ArchivedLink{},
			Page:       1,
			PageSize:   100,
			TotalPages: 0,
		}, nil).Once()

	w := performJSON(t, router, http.MethodGet, "/api/admin/archived", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}
