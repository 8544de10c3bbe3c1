package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, requester domain.Identity, req *domain.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *mockUserService) Delete(ctx context.Context, requester domain.Identity, email string) (*domain.User, error) {
	args := m.Called(ctx, requester, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newUserRouter(service *mockUserService, identity *domain.Identity) *gin.Engine {
	h := NewUserHandler(service)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	authed := r.Group("/api/auth")
	if identity != nil {
		authed.Use(func(c *gin.Context) {
			middleware.SetIdentity(c, *identity)
			c.Next()
		})
	}
	authed.POST("/register", h.Register)
	authed.DELETE("/users/:email", h.Delete)
	return r
}

func TestLoginEndpoint_Success(t *testing.T) {
	service := new(mockUserService)
	router := newUserRouter(service, nil)

	service.On("Login", mock.Anything, "operator@example.com", "correct-horse").
		Return("signed-token", &domain.User{
			ID:    "u-1",
			Email: "operator@example.com",
			Rank:  domain.RankAdmin,
		}, nil).Once()

	w := performJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "operator@example.com",
		"password": "correct-horse",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "signed-token", data["token"])
}

func TestLoginEndpoint_BadCredentials_Uniform(t *testing.T) {
	service := new(mockUserService)
	router := newUserRouter(service, nil)

	service.On("Login", mock.Anything, "operator@example.com", "wrong").
		Return("", nil, domain.ErrForbidden).Once()

	w := performJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "operator@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	service := new(mockUserService)
	router := newUserRouter(service, nil)

	w := performJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{"email": "operator@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Login")
}

func TestRegisterEndpoint_NoIdentity_Unauthorized(t *testing.T) {
	service := new(mockUserService)
	router := newUserRouter(service, nil)

	w := performJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "operator",
		"email":    "operator@example.com",
		"password": "correct-horse",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	service.AssertNotCalled(t, "Register")
}

func TestRegisterEndpoint_Created(t *testing.T) {
	service := new(mockUserService)
	root := domain.Identity{ID: "root-1", Rank: domain.RankSuperAdmin}
	router := newUserRouter(service, &root)

	service.On("Register", mock.Anything, root, mock.AnythingOfType("*domain.RegisterUserRequest")).
		Return(&domain.User{
			ID:       "u-2",
			Username: "operator",
			Email:    "operator@example.com",
			Rank:     domain.RankAdmin,
		}, nil).Once()

	w := performJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "operator",
		"email":    "operator@example.com",
		"password": "correct-horse",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "operator@example.com", data["email"])
}

func TestRegisterEndpoint_Forbidden(t *testing.T) {
	service := new(mockUserService)
	admin := domain.Identity{ID: "u-1", Rank: domain.RankAdmin}
	router := newUserRouter(service, &admin)

	service.On("Register", mock.Anything, admin, mock.AnythingOfType("*domain.RegisterUserRequest")).
		Return(nil, domain.ErrForbidden).Once()

	w := performJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "operator",
		"email":    "operator@example.com",
		"password": "correct-horse",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	service := new(mockUserService)
	root := domain.Identity{ID: "root-1", Rank: domain.RankSuperAdmin}
	router := newUserRouter(service, &root)

	service.On("Delete", mock.Anything, root, "operator@example.com").
		Return(&domain.User{Email: "operator@example.com"}, nil).Once()

	w := performJSON(t, router, http.MethodDelete, "/api/auth/users/operator@example.com", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}
