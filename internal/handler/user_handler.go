package handler

import (
	"context"
	"errors"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/middleware"
	"github.com/JusticeIsreal/url-shortener/pkg/response"
	"github.com/JusticeIsreal/url-shortener/pkg/validator"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, requester domain.Identity, req *domain.RegisterUserRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Delete(ctx context.Context, requester domain.Identity, email string) (*domain.User, error)
}

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Bad credentials are reported uniformly, never distinguishing
		// unknown email from wrong password.
		if errors.Is(err, domain.ErrForbidden) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		renderServiceError(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"rank":     user.Rank,
		},
	})
}

func (h *UserHandler) Register(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized access")
		return
	}

	var req domain.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	user, err := h.service.Register(c.Request.Context(), identity, &req)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.Created(c, "User registered successfully", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"rank":     user.Rank,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized access")
		return
	}

	user, err := h.service.Delete(c.Request.Context(), identity, c.Param("email"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	response.OK(c, "User deleted", gin.H{"email": user.Email})
}
