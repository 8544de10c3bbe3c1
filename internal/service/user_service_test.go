package service

import (
	"context"
	"testing"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/token"
	"github.com/JusticeIsreal/url-shortener/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "unit-test-secret"

func registerRequest() *domain.RegisterUserRequest {
	return &domain.RegisterUserRequest{
		Username: "operator",
		Email:    "operator@example.com",
		Password: "correct-horse",
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	mockStore.On("Create", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
		return user.Email == "operator@example.com" && user.Rank == domain.RankAdmin
	})).Return(nil).Once()

	user, err := service.Register(context.Background(), superAdmin, registerRequest())

	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", user.HashedPassword, "Password must never be stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct-horse")))
	mockStore.AssertExpectations(t)
}

func TestRegister_RequiresSuperAdmin(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	user, err := service.Register(context.Background(), domain.Identity{ID: "u-1", Rank: domain.RankAdmin}, registerRequest())

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockStore.AssertNotCalled(t, "Create")
}

func TestRegister_CannotMintSuperAdmin(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	req := registerRequest()
	req.Rank = "super_admin"

	user, err := service.Register(context.Background(), superAdmin, req)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockStore.AssertNotCalled(t, "Create")
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	mockStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(&domain.DuplicateKeyError{Field: "email"}).Once()

	user, err := service.Register(context.Background(), superAdmin, registerRequest())

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mockStore.On("FindByEmail", mock.Anything, "operator@example.com").Return(&domain.User{
		ID:             "u-1",
		Email:          "operator@example.com",
		HashedPassword: string(hashed),
		Rank:           domain.RankAdmin,
	}, nil).Once()

	signed, user, err := service.Login(context.Background(), "operator@example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	identity, err := token.Parse([]byte(testJWTSecret), signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.ID)
	assert.Equal(t, domain.RankAdmin, identity.Rank)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mockStore.On("FindByEmail", mock.Anything, "operator@example.com").Return(&domain.User{
		ID:             "u-1",
		HashedPassword: string(hashed),
		Rank:           domain.RankAdmin,
	}, nil).Once()

	signed, user, err := service.Login(context.Background(), "operator@example.com", "tr0ub4dor")

	assert.Empty(t, signed)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_UnknownEmail_SameError(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	mockStore.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, domain.ErrNotFound).Once()

	signed, user, err := service.Login(context.Background(), "ghost@example.com", "anything")

	assert.Empty(t, signed)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrForbidden, "Unknown email must be indistinguishable from a wrong password")
}

func TestDeleteUser_RequiresSuperAdmin(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	user, err := service.Delete(context.Background(), domain.Identity{ID: "u-1", Rank: domain.RankAdmin}, "operator@example.com")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockStore.AssertNotCalled(t, "DeleteByEmail")
}

func TestDeleteUser_UnknownEmail_NotFound(t *testing.T) {
	mockStore := new(mocks.MockUserStore)
	service := NewUserService(mockStore, testJWTSecret, time.Hour)

	mockStore.On("DeleteByEmail", mock.Anything, "ghost@example.com").
		Return(nil, domain.ErrNotFound).Once()

	user, err := service.Delete(context.Background(), superAdmin, "ghost@example.com")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
