package app

import (
	"context"
	"os"
	"testing"
	"time"

	"marketplace_service/internal/user/domain"
	"marketplace_service/internal/user/repository"
	"marketplace_service/pkg/encrypt"
	"marketplace_service/pkg/logger"
	"marketplace_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

const strongPassword = "Sup3rSecret!"

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	email := "buyer@example.com"
	userRepo.On("FindByUser", ctx, mock.Anything).Return(nil, repository.ErrUserNotFound)
	userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == email && u.UserID != "" && u.Password != strongPassword
	})).Return(nil)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	err := uc.Register(ctx, RegisterInput{
		Username: "buyer",
		Email:    email,
		Password: strongPassword,
		Country:  "DE",
		Lang:     "de",
	})

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestUserUseCase_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	existing := &domain.User{UserID: "u1", Email: "taken@example.com"}
	userRepo.On("FindByUser", ctx, mock.Anything).Return(existing, nil)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	err := uc.Register(ctx, RegisterInput{Username: "x", Email: "taken@example.com", Password: strongPassword})

	assert.EqualError(t, err, "email already exists")
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserUseCase_Register_WeakPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUser", ctx, mock.Anything).Return(nil, repository.ErrUserNotFound)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	err := uc.Register(ctx, RegisterInput{Username: "x", Email: "a@b.c", Password: "short"})

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserUseCase_Login_SellerGetsSellerRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	sessionRepo := new(MockSessionRepository)

	hashed, err := encrypt.HashPassword(strongPassword)
	require.NoError(t, err)

	seller := &domain.User{UserID: "u1", Email: "seller@example.com", Password: hashed, IsSeller: true}
	userRepo.On("FindByUser", ctx, mock.Anything).Return(seller, nil)
	userRepo.On("UpdateUserStatus", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Status == domain.UserStatusOnLine
	})).Return(nil)
	sessionRepo.On("Set", mock.Anything, "u1", mock.Anything, time.Hour).Return(nil)

	uc := NewUserUseCase(userRepo, time.Hour, sessionRepo)
	jwt, err := uc.Login(ctx, "seller@example.com", strongPassword)

	require.NoError(t, err)
	claims, err := token.ParseJWT(jwt)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, string(token.RoleSeller), claims.Role)

	userRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestUserUseCase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	hashed, err := encrypt.HashPassword(strongPassword)
	require.NoError(t, err)
	user := &domain.User{UserID: "u1", Email: "a@b.c", Password: hashed}
	userRepo.On("FindByUser", ctx, mock.Anything).Return(user, nil)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	_, err = uc.Login(ctx, "a@b.c", "Wr0ngPass!word")

	assert.ErrorIs(t, err, encrypt.ErrPasswordMismatch)
}

func TestUserUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	sessionRepo := new(MockSessionRepository)

	jwt, err := token.GenerateJWT("u1", string(token.RoleUser), "user_service_test")
	require.NoError(t, err)

	sessionRepo.On("Del", mock.Anything, "u1").Return(nil)
	userRepo.On("UpdateUserStatus", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID == "u1" && u.Status == domain.UserStatusOffLine
	})).Return(nil)

	uc := NewUserUseCase(userRepo, time.Hour, sessionRepo)
	assert.NoError(t, uc.Logout(ctx, jwt))

	userRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestUserUseCase_CheckSessionTimeout(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)

	jwt, err := token.GenerateJWT("u1", string(token.RoleUser), "user_service_test")
	require.NoError(t, err)

	live := domain.UserSession{UserID: "u1", ExpiredAt: time.Now().Add(time.Hour)}
	sessionRepo.On("Get", ctx, "u1").Return(live, nil).Once()

	uc := NewUserUseCase(new(MockUserRepository), time.Hour, sessionRepo)
	expired, err := uc.CheckSessionTimeout(ctx, jwt)
	require.NoError(t, err)
	assert.False(t, expired)

	stale := domain.UserSession{UserID: "u1", ExpiredAt: time.Now().Add(-time.Minute)}
	sessionRepo.On("Get", ctx, "u1").Return(stale, nil).Once()

	expired, err = uc.CheckSessionTimeout(ctx, jwt)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestUserUseCase_ReconnectSession(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)

	jwt, err := token.GenerateJWT("u1", string(token.RoleUser), "user_service_test")
	require.NoError(t, err)

	old := domain.UserSession{UserID: "u1", ExpiredAt: time.Now().Add(time.Minute)}
	sessionRepo.On("Get", ctx, "u1").Return(old, nil)
	sessionRepo.On("Set", ctx, "u1", mock.MatchedBy(func(s domain.UserSession) bool {
		return s.ExpiredAt.After(time.Now().Add(30 * time.Minute))
	}), time.Hour).Return(nil)

	uc := NewUserUseCase(new(MockUserRepository), time.Hour, sessionRepo)
	assert.NoError(t, uc.ReconnectSession(ctx, jwt))
	sessionRepo.AssertExpectations(t)
}
