package app

import (
	"context"
	"fmt"
	"time"

	"marketplace_service/internal/user/domain"
	"marketplace_service/internal/user/repository"
	"marketplace_service/pkg/config"
	"marketplace_service/pkg/database"
	"marketplace_service/pkg/encrypt"
	errprocess "marketplace_service/pkg/err"
	"marketplace_service/pkg/logger"
	"marketplace_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterInput fields needed to open an account
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Country  string
	Lang     string
	IsSeller bool
}

// UserUseCase application services exposed by the user service
type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) error
	FindUser(ctx context.Context, query *domain.UserQuery) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, jwt string) error
	CheckSessionTimeout(ctx context.Context, jwt string) (bool, error)
	ReconnectSession(ctx context.Context, jwt string) error
}

type userUseCase struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.UserSession]
}

// NewUserUseCase create UserUseCase
func NewUserUseCase(userRepo repository.UserRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.UserSession],
) UserUseCase {
	return &userUseCase{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
	}
}

// Register create an account after the email is confirmed free
func (u *userUseCase) Register(ctx context.Context, input RegisterInput) error {
	if _, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &input.Email}); err == nil {
		return errprocess.Set("email already exists")
	}

	if err := encrypt.ValidatePasswordStrength(input.Password); err != nil {
		return err
	}
	pw, err := encrypt.HashPassword(input.Password)
	if err != nil {
		return err
	}

	user := domain.User{
		UserID:   uuid.New().String(),
		Username: input.Username,
		Email:    input.Email,
		Password: pw,
		Country:  input.Country,
		Lang:     input.Lang,
		IsSeller: input.IsSeller,
	}

	logger.Log.Info(fmt.Sprintf("usecase Register : %s", user.Email))

	return u.userRepo.CreateUser(ctx, &user)
}

// FindUser look a user up by query
func (u *userUseCase) FindUser(ctx context.Context, query *domain.UserQuery) (*domain.User, error) {
	return u.userRepo.FindByUser(ctx, query)
}

// Login verify credentials, open a redis session and hand back a JWT
func (u *userUseCase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		return "", errprocess.Set("user not found")
	}

	if err = user.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", err
	}

	user.Status = domain.UserStatusOnLine

	role := token.RoleUser
	if user.IsSeller {
		role = token.RoleSeller
	}
	jwt, err := token.GenerateJWT(user.UserID, string(role), config.EnvConfig.UserService)
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := domain.UserSession{
		Token:        jwt,
		UserID:       user.UserID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(u.sessionTTL),
	}
	if err := u.redisRepo.Set(context.Background(), user.UserID, session, u.sessionTTL); err != nil {
		logger.Log.Error("session store err :", zap.Error(err))
	}

	if err := u.userRepo.UpdateUserStatus(ctx, user); err != nil {
		return "", err
	}

	return jwt, nil
}

// Logout drop the session and mark the account offline
func (u *userUseCase) Logout(ctx context.Context, jwt string) error {
	claims, err := token.ParseJWT(jwt)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return err
	}

	if err := u.redisRepo.Del(context.Background(), claims.UserID); err != nil {
		logger.Log.Error("session delete err :", zap.Error(err))
	}

	return u.userRepo.UpdateUserStatus(ctx, &domain.User{
		UserID: claims.UserID,
		Status: domain.UserStatusOffLine,
	})
}

// CheckSessionTimeout report whether the user's session is gone or
// expired
func (u *userUseCase) CheckSessionTimeout(ctx context.Context, jwt string) (bool, error) {
	claims, err := token.ParseJWT(jwt)
	if err != nil {
		return true, err
	}

	session, err := u.redisRepo.Get(ctx, claims.UserID)
	if err != nil {
		return true, nil
	}
	return session.IsExpired(), nil
}

// ReconnectSession refresh the session activity window
func (u *userUseCase) ReconnectSession(ctx context.Context, jwt string) error {
	claims, err := token.ParseJWT(jwt)
	if err != nil {
		return err
	}

	session, err := u.redisRepo.Get(ctx, claims.UserID)
	if err != nil {
		return errprocess.Set("session not found")
	}

	now := time.Now()
	session.LastActivity = now
	session.ExpiredAt = now.Add(u.sessionTTL)
	return u.redisRepo.Set(ctx, claims.UserID, session, u.sessionTTL)
}
