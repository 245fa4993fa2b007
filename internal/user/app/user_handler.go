package app

import (
	"time"

	"marketplace_service/internal/user/domain"
	"marketplace_service/pkg/logger"
	"marketplace_service/pkg/middlewares"
	"marketplace_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler REST surface over UserUseCase
type UserHandler struct {
	userUC UserUseCase
}

// NewUserHandler create UserHandler
func NewUserHandler(userUC UserUseCase) *UserHandler {
	return &UserHandler{userUC: userUC}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
	Lang     string `json:"lang"`
	IsSeller bool   `json:"is_seller"`
}

// Register POST /auth/register
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username, email and password are required"})
	}

	if err := h.userUC.Register(c.Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Country:  req.Country,
		Lang:     req.Lang,
		IsSeller: req.IsSeller,
	}); err != nil {
		logger.Log.Error("Register Err", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "create success"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /auth/login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	jwt, err := h.userUC.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.Error("Login Err", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    jwt,
		HTTPOnly: true,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return c.JSON(fiber.Map{"token": jwt})
}

// Logout POST /auth/logout
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.userUC.Logout(c.Context(), sessionToken(c)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	c.ClearCookie("auth_token")
	return c.JSON(fiber.Map{"message": "logout success"})
}

func sessionToken(c *fiber.Ctx) string {
	jwt := c.Cookies("auth_token")
	if jwt == "" {
		jwt = c.Query("auth")
	}
	return jwt
}

// Session GET /auth/session
func (h *UserHandler) Session(c *fiber.Ctx) error {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		ok, err := token.CheckJWTNotExpire(auth)
		if err != nil || !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"expired": true})
		}
	}

	expired, err := h.userUC.CheckSessionTimeout(c.Context(), sessionToken(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"expired": expired})
}

// Reconnect POST /auth/reconnect
func (h *UserHandler) Reconnect(c *fiber.Ctx) error {
	if err := h.userUC.ReconnectSession(c.Context(), sessionToken(c)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "session extended"})
}

// Me GET /users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	user, err := h.userUC.FindUser(c.Context(), &domain.UserQuery{UserID: &userID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"user_id":   user.UserID,
		"username":  user.Username,
		"email":     user.Email,
		"country":   user.Country,
		"lang":      user.Lang,
		"is_seller": user.IsSeller,
	})
}

// GetUser GET /users/:id public profile used by the chat and booking
// services
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	user, err := h.userUC.FindUser(c.Context(), &domain.UserQuery{UserID: &userID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"user_id":   user.UserID,
		"username":  user.Username,
		"country":   user.Country,
		"is_seller": user.IsSeller,
	})
}
