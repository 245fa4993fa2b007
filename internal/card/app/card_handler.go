package app

import (
	"errors"
	"strconv"

	"marketplace_service/internal/card/domain"
	"marketplace_service/pkg"
	errprocess "marketplace_service/pkg/err"
	"marketplace_service/pkg/middlewares"
	"marketplace_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// CardHandler REST surface over CardUseCase
type CardHandler struct {
	cardUC *CardUseCase
}

// NewCardHandler create CardHandler
func NewCardHandler(cardUC *CardUseCase) *CardHandler {
	return &CardHandler{cardUC: cardUC}
}

func fiberError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errprocess.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errprocess.ErrForbidden):
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func sellerFromLocals(c *fiber.Ctx) (string, bool) {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	role, _ := c.Locals(middlewares.TokenRole).(string)
	if !pkg.Contains([]string{string(token.RoleSeller), string(token.RoleAdmin)}, role) {
		return "", false
	}
	return userID, true
}

// ListCards GET /cards
func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	minPrice, _ := strconv.ParseInt(c.Query("min"), 10, 64)
	maxPrice, _ := strconv.ParseInt(c.Query("max"), 10, 64)
	query := domain.CardQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.Query("sort"),
	}

	cards, err := h.cardUC.ListCards(c.Context(), query)
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(cards)
}

// FeaturedCards GET /cards/featured
func (h *CardHandler) FeaturedCards(c *fiber.Ctx) error {
	cards, err := h.cardUC.FeaturedCards(c.Context())
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(cards)
}

// CardsByCategory GET /cards/category/:category
func (h *CardHandler) CardsByCategory(c *fiber.Ctx) error {
	cards, err := h.cardUC.CardsByCategory(c.Context(), c.Params("category"))
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(cards)
}

// GetCard GET /cards/:id
func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	card, err := h.cardUC.GetCard(c.Context(), c.Params("id"))
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(card)
}

type cardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Cover       string `json:"cover"`
	Price       int64  `json:"price"`
	Featured    bool   `json:"featured"`
}

// CreateCard POST /cards
func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	sellerID, ok := sellerFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "seller role required"})
	}

	var req cardRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and category are required"})
	}

	card := &domain.Card{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Cover:       req.Cover,
		Price:       req.Price,
		Featured:    req.Featured,
	}
	if err := h.cardUC.CreateCard(c.Context(), card); err != nil {
		return fiberError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// UpdateCard PUT /cards/:id
func (h *CardHandler) UpdateCard(c *fiber.Ctx) error {
	sellerID, ok := sellerFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "seller role required"})
	}

	var req cardRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and category are required"})
	}

	card := &domain.Card{
		ID:          c.Params("id"),
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Cover:       req.Cover,
		Price:       req.Price,
		Featured:    req.Featured,
	}
	if err := h.cardUC.UpdateCard(c.Context(), sellerID, card); err != nil {
		return fiberError(c, err)
	}
	return c.JSON(card)
}

// DeleteCard DELETE /cards/:id
func (h *CardHandler) DeleteCard(c *fiber.Ctx) error {
	sellerID, ok := sellerFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "seller role required"})
	}

	if err := h.cardUC.DeleteCard(c.Context(), sellerID, c.Params("id")); err != nil {
		return fiberError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
