package app

import (
	"errors"

	"marketplace_service/internal/booking/domain"
	errprocess "marketplace_service/pkg/err"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler REST surface over BookingUseCase
type BookingHandler struct {
	bookingUC *BookingUseCase
}

// NewBookingHandler create BookingHandler
func NewBookingHandler(bookingUC *BookingUseCase) *BookingHandler {
	return &BookingHandler{bookingUC: bookingUC}
}

func fiberError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errprocess.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errprocess.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrBadTransition):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type createBookingRequest struct {
	CardID      string `json:"card_id"`
	SellerID    string `json:"seller_id"`
	Price       int64  `json:"price"`
	ScheduledAt int64  `json:"scheduled_at"`
}

// CreateBooking POST /bookings
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil || req.CardID == "" || req.SellerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card_id and seller_id are required"})
	}

	booking := &domain.Booking{
		CardID:      req.CardID,
		BuyerID:     userID,
		SellerID:    req.SellerID,
		Price:       req.Price,
		ScheduledAt: req.ScheduledAt,
	}
	if err := h.bookingUC.CreateBooking(c.Context(), booking); err != nil {
		return fiberError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// ListBookings GET /bookings
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	bookings, err := h.bookingUC.GetBookings(c.Context(), userID)
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(bookings)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus PATCH /bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status is required"})
	}

	booking, err := h.bookingUC.UpdateStatus(c.Context(), c.Params("id"), userID, domain.BookingStatus(req.Status))
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(booking)
}
