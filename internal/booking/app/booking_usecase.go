package app

import (
	"context"
	"errors"
	"time"

	"marketplace_service/internal/booking/domain"
	"marketplace_service/internal/booking/repository"
	"marketplace_service/pkg/cache"
	"marketplace_service/pkg/config"
	errprocess "marketplace_service/pkg/err"

	"github.com/google/uuid"
)

// ErrBadTransition the requested status change is not allowed from the
// booking's current state
var ErrBadTransition = errors.New("status transition not allowed")

// BookingUseCase booking lifecycle with a cached per-user listing.
// Both sides' list keys are dropped on every mutation.
type BookingUseCase struct {
	repo        repository.BookingRepository
	listCache   *cache.ReadThrough[[]domain.Booking]
	invalidator *cache.Invalidator
	ttl         time.Duration
}

// NewBookingUseCase create BookingUseCase
func NewBookingUseCase(repo repository.BookingRepository, store cache.Store, cfg config.CacheConfig) *BookingUseCase {
	return &BookingUseCase{
		repo:        repo,
		listCache:   cache.NewReadThrough[[]domain.Booking](store),
		invalidator: cache.NewInvalidator(store),
		ttl:         time.Duration(cfg.TTLSeconds) * time.Second,
	}
}

func userBookingsKey(userID string) string {
	return cache.Key("bookings", "user", userID)
}

// CreateBooking place an order on a card
func (uc *BookingUseCase) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	booking.BookingID = uuid.New().String()
	booking.Status = domain.BookingPending
	if err := uc.repo.Create(ctx, booking); err != nil {
		return errprocess.Persistence("insert booking", err)
	}

	if err := uc.invalidator.DeleteKeys(ctx,
		userBookingsKey(booking.BuyerID),
		userBookingsKey(booking.SellerID),
	); err != nil {
		errprocess.Cache("invalidate bookings "+booking.BookingID, err)
	}
	return nil
}

// GetBookings list a user's bookings buyer- or seller-side, served
// read-through
func (uc *BookingUseCase) GetBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := uc.listCache.GetOrCompute(ctx, userBookingsKey(userID), uc.ttl, func(ctx context.Context) ([]domain.Booking, error) {
		return uc.repo.FindByUser(ctx, userID)
	})
	if err != nil {
		return nil, errprocess.Persistence("list bookings", err)
	}
	return bookings, nil
}

// UpdateStatus move a booking through its lifecycle. Only the two
// parties may touch it and only along the allowed transitions.
func (uc *BookingUseCase) UpdateStatus(ctx context.Context, bookingID, userID string, next domain.BookingStatus) (*domain.Booking, error) {
	booking, err := uc.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, errprocess.Persistence("find booking", err)
	}
	if booking == nil {
		return nil, errprocess.NotFound("booking")
	}
	if !booking.Involves(userID) {
		return nil, errprocess.Forbidden("booking")
	}
	if !booking.CanTransition(next) {
		return nil, ErrBadTransition
	}

	if err := uc.repo.UpdateStatus(ctx, bookingID, next); err != nil {
		return nil, errprocess.Persistence("update booking status", err)
	}
	booking.Status = next

	if err := uc.invalidator.DeleteKeys(ctx,
		userBookingsKey(booking.BuyerID),
		userBookingsKey(booking.SellerID),
	); err != nil {
		errprocess.Cache("invalidate bookings "+bookingID, err)
	}
	return booking, nil
}
