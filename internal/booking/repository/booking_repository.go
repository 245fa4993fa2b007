package repository

import (
	"context"
	"errors"

	"marketplace_service/internal/booking/domain"

	"gorm.io/gorm"
)

// BookingRepository definition booking persistence
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository create a BookingRepository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("booking_id = ?", bookingID).
		Update("status", status).Error
}
