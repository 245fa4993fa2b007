package domain

import "time"

// BookingStatus lifecycle state of a booking
type BookingStatus string

const (
	// BookingPending waiting for the seller
	BookingPending BookingStatus = "pending"
	// BookingConfirmed accepted by the seller
	BookingConfirmed BookingStatus = "confirmed"
	// BookingCompleted work delivered
	BookingCompleted BookingStatus = "completed"
	// BookingCancelled called off by either side
	BookingCancelled BookingStatus = "cancelled"
)

// Booking an order of a card placed by a buyer
type Booking struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	BookingID   string        `gorm:"uniqueIndex;size:36" json:"booking_id"`
	CardID      string        `gorm:"size:24;index" json:"card_id"`
	BuyerID     string        `gorm:"size:36;index" json:"buyer_id"`
	SellerID    string        `gorm:"size:36;index" json:"seller_id"`
	Price       int64         `json:"price"`
	Status      BookingStatus `gorm:"size:16" json:"status"`
	ScheduledAt int64         `json:"scheduled_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CanTransition report whether the status change is allowed
func (b *Booking) CanTransition(next BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// Involves report whether userID is the buyer or the seller
func (b *Booking) Involves(userID string) bool {
	return b.BuyerID == userID || b.SellerID == userID
}
