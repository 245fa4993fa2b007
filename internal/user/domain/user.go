package domain

import (
	"time"

	"marketplace_service/pkg/encrypt"
)

// UserStatus user account state
type UserStatus int

// states: 0=offline, 1=online, 2=banned, 3=deleted
const (
	// UserStatusOffLine account is offline
	UserStatusOffLine UserStatus = iota
	// UserStatusOnLine account is online
	UserStatusOnLine
	// UserStatusBanned account is banned
	UserStatusBanned
	// UserStatusDeleted account is deleted
	UserStatusDeleted
)

// User a marketplace account; sellers also list cards
type User struct {
	ID       int64
	UserID   string
	Username string
	Email    string
	Password string
	Country  string
	Lang     string
	IsSeller bool
	Status   UserStatus
}

// UserSession a logged-in user's session stored in redis
type UserSession struct {
	Token        string    `json:"Token"`
	UserID       string    `json:"UserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch check the stored hash against an input password
func (u *User) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(u.Password, inputPwd)
}

// IsExpired check whether the session passed its expiry
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// UserQuery join conditions used to look a user up
type UserQuery struct {
	ID       *int64  `db:"id"`
	UserID   *string `db:"user_id"`
	Email    *string `db:"email"`
	Username *string `db:"username"`
}
