package errprocess

import (
	"errors"
	"fmt"

	"marketplace_service/pkg/logger"

	"go.uber.org/zap"
)

// Sentinel errors the HTTP layer maps to status codes (404 / 403).
var (
	// ErrNotFound entity or topic missing
	ErrNotFound = errors.New("not found")
	// ErrForbidden sender is not allowed to act on the entity
	ErrForbidden = errors.New("forbidden")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// NotFound wrap ErrNotFound with what was missing
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Forbidden wrap ErrForbidden with the refused action
func Forbidden(what string) error {
	return fmt.Errorf("%s: %w", what, ErrForbidden)
}

// Persistence store read/write failed, surfaces to the caller as 500
func Persistence(op string, err error) error {
	logger.Log.Error("persistence error", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("persistence %s: %w", op, err)
}

// Cache cache round trip failed. Non-fatal: log and let the caller
// treat it as a miss.
func Cache(op string, err error) {
	logger.Log.Warn("cache error", zap.String("op", op), zap.Error(err))
}

// Delivery outbound push to one subscriber failed. Non-fatal: log,
// the publisher evicts the connection.
func Delivery(topic string, err error) {
	logger.Log.Warn("delivery error", zap.String("topic", topic), zap.Error(err))
}
