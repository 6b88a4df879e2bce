package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents document parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypePersistence represents database errors
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeNotification represents mail delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// SourceError represents an error attributed to one storefront source
type SourceError struct {
	Type       ErrorType
	Storefront string
	Message    string
	Err        error
	Time       time.Time
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Storefront, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Storefront, e.Message)
}

// Unwrap returns the underlying error
func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying on the next cycle
// without operator intervention
func (e *SourceError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypePersistence:
		return true
	default:
		return false
	}
}

// New creates a new SourceError
func New(errType ErrorType, storefront, message string, err error) *SourceError {
	return &SourceError{
		Type:       errType,
		Storefront: storefront,
		Message:    message,
		Err:        err,
		Time:       time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(storefront, message string, err error) *SourceError {
	return New(ErrorTypeNetwork, storefront, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(storefront, message string, err error) *SourceError {
	return New(ErrorTypeParsing, storefront, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(storefront string, duration time.Duration) *SourceError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, storefront, message, nil)
}

// NewPersistence creates a new database error
func NewPersistence(message string, err error) *SourceError {
	return New(ErrorTypePersistence, "", message, err)
}

// NewNotification creates a new mail delivery error
func NewNotification(message string, err error) *SourceError {
	return New(ErrorTypeNotification, "", message, err)
}

// NewValidation creates a new validation error
func NewValidation(storefront, message string) *SourceError {
	return New(ErrorTypeValidation, storefront, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *SourceError {
	return New(ErrorTypeConfiguration, "", message, err)
}
