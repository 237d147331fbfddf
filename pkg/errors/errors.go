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
	// ErrorTypeExtraction represents deal extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeEnrichment represents rating enrichment errors
	ErrorTypeEnrichment ErrorType = "enrichment"
	// ErrorTypeNotification represents notification delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatcherError represents a watcher-specific error
type WatcherError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *WatcherError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *WatcherError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *WatcherError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeEnrichment, ErrorTypeNotification:
		return true
	default:
		return false
	}
}

// New creates a new WatcherError
func New(errType ErrorType, component, message string, err error) *WatcherError {
	return &WatcherError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *WatcherError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(component, message string, err error) *WatcherError {
	return New(ErrorTypeExtraction, component, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *WatcherError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewCache creates a new cache error
func NewCache(component, message string, err error) *WatcherError {
	return New(ErrorTypeCache, component, message, err)
}

// NewEnrichment creates a new enrichment error
func NewEnrichment(component, message string, err error) *WatcherError {
	return New(ErrorTypeEnrichment, component, message, err)
}

// NewNotification creates a new notification error
func NewNotification(component, message string, err error) *WatcherError {
	return New(ErrorTypeNotification, component, message, err)
}

// NewValidation creates a new validation error
func NewValidation(component, message string) *WatcherError {
	return New(ErrorTypeValidation, component, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatcherError {
	return New(ErrorTypeConfiguration, "", message, err)
}
