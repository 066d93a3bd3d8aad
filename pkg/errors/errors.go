package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeBlocked represents bot-defense interstitials; fatal for the run
	ErrorTypeBlocked ErrorType = "blocked"
	// ErrorTypeTimeout represents network or render timeouts; retryable
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeParse represents per-listing extraction failures
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeStore represents seen-store failures; fatal for the run
	ErrorTypeStore ErrorType = "store"
	// ErrorTypePublisher represents feed publisher failures
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// HuntError carries the query, stage and cause of a pipeline failure
type HuntError struct {
	Type    ErrorType
	Source  string
	Stage   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *HuntError) Error() string {
	prefix := string(e.Type)
	if e.Source != "" {
		prefix += " " + e.Source
	}
	if e.Stage != "" {
		prefix += "/" + e.Stage
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *HuntError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth another fetch attempt
func (e *HuntError) IsRetryable() bool {
	return e.Type == ErrorTypeTimeout
}

// New creates a new HuntError
func New(errType ErrorType, source, message string, err error) *HuntError {
	return &HuntError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// WithStage annotates the error with the pipeline stage it surfaced in
func (e *HuntError) WithStage(stage string) *HuntError {
	e.Stage = stage
	return e
}

// NewBlocked creates a bot-defense error
func NewBlocked(source, message string) *HuntError {
	return New(ErrorTypeBlocked, source, message, nil)
}

// NewTimeout creates a timeout error
func NewTimeout(source, message string, err error) *HuntError {
	return New(ErrorTypeTimeout, source, message, err)
}

// NewParse creates a per-listing parse error
func NewParse(source, message string) *HuntError {
	return New(ErrorTypeParse, source, message, nil)
}

// NewStore creates a seen-store error
func NewStore(message string, err error) *HuntError {
	return New(ErrorTypeStore, "", message, err)
}

// NewPublisher creates a feed publisher error
func NewPublisher(message string, err error) *HuntError {
	return New(ErrorTypePublisher, "", message, err)
}

// NewConfiguration creates a configuration error
func NewConfiguration(message string, err error) *HuntError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf extracts the ErrorType from an error chain, or "" if none
func TypeOf(err error) ErrorType {
	var he *HuntError
	if errors.As(err, &he) {
		return he.Type
	}
	return ""
}

// IsBlocked reports whether err is a bot-defense error
func IsBlocked(err error) bool {
	return TypeOf(err) == ErrorTypeBlocked
}

// IsTimeout reports whether err is a timeout error
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrorTypeTimeout
}

// IsParse reports whether err is a per-listing parse failure
func IsParse(err error) bool {
	return TypeOf(err) == ErrorTypeParse
}

// IsStore reports whether err is a seen-store failure
func IsStore(err error) bool {
	return TypeOf(err) == ErrorTypeStore
}
