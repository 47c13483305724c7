package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeExtraction represents page extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeNormalization represents field normalization errors
	ErrorTypeNormalization ErrorType = "normalization"
	// ErrorTypeStore represents snapshot store I/O errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeAlert represents alert dispatch errors
	ErrorTypeAlert ErrorType = "alert"
	// ErrorTypeExport represents export sink errors
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeFatal represents run-level fatal failures
	ErrorTypeFatal ErrorType = "fatal"
)

// PipelineError represents a pipeline-specific error carrying the product
// identity it relates to, when there is one.
type PipelineError struct {
	Type     ErrorType
	Identity string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Identity, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Identity, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error ends the run. Store and configuration
// failures cannot be recovered within a run; everything else is per-item.
func (e *PipelineError) IsFatal() bool {
	switch e.Type {
	case ErrorTypeStore:
		return true
	case ErrorTypeConfiguration:
		return true
	case ErrorTypeFatal:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(errType ErrorType, identity, message string, err error) *PipelineError {
	return &PipelineError{
		Type:     errType,
		Identity: identity,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewExtraction creates a new extraction error
func NewExtraction(identity, message string, err error) *PipelineError {
	return New(ErrorTypeExtraction, identity, message, err)
}

// NewNormalization creates a new normalization error
func NewNormalization(identity, message string) *PipelineError {
	return New(ErrorTypeNormalization, identity, message, nil)
}

// NewStore creates a new snapshot store error
func NewStore(message string, err error) *PipelineError {
	return New(ErrorTypeStore, "", message, err)
}

// NewAlert creates a new alert dispatch error
func NewAlert(identity, message string, err error) *PipelineError {
	return New(ErrorTypeAlert, identity, message, err)
}

// NewExport creates a new export sink error
func NewExport(message string, err error) *PipelineError {
	return New(ErrorTypeExport, "", message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(identity string, duration time.Duration) *PipelineError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, identity, message, nil)
}

// NewFatal creates a new run-level fatal error
func NewFatal(message string, err error) *PipelineError {
	return New(ErrorTypeFatal, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsFatal reports whether err carries a fatal PipelineError.
func IsFatal(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.IsFatal()
	}
	return false
}
