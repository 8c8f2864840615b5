package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the provider answers successfully but has no record for a symbol
var ErrNotFound = errors.New("not found")

// ConfigurationError means a required setting is missing at startup. It is always fatal.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not set", e.Key)
}

// TransportError wraps network, DNS and timeout failures on an outbound provider call
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError represents a non-2xx status or a body the provider should never have sent
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) (*ConfigurationError, bool) {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}

// IsTransportError checks if an error is a TransportError
func IsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr, true
	}
	return nil, false
}

// IsProviderError checks if an error is a ProviderError
func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}

// ErrorKind returns a short label for an outbound failure, used for metrics and logs
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFoundError(err):
		return "not_found"
	}
	if _, ok := IsTransportError(err); ok {
		return "transport"
	}
	if _, ok := IsProviderError(err); ok {
		return "provider"
	}
	return "unknown"
}
