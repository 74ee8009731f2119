package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the engine, services and transport.
var (
	// ErrNotFound: the base query matched no products, or an entity is missing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument: unknown filter key, bad filter value, bad page request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstreamUnavailable: the storage collaborator failed or timed out.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// NotFoundf returns an error wrapping ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgumentf returns an error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Unavailable wraps a storage failure as ErrUpstreamUnavailable,
// keeping the cause in the chain.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, op, err)
}
