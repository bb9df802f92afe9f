// Package errors holds the sentinel errors shared across packages.
//
// Callers wrap them with fmt.Errorf("...: %w", ErrX) and the API layer maps
// them to HTTP statuses with Is. Package-local failures stay unexported in
// their own package.
package errors

import "errors"

// Upstream availability.
var (
	// ErrCircuitBreakerOpen is returned while the LLM provider circuit is open.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

	// ErrRateLimited is returned when a local rate limit rejects a call.
	ErrRateLimited = errors.New("rate limited")
)

// Lookup errors.
var (
	// ErrItemNotFound indicates a catalog key is unknown.
	ErrItemNotFound = errors.New("catalog item not found")
)

// Catalog configuration errors.
var (
	// ErrDuplicateCatalogKey indicates two catalog items share a key.
	ErrDuplicateCatalogKey = errors.New("duplicate catalog key")

	// ErrInvalidBaseScore indicates a base score outside [0,1].
	ErrInvalidBaseScore = errors.New("base score out of range")

	// ErrEmptyCatalogKey indicates a catalog item without a key.
	ErrEmptyCatalogKey = errors.New("empty catalog key")
)

// Request errors.
var (
	// ErrNoInput indicates neither text nor audio was supplied.
	ErrNoInput = errors.New("no text or audio supplied")

	// ErrInvalidInput indicates a value outside its allowed range or format.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyResponse indicates the provider answered with no content.
	ErrEmptyResponse = errors.New("empty response")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
