package domain

import "errors"

// Error taxonomy. All four propagate unchanged to the request boundary;
// the HTTP layer maps them to transport-level responses.
var (
	// ErrInvalidInput marks malformed or out-of-range caller input,
	// detected before any external call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a successful lookup with an empty result: a
	// geocode with zero matches or a missing record in a store.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable marks a routing or geocoding provider
	// network, timeout, or non-success failure. Never conflated with
	// ErrNotFound.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrCacheMiss is an internal signal from cache adapters meaning
	// "proceed to the provider". It is not surfaced to callers.
	ErrCacheMiss = errors.New("cache miss")
)
