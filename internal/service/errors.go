package service

import (
	"errors"
	"fmt"
)

var (
	ErrCardNotFound = errors.New("card not found")
	// ErrUpstream marks failures of Scryfall or the LLM, including timeouts
	// and an open circuit breaker.
	ErrUpstream = errors.New("upstream gateway failure")
)

func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
