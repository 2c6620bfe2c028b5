package segmentation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUserID = errors.New("user id is required")

	// ErrUpstreamUnavailable marks failures of the interaction, score or
	// segment stores. They are never retried here.
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")
)

func upstreamError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}
