package store

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionUnavailable is matched by every error returned from a
	// poisoned collection.
	ErrCollectionUnavailable = errors.New("collection unavailable")

	// ErrInvalidScore is returned when a sorted-set score is NaN.
	ErrInvalidScore = errors.New("score is not a valid float")

	ErrUnknownCollection = errors.New("unknown collection")
)

// UnavailableError reports an operation on a poisoned collection.
type UnavailableError struct {
	Collection Collection
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s poisoned by a failed writer", ErrCollectionUnavailable, e.Collection)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrCollectionUnavailable
}
