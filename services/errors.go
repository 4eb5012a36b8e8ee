package services

import (
	"errors"

	"vidtree/utils"
)

// Error kinds surfaced by the store layer. Controllers map them to HTTP
// status codes with errors.Is; the services never swallow them.
var (
	// ErrNotFound: the referenced tree or node does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden: the caller is not the creator of the resource.
	ErrForbidden = errors.New("caller does not own this resource")

	// ErrCorruptTree: cycles, dangling parents or root ambiguity. Fatal;
	// requires manual data inspection, never a retry.
	ErrCorruptTree = utils.ErrCorruptTree

	// ErrPartialWrite: the reconciliation bulk write failed mid-flight.
	// Retryable: reconciliation is a pure function of (saved, incoming),
	// so resubmitting the same update from current state is safe.
	ErrPartialWrite = errors.New("bulk write applied partially")
)

// IsRetryable reports whether the caller may safely resubmit the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPartialWrite)
}
