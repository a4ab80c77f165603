// Package correlate implements the identity-matching algorithms that join
// device records produced by independent enumerators. The correlators are
// pure: they operate on enumerator interfaces and plain records, so every
// platform source plugs in the same way the test fakes do.
package correlate

import "errors"

var (
	// ErrInvalidArgument marks a null/empty input precondition violation.
	// It is reported immediately and never retried.
	ErrInvalidArgument = errors.New("correlate: invalid argument")

	// ErrSourceUnavailable marks a native subsystem or factory that could
	// not be created.
	ErrSourceUnavailable = errors.New("correlate: source unavailable")

	// ErrNotFound marks a query that executed but matched no device.
	ErrNotFound = errors.New("correlate: not found")
)
