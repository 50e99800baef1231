package retention

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by any operation performed against a Tracker after
// Close has been called.
var ErrClosed = errors.New("retention: tracker closed")

// ErrSignatureRegression is wrapped by Advance when asked to move a
// consumer's signature backwards.
var ErrSignatureRegression = errors.New("retention: signature must not decrease")

// SignatureRegressionError reports the offending consumer and values for a
// rejected Advance call. It unwraps to ErrSignatureRegression.
type SignatureRegressionError struct {
	Consumer           string
	Current, Requested Signature
}

func (e *SignatureRegressionError) Error() string {
	return fmt.Sprintf("retention: consumer %q: requested signature %d is behind current %d",
		e.Consumer, e.Requested, e.Current)
}

func (e *SignatureRegressionError) Unwrap() error { return ErrSignatureRegression }

// SnapshotGCError wraps a failure returned by the snapshot engine's
// CollectGarbage. The checkpoint frontier has already been advanced in
// the tracker's state by the time this error is returned, so the same
// frontier is retried (not recomputed lower) on the next Run.
type SnapshotGCError struct {
	Frontier Signature
	Cause    error
}

func (e *SnapshotGCError) Error() string {
	return fmt.Sprintf("retention: snapshot engine failed to collect garbage at frontier %d: %v",
		e.Frontier, e.Cause)
}

func (e *SnapshotGCError) Unwrap() error { return e.Cause }
