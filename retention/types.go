package retention

import (
	"math"
	"sync/atomic"

	"github.com/joeycumines/vystore-gov/internal/ordered"
)

// Signature is a vector-clock scalar: the sum of a vector clock's
// components. It is used as a monotonically non-decreasing cursor into
// the write-ahead log.
type Signature int64

// NoSignature is the "never run" sentinel used for frontier state that has
// not yet been computed.
const NoSignature Signature = -1

// infSignature stands in for "no consumer holds a pin of this kind",
// i.e. an unbounded frontier. It is larger than any real signature a
// caller should ever register.
const infSignature Signature = math.MaxInt64

// ConsumerType distinguishes consumers that pin only the WAL from those
// that also pin checkpoint (snapshot) garbage collection.
type ConsumerType int

const (
	// WALOnly consumers prevent WAL segments at or below their signature
	// from being collected, but place no constraint on checkpoints.
	WALOnly ConsumerType = iota
	// WALAndSnapshot consumers additionally prevent checkpoints newer than
	// their signature from being collected.
	WALAndSnapshot
)

func (t ConsumerType) String() string {
	switch t {
	case WALOnly:
		return "wal-only"
	case WALAndSnapshot:
		return "wal+snapshot"
	default:
		return "unknown"
	}
}

// ReplicaBinding is the opaque back-reference to a replica descriptor that
// owns a Consumer. The only operation the tracker performs on it is
// clearing it, when the owning Consumer is destroyed, and reading its
// UUID for diagnostics.
type ReplicaBinding interface {
	// UUID identifies the replica for diagnostics.
	UUID() string
	// ClearGCConsumer is invoked exactly once, when the Consumer bound to
	// this replica is destroyed (via Unregister, directly or as a result
	// of NotifyDirectoryFull's forced eviction).
	ClearGCConsumer()
}

// Consumer is a registered pin preventing collection of WAL (and,
// optionally, checkpoint) artifacts at or below its signature. Consumers
// are created by Tracker.Register and destroyed by Tracker.Unregister;
// they must not be constructed directly.
type Consumer struct {
	name      string
	typ       ConsumerType
	replica   ReplicaBinding
	signature atomic.Int64
	// seq is assigned once at registration, from Tracker.nextSeq, and acts
	// as the stable tie-break for consumers sharing a signature.
	seq uint64
}

// Name returns the consumer's diagnostic name.
func (c *Consumer) Name() string { return c.name }

// Type reports whether this consumer also pins checkpoints.
func (c *Consumer) Type() ConsumerType { return c.typ }

// Signature returns the consumer's current pinned position. Safe to call
// concurrently with Tracker.Advance.
func (c *Consumer) Signature() Signature { return Signature(c.signature.Load()) }

// ReplicaBound reports whether this consumer is backed by a replica
// descriptor (as opposed to e.g. a backup reader with no such binding).
func (c *Consumer) ReplicaBound() bool { return c.replica != nil }

func minSignature(a, b Signature) Signature {
	return ordered.Min(a, b)
}
