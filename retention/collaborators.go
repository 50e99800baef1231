package retention

import "context"

// Checkpoint is a single entry in the checkpoint registry: a durable
// snapshot identified by a vector-clock scalar.
type Checkpoint interface {
	// Signature returns the sum of the checkpoint's vector clock.
	Signature() Signature
}

// CheckpointIterator walks the checkpoint registry from newest to oldest.
type CheckpointIterator interface {
	// Prev returns the next-older checkpoint, and false once exhausted.
	Prev() (Checkpoint, bool)
}

// CheckpointRegistry is the engine's checkpoint registry. Only iteration
// is consumed; storage is external to this package.
type CheckpointRegistry interface {
	// Checkpoints returns a fresh iterator over the known checkpoints,
	// newest first.
	Checkpoints() CheckpointIterator
}

// SnapshotEngine deletes checkpoint (snapshot) data at or below a
// signature. It may suspend (e.g. on file I/O) and may fail.
type SnapshotEngine interface {
	CollectGarbage(ctx context.Context, frontier Signature) error
}

// WAL deletes write-ahead-log segments at or below a signature. Failures
// are absorbed and logged internally; this call is infallible to the
// tracker.
type WAL interface {
	CollectGarbage(ctx context.Context, frontier Signature)
}
