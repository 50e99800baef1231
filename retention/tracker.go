package retention

import (
	"context"
	"fmt"
	"sync"

	"github.com/joeycumines/vystore-gov/diag"
	"github.com/joeycumines/vystore-gov/internal/sched"
)

// Tracker is the process-wide retention authority: it tracks the minimum
// in-use log position across registered consumers and, on Run, computes
// and dispatches the deletion frontier to a SnapshotEngine and a WAL.
//
// A Tracker must be constructed with New and must not be copied after
// first use.
type Tracker struct {
	registry CheckpointRegistry
	snapshot SnapshotEngine
	wal      WAL
	logger   diag.Logger

	mu              sync.Mutex
	closed          bool
	checkpointCount int
	walFrontier     Signature
	checkpointFront Signature
	consumers       consumerSet
	nextSeq         uint64

	gcLatch *sched.Latch
}

// New constructs a Tracker. registry, snapshot, and wal must be non-nil.
func New(registry CheckpointRegistry, snapshot SnapshotEngine, wal WAL, opts ...Option) (*Tracker, error) {
	if registry == nil || snapshot == nil || wal == nil {
		return nil, fmt.Errorf("retention: registry, snapshot engine, and wal are all required")
	}
	o := resolveOptions(opts)
	return &Tracker{
		registry:        registry,
		snapshot:        snapshot,
		wal:             wal,
		logger:          o.logger,
		checkpointCount: o.checkpointCount,
		walFrontier:     NoSignature,
		checkpointFront: NoSignature,
		gcLatch:         sched.NewLatch(),
	}, nil
}

// Close shuts the tracker down: every remaining consumer is unregistered
// (clearing its replica back-reference, if any) and further operations
// return ErrClosed.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	for _, c := range t.consumers.Snapshot() {
		t.consumers.Remove(c)
		if c.replica != nil {
			c.replica.ClearGCConsumer()
		}
	}
	return nil
}

// SetCheckpointCount updates the number of youngest checkpoints to
// preserve; n must be >= 1. Takes effect on the next Run.
func (t *Tracker) SetCheckpointCount(n int) error {
	if n < 1 {
		return fmt.Errorf("retention: checkpoint count must be >= 1, got %d", n)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.checkpointCount = n
	return nil
}

// Register allocates a new Consumer pinned at signature and inserts it
// into the ordered consumer set. Registration never triggers Run; the
// caller's chosen starting signature cannot by itself advance the
// frontier.
func (t *Tracker) Register(name string, signature Signature, typ ConsumerType, replica ReplicaBinding) (*Consumer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	t.nextSeq++
	c := &Consumer{name: name, typ: typ, replica: replica, seq: t.nextSeq}
	c.signature.Store(int64(signature))
	t.consumers.Insert(c)
	return c, nil
}

// Unregister removes c from the consumer set and destroys it, clearing
// its replica back-reference. If c was (or tied) the leftmost consumer,
// Run is invoked afterward.
func (t *Tracker) Unregister(ctx context.Context, c *Consumer) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	wasLeftmost := false
	if first, ok := t.consumers.First(); ok {
		wasLeftmost = c.Signature() == first.Signature()
	}
	t.consumers.Remove(c)
	if c.replica != nil {
		c.replica.ClearGCConsumer()
	}
	t.mu.Unlock()

	if wasLeftmost {
		return t.Run(ctx)
	}
	return nil
}

// Advance moves c's pinned signature forward. newSignature must be >= c's
// current signature; advancing to the same value is a no-op. If c was the
// leftmost consumer before the advance, Run is invoked afterward.
func (t *Tracker) Advance(ctx context.Context, c *Consumer, newSignature Signature) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}

	oldSignature := c.Signature()
	if newSignature < oldSignature {
		t.mu.Unlock()
		return &SignatureRegressionError{Consumer: c.name, Current: oldSignature, Requested: newSignature}
	}
	if newSignature == oldSignature {
		t.mu.Unlock()
		return nil
	}

	wasLeftmost := false
	if first, ok := t.consumers.First(); ok {
		wasLeftmost = oldSignature == first.Signature()
	}

	if successor, ok := t.consumers.Successor(c); ok && newSignature >= successor.Signature() {
		t.consumers.Remove(c)
		c.signature.Store(int64(newSignature))
		t.consumers.Insert(c)
	} else {
		c.signature.Store(int64(newSignature))
	}
	t.mu.Unlock()

	if wasLeftmost {
		return t.Run(ctx)
	}
	return nil
}

// Run computes a new deletion frontier from the current consumer set and
// checkpoint registry, and dispatches it to the snapshot engine and WAL if
// it advances past what was previously dispatched.
func (t *Tracker) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	leftmostSig := infSignature
	if first, ok := t.consumers.First(); ok {
		leftmostSig = first.Signature()
	}
	leftmostCkptSig := infSignature
	if first, ok := t.consumers.FirstWhere(func(c *Consumer) bool { return c.typ == WALAndSnapshot }); ok {
		leftmostCkptSig = first.Signature()
	}
	checkpointCount := t.checkpointCount
	registry := t.registry
	t.mu.Unlock()

	ckptFrontier := computeCheckpointFrontier(registry.Checkpoints(), checkpointCount, leftmostCkptSig)
	walFrontier := minSignature(ckptFrontier, leftmostSig)

	t.mu.Lock()
	storedCkpt, storedWal := t.checkpointFront, t.walFrontier
	t.mu.Unlock()
	if ckptFrontier <= storedCkpt && walFrontier <= storedWal {
		// both computed frontiers are already reflected; nothing to do.
		return nil
	}

	if err := t.gcLatch.Lock(ctx); err != nil {
		return err
	}
	defer t.gcLatch.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	ckptAdvanced := ckptFrontier > t.checkpointFront
	if ckptAdvanced {
		// Stored before the callback runs: a downstream GC failure must
		// not cause this same frontier to be recomputed lower on the
		// next pass.
		t.checkpointFront = ckptFrontier
	}
	t.mu.Unlock()

	if ckptAdvanced {
		if err := t.snapshot.CollectGarbage(ctx, ckptFrontier); err != nil {
			return &SnapshotGCError{Frontier: ckptFrontier, Cause: err}
		}
	}

	t.mu.Lock()
	walAdvanced := walFrontier > t.walFrontier
	if walAdvanced {
		t.walFrontier = walFrontier
	}
	t.mu.Unlock()

	if walAdvanced {
		t.wal.CollectGarbage(ctx, walFrontier)
	}
	return nil
}

// NotifyDirectoryFull is the forced-eviction escalation path, invoked when
// the file layer reports that a directory needs space immediately. It
// refuses to evict a leftmost consumer with no replica binding (e.g. a
// backup reader); otherwise it repeatedly unregisters the leftmost
// replica-bound consumer while its signature is older than the
// checkpoint-count-th newest checkpoint, then calls Run.
func (t *Tracker) NotifyDirectoryFull(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	first, ok := t.consumers.First()
	if !ok || first.replica == nil {
		t.mu.Unlock()
		return nil
	}
	checkpointCount := t.checkpointCount
	registry := t.registry
	t.mu.Unlock()

	oldestPreserved, ok := nthNewestCheckpointSignature(registry.Checkpoints(), checkpointCount)
	if !ok {
		// Fewer checkpoints exist than the desired retention: the reach
		// falls short, so we refuse to evict anything this pass.
		return nil
	}

	for {
		t.mu.Lock()
		first, ok := t.consumers.First()
		if !ok || first.replica == nil || !(first.Signature() < oldestPreserved) {
			t.mu.Unlock()
			break
		}
		victim := first
		t.mu.Unlock()

		t.logger.Crit("evicting replica-bound consumer to reclaim directory space",
			"replica", victim.replica.UUID(),
			"consumer", victim.name,
			"signature", int64(victim.Signature()),
		)

		if err := t.Unregister(ctx, victim); err != nil {
			return err
		}
	}

	return t.Run(ctx)
}

// computeCheckpointFrontier enumerates checkpoints newest to oldest,
// skipping the checkpointCount-1 youngest, and returns the signature of the
// first checkpoint from the checkpointCount-th newest onward whose
// signature is <= leftmostCkptSig. If no such checkpoint exists, it returns
// NoSignature.
func computeCheckpointFrontier(it CheckpointIterator, checkpointCount int, leftmostCkptSig Signature) Signature {
	remaining := checkpointCount
	for {
		cp, ok := it.Prev()
		if !ok {
			return NoSignature
		}
		if remaining > 0 {
			remaining--
			if remaining > 0 {
				continue
			}
		}
		if cp.Signature() <= leftmostCkptSig {
			return cp.Signature()
		}
	}
}

// nthNewestCheckpointSignature returns the signature of the n-th newest
// checkpoint, and false if fewer than n checkpoints exist.
func nthNewestCheckpointSignature(it CheckpointIterator, n int) (Signature, bool) {
	var cp Checkpoint
	for i := 0; i < n; i++ {
		var ok bool
		cp, ok = it.Prev()
		if !ok {
			return 0, false
		}
	}
	return cp.Signature(), true
}
