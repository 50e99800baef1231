package retention

// Stats is a point-in-time snapshot of tracker state, for diagnostics and
// metrics. It never feeds back into governance decisions.
type Stats struct {
	WALFrontier        Signature
	CheckpointFrontier Signature
	ConsumerCount      int
}

// Stats returns a snapshot of the tracker's current frontiers and consumer
// count.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		WALFrontier:        t.walFrontier,
		CheckpointFrontier: t.checkpointFront,
		ConsumerCount:      t.consumers.Len(),
	}
}

// ConsumerInfo is a read-only view of a registered consumer, returned by
// Consumers for introspection (diagnostics, tests); it is not itself
// usable with Advance or Unregister.
type ConsumerInfo struct {
	Name      string
	Type      ConsumerType
	Signature Signature
	Replica   bool
}

// Consumers returns a snapshot of all registered consumers, ordered by
// signature ascending.
func (t *Tracker) Consumers() []ConsumerInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := t.consumers.Snapshot()
	out := make([]ConsumerInfo, len(items))
	for i, c := range items {
		out[i] = ConsumerInfo{Name: c.name, Type: c.typ, Signature: c.Signature(), Replica: c.replica != nil}
	}
	return out
}
