// Package retention tracks the minimum in-use log position across a set of
// registered consumers (the WAL writer's replicas, backup tools, and other
// readers of durable state) and uses it, together with a configured
// checkpoint retention count, to compute the furthest point at which WAL
// segments and checkpoint snapshots are safe to delete.
//
// A Tracker owns no file I/O itself: it drives two external collaborators,
// a SnapshotEngine and a WAL, handing each a signature below which it may
// collect garbage. The snapshot engine is always consulted before the WAL,
// because a snapshot's recovery metadata can reference WAL signatures that
// would otherwise be deleted out from under it.
package retention
