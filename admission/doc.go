// Package admission bounds in-memory working-set growth for a single
// cooperatively-scheduled task runtime. It tracks a global byte budget
// ("used" vs "limit") and a set of per-priority token-bucket rate cells;
// callers request a size via Use and are either charged immediately,
// rejected as fatally oversized, or parked on a wait queue until capacity
// and rate both admit them.
//
// A Controller guards its state with an internal mutex, so Use may be
// called from many goroutines, each standing in for one cooperative task.
// The only suspension point is inside Use, while a caller waits on its
// queue.
package admission
