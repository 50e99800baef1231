package retention

import "sort"

// consumerSet keeps registered consumers ordered by (signature ascending,
// then seq ascending as a stable tie-break). It is not safe for concurrent
// use; callers (Tracker) are responsible for serializing access.
//
// A balanced search tree keyed by (signature, stable-id) would give
// O(log n) first/next/insert/remove, but no ordered-set or skip-list
// implementation turned up as a dependency worth pulling in for it. This
// uses a sorted slice with binary-search lookups instead: insert and
// remove are O(n) due to shifting, but consumer counts (replicas, backup
// tools) are small enough in practice that the simpler, dependency-free
// structure is the right tradeoff here.
type consumerSet struct {
	items []*Consumer
}

func less(a, b *Consumer) bool {
	as, bs := a.Signature(), b.Signature()
	if as != bs {
		return as < bs
	}
	return a.seq < b.seq
}

// Insert adds c to the set, maintaining sort order.
func (s *consumerSet) Insert(c *Consumer) {
	i := sort.Search(len(s.items), func(i int) bool { return less(c, s.items[i]) })
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = c
}

// indexOf locates c's current slot. It first binary-searches by current
// sort key, then scans the run of equal-keyed entries for pointer
// identity, since Signature() may have been mutated without a reposition
// (the in-place update path of Advance).
func (s *consumerSet) indexOf(c *Consumer) int {
	i := sort.Search(len(s.items), func(i int) bool { return !less(s.items[i], c) })
	for j := i; j < len(s.items); j++ {
		if s.items[j] == c {
			return j
		}
		if less(c, s.items[j]) {
			break
		}
	}
	for j := i - 1; j >= 0; j-- {
		if s.items[j] == c {
			return j
		}
		if less(s.items[j], c) {
			break
		}
	}
	return -1
}

// Remove deletes c from the set. Reports whether c was present.
func (s *consumerSet) Remove(c *Consumer) bool {
	i := s.indexOf(c)
	if i < 0 {
		return false
	}
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return true
}

// First returns the leftmost (minimum) consumer, if any.
func (s *consumerSet) First() (*Consumer, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[0], true
}

// FirstWhere returns the leftmost consumer satisfying pred, if any.
func (s *consumerSet) FirstWhere(pred func(*Consumer) bool) (*Consumer, bool) {
	for _, c := range s.items {
		if pred(c) {
			return c, true
		}
	}
	return nil, false
}

// Successor returns the consumer immediately after c in sort order.
func (s *consumerSet) Successor(c *Consumer) (*Consumer, bool) {
	i := s.indexOf(c)
	if i < 0 || i+1 >= len(s.items) {
		return nil, false
	}
	return s.items[i+1], true
}

// Len reports the number of registered consumers.
func (s *consumerSet) Len() int { return len(s.items) }

// Snapshot returns a copy of the current ordering, for read-only
// introspection (Tracker.Consumers, tests).
func (s *consumerSet) Snapshot() []*Consumer {
	out := make([]*Consumer, len(s.items))
	copy(out, s.items)
	return out
}
