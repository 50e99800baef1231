package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsumer(seq uint64, sig Signature, typ ConsumerType) *Consumer {
	c := &Consumer{seq: seq, typ: typ}
	c.signature.Store(int64(sig))
	return c
}

func TestConsumerSet_OrdersBySignatureThenSeq(t *testing.T) {
	var s consumerSet
	c1 := newConsumer(1, 30, WALOnly)
	c2 := newConsumer(2, 10, WALOnly)
	c3 := newConsumer(3, 10, WALOnly) // ties c2 on signature, seq breaks tie
	c4 := newConsumer(4, 20, WALOnly)

	s.Insert(c1)
	s.Insert(c2)
	s.Insert(c3)
	s.Insert(c4)

	got := s.Snapshot()
	require.Len(t, got, 4)
	assert.Equal(t, []*Consumer{c2, c3, c4, c1}, got)
}

func TestConsumerSet_FirstAndFirstWhere(t *testing.T) {
	var s consumerSet
	a := newConsumer(1, 25, WALAndSnapshot)
	b := newConsumer(2, 15, WALOnly)
	s.Insert(a)
	s.Insert(b)

	first, ok := s.First()
	require.True(t, ok)
	assert.Same(t, b, first)

	ckpt, ok := s.FirstWhere(func(c *Consumer) bool { return c.typ == WALAndSnapshot })
	require.True(t, ok)
	assert.Same(t, a, ckpt)
}

func TestConsumerSet_RemoveAndSuccessor(t *testing.T) {
	var s consumerSet
	a := newConsumer(1, 10, WALOnly)
	b := newConsumer(2, 20, WALOnly)
	c := newConsumer(3, 30, WALOnly)
	s.Insert(a)
	s.Insert(b)
	s.Insert(c)

	succ, ok := s.Successor(a)
	require.True(t, ok)
	assert.Same(t, b, succ)

	require.True(t, s.Remove(b))
	assert.Equal(t, 2, s.Len())

	succ, ok = s.Successor(a)
	require.True(t, ok)
	assert.Same(t, c, succ)

	assert.False(t, s.Remove(b)) // already removed
}

func TestConsumerSet_RepositionOnSignatureMutation(t *testing.T) {
	var s consumerSet
	a := newConsumer(1, 10, WALOnly)
	b := newConsumer(2, 20, WALOnly)
	s.Insert(a)
	s.Insert(b)

	// simulate Tracker.Advance's reposition path: remove, mutate, reinsert
	require.True(t, s.Remove(a))
	a.signature.Store(30)
	s.Insert(a)

	got := s.Snapshot()
	assert.Equal(t, []*Consumer{b, a}, got)
}
