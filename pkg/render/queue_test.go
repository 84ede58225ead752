package render

import "testing"

func TestRenderQueueBounded(t *testing.T) {
	q := NewRenderQueue(2)

	for i := range 3 {
		q.Push(Triangle{Color: uint32(i)})
	}

	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2", q.Len())
	}
	if q.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", q.Dropped())
	}
	// Oldest first; the overflow is the one lost
	for i, tri := range q.Triangles() {
		if tri.Color != uint32(i) {
			t.Errorf("triangle %d color = %d, want %d", i, tri.Color, i)
		}
	}

	q.Reset()
	if q.Len() != 0 || q.Dropped() != 0 {
		t.Errorf("after reset: len %d dropped %d", q.Len(), q.Dropped())
	}
	if !q.Push(Triangle{}) {
		t.Error("push after reset rejected")
	}
}

func TestRenderQueueDefaultCapacity(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		if got := NewRenderQueue(capacity).Cap(); got != DefaultQueueCapacity {
			t.Errorf("NewRenderQueue(%d).Cap() = %d, want %d", capacity, got, DefaultQueueCapacity)
		}
	}
}
