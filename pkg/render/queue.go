package render

import (
	"github.com/taigrr/hangar/pkg/math3d"
)

// DefaultQueueCapacity is the render queue bound used when none is given.
const DefaultQueueCapacity = 10000

// Triangle is a projected, screen-space triangle ready for rasterization.
// Points hold pixel x/y, projected z, and w (camera-space depth).
type Triangle struct {
	Points    [3]math3d.Vec4
	TexCoords [3]TexCoord
	Color     uint32 // Lit ARGB color
	Texture   *Texture
}

// RenderQueue is the bounded per-frame list of triangles to draw, in
// submission order. Pushes past capacity are dropped.
type RenderQueue struct {
	triangles []Triangle
	capacity  int
	dropped   int
}

// NewRenderQueue creates a queue holding at most capacity triangles.
// A non-positive capacity selects DefaultQueueCapacity.
func NewRenderQueue(capacity int) *RenderQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &RenderQueue{
		triangles: make([]Triangle, 0, capacity),
		capacity:  capacity,
	}
}

// Reset empties the queue, keeping its storage.
func (q *RenderQueue) Reset() {
	q.triangles = q.triangles[:0]
	q.dropped = 0
}

// Push appends t, reporting false if the queue is full.
func (q *RenderQueue) Push(t Triangle) bool {
	if len(q.triangles) >= q.capacity {
		q.dropped++
		return false
	}
	q.triangles = append(q.triangles, t)
	return true
}

// Triangles returns the queued triangles, oldest first. The slice is only
// valid until the next Reset.
func (q *RenderQueue) Triangles() []Triangle {
	return q.triangles
}

// Len returns the number of queued triangles.
func (q *RenderQueue) Len() int { return len(q.triangles) }

// Cap returns the queue capacity.
func (q *RenderQueue) Cap() int { return q.capacity }

// Dropped returns how many pushes were rejected since the last Reset.
func (q *RenderQueue) Dropped() int { return q.dropped }
