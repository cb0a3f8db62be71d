package hologram

import (
	"math/rand"
	"sync/atomic"
)

// DefaultIDBase keeps hologram entity ids clear of the ids a server hands
// out to real entities early on.
const DefaultIDBase = 10000

// IDAllocator hands out client-side entity ids. Every hologram a viewer can
// see must draw from the same allocator.
type IDAllocator struct {
	next int32
}

// NewIDAllocator starts at seed; the first id returned is seed itself.
func NewIDAllocator(seed int32) *IDAllocator {
	return &IDAllocator{next: seed - 1}
}

// NewRandomIDAllocator starts somewhere in [DefaultIDBase, DefaultIDBase+1000).
func NewRandomIDAllocator() *IDAllocator {
	return NewIDAllocator(DefaultIDBase + rand.Int31n(1000))
}

func (a *IDAllocator) Next() int32 {
	return atomic.AddInt32(&a.next, 1)
}
