package hologram

import (
	"sync"
	"sync/atomic"

	"github.com/icexin/gocraft-holo/proto"
)

// Viewer is a connected client holograms can be shown to. Send is fire and
// forget: delivery failures are the transport's business.
type Viewer interface {
	ID() int32
	Protocol() proto.Version
	Send(p proto.Packet)
}

// viewerSet is a copy-on-write set of viewers. A single goroutine mutates
// it; any number may iterate a snapshot concurrently.
type viewerSet struct {
	mu   sync.Mutex
	list atomic.Value // []Viewer
}

func (s *viewerSet) snapshot() []Viewer {
	l, _ := s.list.Load().([]Viewer)
	return l
}

func (s *viewerSet) contains(v Viewer) bool {
	for _, o := range s.snapshot() {
		if o.ID() == v.ID() {
			return true
		}
	}
	return false
}

func (s *viewerSet) add(v Viewer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contains(v) {
		return false
	}
	old := s.snapshot()
	next := make([]Viewer, len(old), len(old)+1)
	copy(next, old)
	s.list.Store(append(next, v))
	return true
}

func (s *viewerSet) remove(v Viewer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.snapshot()
	for i, o := range old {
		if o.ID() != v.ID() {
			continue
		}
		next := make([]Viewer, 0, len(old)-1)
		next = append(next, old[:i]...)
		s.list.Store(append(next, old[i+1:]...))
		return true
	}
	return false
}

