package hologram

import (
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
)

type PoolOption func(*Pool)

// SpawnDistance limits Track to holograms within d blocks. Zero means
// unlimited.
func SpawnDistance(d float64) PoolOption {
	return func(p *Pool) { p.spawnDistance = d }
}

func PoolLogger(l *log.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

type tracked struct {
	v   Viewer
	pos Location
}

// Pool is a named set of holograms with unique ids. Viewers handed to
// Track see every hologram of the pool in range.
type Pool struct {
	name          string
	spawnDistance float64
	log           *log.Logger

	mu        sync.Mutex
	holograms []*Hologram
	byID      map[uuid.UUID]*Hologram
	viewers   map[int32]tracked
}

func NewPool(name string, opts ...PoolOption) *Pool {
	p := &Pool{
		name:    name,
		log:     log.New(io.Discard, "", 0),
		byID:    make(map[uuid.UUID]*Hologram),
		viewers: make(map[int32]tracked),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Name() string { return p.name }

// Add registers h and shows it to tracked viewers in range. The pool is
// left unchanged when the id is taken. Show and hide callbacks run after
// the pool lock is released and may call back into the pool.
func (p *Pool) Add(h *Hologram) error {
	p.mu.Lock()
	if _, ok := p.byID[h.ID()]; ok {
		p.mu.Unlock()
		return &DuplicateIDError{ID: h.ID(), Pool: p.name}
	}
	p.byID[h.ID()] = h
	p.holograms = append(p.holograms, h)
	viewers := make([]tracked, 0, len(p.viewers))
	for _, t := range p.viewers {
		viewers = append(viewers, t)
	}
	p.mu.Unlock()

	for _, t := range viewers {
		p.refresh(h, t)
	}
	return nil
}

// Remove unregisters h and hides it from all its viewers. It reports
// whether h was in the pool.
func (p *Pool) Remove(h *Hologram) bool {
	p.mu.Lock()
	if _, ok := p.byID[h.ID()]; !ok {
		p.mu.Unlock()
		return false
	}
	delete(p.byID, h.ID())
	for i, o := range p.holograms {
		if o.Equal(h) {
			p.holograms = append(p.holograms[:i:i], p.holograms[i+1:]...)
			break
		}
	}
	p.mu.Unlock()

	for _, v := range h.viewers.snapshot() {
		h.Hide(v)
	}
	return true
}

func (p *Pool) Get(id uuid.UUID) (*Hologram, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.byID[id]
	return h, ok
}

// Holograms lists the pool in insertion order.
func (p *Pool) Holograms() []*Hologram {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Hologram(nil), p.holograms...)
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.holograms)
}

func (p *Pool) inRange(h *Hologram, pos Location) bool {
	if p.spawnDistance <= 0 {
		return true
	}
	return h.Location().DistanceSquared(pos) <= p.spawnDistance*p.spawnDistance
}

func (p *Pool) refresh(h *Hologram, t tracked) {
	shown := h.IsShownFor(t.v)
	switch in := p.inRange(h, t.pos); {
	case in && !shown:
		if err := h.Show(t.v); err != nil {
			p.log.Printf("pool %s: show %s to %d: %s", p.name, h.Name(), t.v.ID(), err)
		}
	case !in && shown:
		h.Hide(t.v)
	}
}

// Track records the position of v and shows or hides holograms as they
// come in and out of range.
func (p *Pool) Track(v Viewer, pos Location) {
	t := tracked{v: v, pos: pos}
	p.mu.Lock()
	p.viewers[v.ID()] = t
	holograms := append([]*Hologram(nil), p.holograms...)
	p.mu.Unlock()

	for _, h := range holograms {
		p.refresh(h, t)
	}
}

// Forget hides everything from v and stops tracking it.
func (p *Pool) Forget(v Viewer) {
	p.mu.Lock()
	delete(p.viewers, v.ID())
	holograms := append([]*Hologram(nil), p.holograms...)
	p.mu.Unlock()

	for _, h := range holograms {
		h.Hide(v)
	}
}

// Interact routes a click on entityID to the hologram owning it.
func (p *Pool) Interact(v Viewer, entityID int32) (*Hologram, bool) {
	for _, h := range p.Holograms() {
		if h.HasEntity(entityID) {
			return h, h.Interact(v, entityID)
		}
	}
	return nil, false
}
