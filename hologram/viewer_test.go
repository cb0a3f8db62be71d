package hologram

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-holo/proto"
)

// recorder is a viewer that keeps every packet it is sent.
type recorder struct {
	id      int32
	version proto.Version
	packets []proto.Packet
}

func newRecorder(id int32, v proto.Version) *recorder {
	return &recorder{id: id, version: v}
}

func (r *recorder) ID() int32               { return r.id }
func (r *recorder) Protocol() proto.Version { return r.version }
func (r *recorder) Send(p proto.Packet)     { r.packets = append(r.packets, p) }

func (r *recorder) reset() { r.packets = nil }

func (r *recorder) spawned() []int32 {
	var ids []int32
	for _, p := range r.packets {
		if s, ok := p.(*proto.SpawnEntity); ok {
			ids = append(ids, s.EntityID)
		}
	}
	return ids
}

func (r *recorder) destroyed() []int32 {
	var ids []int32
	for _, p := range r.packets {
		if d, ok := p.(*proto.DestroyEntities); ok {
			ids = append(ids, d.EntityIDs...)
		}
	}
	return ids
}

func (r *recorder) metadata(id int32) []*proto.EntityMetadata {
	var out []*proto.EntityMetadata
	for _, p := range r.packets {
		if m, ok := p.(*proto.EntityMetadata); ok && m.EntityID == id {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) count(id proto.PacketID) int {
	n := 0
	for _, p := range r.packets {
		if p.ID() == id {
			n++
		}
	}
	return n
}

func text(s string) func(Viewer) proto.Component {
	return Static(proto.Text(s))
}

func TestViewerSetConcurrentReaders(t *testing.T) {
	var s viewerSet
	viewers := make([]Viewer, 32)
	for i := range viewers {
		viewers[i] = newRecorder(int32(i+1), proto.V1_21)
	}
	require.True(t, s.add(viewers[0]))

	before := s.snapshot()
	require.True(t, s.remove(viewers[0]))
	assert.Len(t, before, 1)
	assert.Equal(t, int32(1), before[0].ID())
	assert.Empty(t, s.snapshot())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				seen := make(map[int32]bool)
				for _, v := range s.snapshot() {
					assert.False(t, seen[v.ID()], "viewer %d listed twice", v.ID())
					seen[v.ID()] = true
				}
				s.contains(viewers[3])
			}
		}()
	}

	for round := 0; round < 200; round++ {
		for _, v := range viewers {
			s.add(v)
		}
		snap := s.snapshot()
		for _, v := range viewers[:16] {
			s.remove(v)
		}
		assert.Len(t, snap, len(viewers))
		for _, v := range viewers[16:] {
			s.remove(v)
		}
	}
	close(stop)
	wg.Wait()
	assert.Empty(t, s.snapshot())
}
