package hologram

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-holo/proto"
)

func TestPoolDuplicateID(t *testing.T) {
	p := NewPool("world")
	a := newTestHologram()
	a.TextLine(Static("a"))
	require.NoError(t, a.ShowIn(p))

	b := newTestHologram(WithID(a.ID()))
	b.TextLine(Static("b"))
	err := b.ShowIn(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	var derr *DuplicateIDError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "world", derr.Pool)

	assert.Equal(t, 1, p.Len())
	got, ok := p.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestPoolRemoveTearsDown(t *testing.T) {
	p := NewPool("world")
	h := newTestHologram()
	h.TextLine(Static("bye"))
	require.NoError(t, h.ShowIn(p))
	r := newRecorder(1, proto.V1_21)
	p.Track(r, Loc(0, 0, 0))
	require.True(t, h.IsShownFor(r))

	r.reset()
	h.HideFrom(p)
	assert.Equal(t, []int32{100}, r.destroyed())
	assert.False(t, h.IsShownFor(r))
	assert.Equal(t, 0, p.Len())

	r.reset()
	assert.False(t, p.Remove(h))
	assert.Empty(t, r.packets)
}

func TestPoolTrack(t *testing.T) {
	p := NewPool("world", SpawnDistance(16))
	near := newTestHologram()
	near.TextLine(Static("near"))
	far := New(NewIDAllocator(500), Loc(100, 64, 100))
	far.TextLine(Static("far"))
	require.NoError(t, p.Add(near))
	require.NoError(t, p.Add(far))
	assert.Equal(t, []*Hologram{near, far}, p.Holograms())

	r := newRecorder(1, proto.V1_21)
	p.Track(r, Loc(12, 64, 12))
	assert.True(t, near.IsShownFor(r))
	assert.False(t, far.IsShownFor(r))

	p.Track(r, Loc(98, 64, 98))
	assert.False(t, near.IsShownFor(r))
	assert.True(t, far.IsShownFor(r))

	late := New(NewIDAllocator(900), Loc(99, 64, 99))
	late.TextLine(Static("late"))
	require.NoError(t, p.Add(late))
	assert.True(t, late.IsShownFor(r))

	p.Forget(r)
	assert.False(t, far.IsShownFor(r))
	assert.False(t, late.IsShownFor(r))
}

func TestPoolTrackSkipsUnsupported(t *testing.T) {
	p := NewPool("world")
	modern := newTestHologram()
	modern.DisplayTextLine(text("modern"))
	legacy := New(NewIDAllocator(500), Loc(0, 0, 0))
	legacy.TextLine(Static("legacy"))
	require.NoError(t, p.Add(modern))
	require.NoError(t, p.Add(legacy))

	r := newRecorder(1, proto.V1_8)
	p.Track(r, Loc(0, 0, 0))
	assert.False(t, modern.IsShownFor(r))
	assert.True(t, legacy.IsShownFor(r))
}

func TestPoolInteract(t *testing.T) {
	p := NewPool("world")
	h := newTestHologram()
	clicked := false
	hit := h.InteractionLine(1, 1).OnClick(func(Viewer) { clicked = true })
	require.NoError(t, p.Add(h))

	r := newRecorder(1, proto.V1_21)
	got, ok := p.Interact(r, hit.EntityIDs()[0])
	assert.True(t, ok)
	assert.Same(t, h, got)
	assert.True(t, clicked)

	got, ok = p.Interact(r, 42)
	assert.Nil(t, got)
	assert.False(t, ok)
}

func TestPoolCallbacksMayUsePool(t *testing.T) {
	p := NewPool("world")
	var sizes []int
	h := newTestHologram(
		OnShow(func(h *Hologram, _ Viewer) { sizes = append(sizes, p.Len()) }),
		OnHide(func(h *Hologram, _ Viewer) {
			_, ok := p.Get(h.ID())
			assert.True(t, ok)
		}),
	)
	h.TextLine(Static("hi"))
	a := newRecorder(1, proto.V1_21)
	b := newRecorder(2, proto.V1_21)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Track(a, Loc(0, 0, 0))
		assert.NoError(t, p.Add(h))
		p.Track(b, Loc(0, 0, 0))
		p.Forget(a)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool callback deadlocked")
	}
	assert.Equal(t, []int{1, 1}, sizes)
	assert.False(t, h.IsShownFor(a))
	assert.True(t, h.IsShownFor(b))
}
