package hologram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-holo/proto"
)

func newTestHologram(opts ...Option) *Hologram {
	return New(NewIDAllocator(100), Loc(10, 64, 10), opts...)
}

func TestShowWithoutLines(t *testing.T) {
	h := newTestHologram()
	r := newRecorder(1, proto.V1_21)
	err := h.Show(r)
	assert.True(t, errors.Is(err, ErrNoLines))
	assert.Empty(t, r.packets)
	assert.False(t, h.IsShownFor(r))
}

func TestShowSpawnsEveryLine(t *testing.T) {
	var shown []int32
	h := newTestHologram(OnShow(func(_ *Hologram, v Viewer) { shown = append(shown, v.ID()) }))
	h.TextLine(Static("hello"))
	h.DisplayTextLine(text("world"))
	h.ItemLine(Static(proto.Item{ID: 1, Count: 1}))

	r := newRecorder(1, proto.V1_21)
	require.NoError(t, h.Show(r))
	assert.True(t, h.IsShownFor(r))
	assert.Equal(t, []int32{100, 101, 102, 103}, r.spawned())
	assert.Equal(t, 1, r.count(proto.IDSetPassengers))
	assert.Equal(t, []int32{1}, shown)

	// showing twice is a no-op
	r.reset()
	require.NoError(t, h.Show(r))
	assert.Empty(t, r.packets)
	assert.Equal(t, []int32{1}, shown)
}

func TestLinesStackBottomUp(t *testing.T) {
	h := newTestHologram(WithLineSpacing(0.5))
	top := h.TextLine(Static("top"))
	mid := h.TextLine(Static("mid")).SetYOffset(0.1)
	bottom := h.TextLine(Static("bottom"))
	require.NoError(t, h.Show(newRecorder(1, proto.V1_8)))

	assert.InDelta(t, 65.0, top.Location().Y, 1e-9)
	assert.InDelta(t, 64.6, mid.Location().Y, 1e-9)
	assert.InDelta(t, 64.0, bottom.Location().Y, 1e-9)
	assert.Equal(t, 10.0, bottom.Location().X)
}

func TestLegacyTextName(t *testing.T) {
	h := newTestHologram()
	l := h.TextLine(func(v Viewer) string { return "§aHi" })

	old := newRecorder(1, proto.V1_12)
	require.NoError(t, h.Show(old))
	md := old.metadata(l.EntityIDs()[0])
	require.Len(t, md, 1)
	name, ok := md[0].Entry(2)
	require.True(t, ok)
	assert.Equal(t, "§aHi", name.Value)
	flags, ok := md[0].Entry(11)
	require.True(t, ok)
	assert.Equal(t, standMarker, flags.Value)

	cur := newRecorder(2, proto.V1_21)
	require.NoError(t, h.Show(cur))
	md = cur.metadata(l.EntityIDs()[0])
	require.Len(t, md, 1)
	name, ok = md[0].Entry(2)
	require.True(t, ok)
	c, ok := name.Value.(*proto.Component)
	require.True(t, ok)
	assert.Equal(t, "Hi", c.Text)
	assert.Equal(t, "green", c.Color)
}

func TestPerViewerContent(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayTextLine(func(v Viewer) proto.Component {
		if v.ID() == 1 {
			return proto.Text("one")
		}
		return proto.Text("other")
	})
	a, b := newRecorder(1, proto.V1_21), newRecorder(2, proto.V1_21)
	require.NoError(t, h.Show(a))
	require.NoError(t, h.Show(b))

	id := l.EntityIDs()[0]
	ea, _ := a.metadata(id)[0].Entry(23)
	eb, _ := b.metadata(id)[0].Entry(23)
	assert.Equal(t, proto.Text("one"), ea.Value)
	assert.Equal(t, proto.Text("other"), eb.Value)
}

func TestDisplayLineRefusesOldClients(t *testing.T) {
	h := newTestHologram()
	h.TextLine(Static("fine everywhere"))
	h.DisplayTextLine(text("not on 1.18"))

	r := newRecorder(1, proto.V1_18)
	err := h.Show(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, proto.ErrUnsupportedVersion))
	assert.Empty(t, r.packets, "nothing is sent before the version check")
	assert.False(t, h.IsShownFor(r))
}

func TestRefusedShowLeavesHologramUnloaded(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayTextLine(text("not on 1.18"))

	old := newRecorder(1, proto.V1_18)
	require.Error(t, h.Show(old))
	require.Error(t, l.Show(old))
	assert.Equal(t, Location{}, l.Location())
	assert.Empty(t, old.packets)

	h.Teleport(Loc(0, 70, 0))
	assert.Equal(t, Location{}, l.Location())
	require.NoError(t, h.Show(newRecorder(2, proto.V1_21)))
	assert.Equal(t, Loc(0, 70, 0), l.Location())
}

func TestSetLineSpacing(t *testing.T) {
	h := newTestHologram()
	top := h.DisplayTextLine(text("top"))
	h.DisplayTextLine(text("bottom"))
	assert.Equal(t, DefaultLineSpacing, h.LineSpacing())

	r := newRecorder(1, proto.V1_21)
	require.NoError(t, h.Show(r))
	r.reset()
	h.SetLineSpacing(0.5)
	assert.InDelta(t, 64.5, top.Location().Y, 1e-9)
	assert.Equal(t, 2, r.count(proto.IDTeleportEntity))
	assert.Equal(t, 0, r.count(proto.IDSpawnEntity))

	r.reset()
	h.SetLineSpacing(0.5)
	assert.Empty(t, r.packets)

	h.SetLineSpacing(0)
	assert.Equal(t, DefaultLineSpacing, h.LineSpacing())
	assert.InDelta(t, 64+DefaultLineSpacing, top.Location().Y, 1e-9)
}

func TestHide(t *testing.T) {
	var hidden int
	h := newTestHologram(OnHide(func(*Hologram, Viewer) { hidden++ }))
	h.ItemLine(Static(proto.Item{ID: 7, Count: 1}))
	h.BlockLine(Static(proto.Item{ID: 1, Count: 1}))
	r := newRecorder(1, proto.V1_16)
	require.NoError(t, h.Show(r))

	r.reset()
	h.Hide(r)
	assert.ElementsMatch(t, []int32{100, 101, 102}, r.destroyed())
	assert.False(t, h.IsShownFor(r))
	assert.Equal(t, 1, hidden)

	r.reset()
	h.Hide(r)
	assert.Empty(t, r.packets)
	assert.Equal(t, 1, hidden)
}

func TestTeleport(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayBlockLine(Static(proto.BlockState(1)))

	// not shown yet: only the position changes
	h.Teleport(Loc(0, 70, 0))
	r := newRecorder(1, proto.V1_21)
	require.NoError(t, h.Show(r))
	assert.Equal(t, 70.0, l.Location().Y)

	r.reset()
	h.Teleport(Loc(5, 80, 5))
	require.Len(t, r.packets, 1)
	tp, ok := r.packets[0].(*proto.TeleportEntity)
	require.True(t, ok)
	assert.Equal(t, l.EntityIDs()[0], tp.EntityID)
	assert.Equal(t, 80.0, tp.Y)
	assert.Equal(t, 0, r.count(proto.IDSpawnEntity))
	assert.Equal(t, 0, r.count(proto.IDDestroyEntities))
}

func TestReplaceLines(t *testing.T) {
	h := newTestHologram()
	h.TextLine(Static("old"))
	a, b := newRecorder(1, proto.V1_21), newRecorder(2, proto.V1_20_2)
	require.NoError(t, h.Show(a))
	require.NoError(t, h.Show(b))
	a.reset()
	b.reset()

	next := NewDisplayTextLine(h, text("new"))
	require.NoError(t, h.ReplaceLines(next, NewTextLine(h, Static("second"))))
	for _, r := range []*recorder{a, b} {
		require.NotEmpty(t, r.packets)
		d, ok := r.packets[0].(*proto.DestroyEntities)
		require.True(t, ok, "old lines go away first")
		assert.Equal(t, []int32{100}, d.EntityIDs)
		assert.Equal(t, []int32{101, 102}, r.spawned())
	}
	assert.Len(t, h.Lines(), 2)
	assert.True(t, next.IsShownFor(a))
}

func TestReplaceLinesRejected(t *testing.T) {
	h := newTestHologram()
	h.TextLine(Static("old"))
	r := newRecorder(1, proto.V1_18)
	require.NoError(t, h.Show(r))
	r.reset()

	assert.True(t, errors.Is(h.ReplaceLines(), ErrNoLines))
	other := newTestHologram()
	assert.True(t, errors.Is(h.ReplaceLines(NewTextLine(other, Static("x"))), ErrForeignLine))
	err := h.ReplaceLines(NewDisplayTextLine(h, text("x")))
	assert.True(t, errors.Is(err, proto.ErrUnsupportedVersion))

	assert.Empty(t, r.packets)
	assert.Len(t, h.Lines(), 1)
}

func TestInteract(t *testing.T) {
	h := newTestHologram()
	h.TextLine(Static("click me"))
	var clicks []int32
	hit := h.InteractionLine(1, 0.5).OnClick(func(v Viewer) { clicks = append(clicks, v.ID()) })
	r := newRecorder(3, proto.V1_21)
	require.NoError(t, h.Show(r))

	md := r.metadata(hit.EntityIDs()[0])
	require.Len(t, md, 1)
	assert.Len(t, md[0].Entries, 3)

	assert.True(t, h.Interact(r, hit.EntityIDs()[0]))
	assert.False(t, h.Interact(r, 100))
	assert.Equal(t, []int32{3}, clicks)
}

func TestEqual(t *testing.T) {
	a := newTestHologram()
	b := newTestHologram(WithID(a.ID()))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(newTestHologram()))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, a.ID().String(), a.Name())
	assert.Equal(t, "spawn", newTestHologram(WithName("spawn")).Name())
}
