package hologram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-holo/proto"
)

func TestDirtySet(t *testing.T) {
	var d DirtySet
	d.Mark(proto.FieldScale)
	d.Mark(proto.FieldGlowColor)
	d.Mark(proto.FieldScale)
	assert.Equal(t, 2, d.Len())
	assert.True(t, d.Has(proto.FieldScale))

	assert.True(t, d.DrainIfDirty(proto.FieldScale))
	assert.False(t, d.DrainIfDirty(proto.FieldScale))
	assert.False(t, d.Has(proto.FieldScale))
	assert.Equal(t, Fields(proto.FieldGlowColor), d)
}

func indices(m *proto.EntityMetadata) []uint8 {
	out := make([]uint8, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Index
	}
	return out
}

func TestSpawnSendsAlwaysAndModified(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayTextLine(text("hi"))
	r := newRecorder(1, proto.V1_21)
	require.NoError(t, h.Show(r))

	md := r.metadata(l.EntityIDs()[0])
	require.Len(t, md, 1)
	// translation and text only
	assert.Equal(t, []uint8{11, 23}, indices(md[0]))

	l.Display().Billboard(BillboardCenter)
	late := newRecorder(2, proto.V1_21)
	require.NoError(t, h.Show(late))
	md = late.metadata(l.EntityIDs()[0])
	require.Len(t, md, 1)
	assert.Equal(t, []uint8{11, 15, 23}, indices(md[0]))
	b, _ := md[0].Entry(15)
	assert.Equal(t, byte(BillboardCenter), b.Value)
}

func TestUnsetFieldsAreNotSent(t *testing.T) {
	h := newTestHologram()
	h.DisplayItemLine(Static(proto.Item{ID: 1, Count: 1}))
	h.DisplayBlockLine(Static(proto.BlockState(2)))
	h.CompositeLine().
		Add(NewTextElement(text("a"))).
		Add(NewItemElement(Static(proto.Item{ID: 3, Count: 1}))).
		Add(NewBlockElement(Static(proto.BlockState(4))))
	r := newRecorder(1, proto.V1_21)
	require.NoError(t, h.Show(r))

	for _, id := range r.spawned() {
		md := r.metadata(id)
		require.Len(t, md, 1)
		assert.Equal(t, []uint8{11, 23}, indices(md[0]), "entity %d", id)
	}
	r.reset()
	for _, l := range h.Lines() {
		l.Update(r)
	}
	for _, id := range []int32{100, 101, 102, 103, 104} {
		md := r.metadata(id)
		require.Len(t, md, 1)
		assert.Equal(t, []uint8{11, 23}, indices(md[0]), "entity %d", id)
	}
}

func TestUpdateAllSendsChangesOnce(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayTextLine(text("hi"))
	a := newRecorder(1, proto.V1_21)
	b := newRecorder(2, proto.V1_19_4)
	require.NoError(t, h.Show(a))
	require.NoError(t, h.Show(b))
	id := l.EntityIDs()[0]

	a.reset()
	b.reset()
	l.Display().Scale(2)
	l.Shadow(true)
	h.UpdateLines()

	md := a.metadata(id)
	require.Len(t, md, 1)
	assert.Equal(t, []uint8{11, 12, 23, 27}, indices(md[0]))
	scale, _ := md[0].Entry(12)
	assert.Equal(t, proto.Vector3f{X: 2, Y: 2, Z: 2}, scale.Value)
	opts, _ := md[0].Entry(27)
	assert.Equal(t, TextShadow, opts.Value)

	// one index lower on 1.19.4
	md = b.metadata(id)
	require.Len(t, md, 1)
	assert.Equal(t, []uint8{10, 11, 22, 26}, indices(md[0]))

	// nothing changed since
	a.reset()
	h.UpdateLines()
	md = a.metadata(id)
	require.Len(t, md, 1)
	assert.Equal(t, []uint8{11, 23}, indices(md[0]))
}

func TestLateViewerSeesModifiedFields(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayItemLine(Static(proto.Item{ID: 3, Count: 1}))
	l.ItemDisplayType(ItemGUI).Display().GlowColor(0xFF0000)
	a := newRecorder(1, proto.V1_21)
	require.NoError(t, h.Show(a))
	h.UpdateLines()

	b := newRecorder(2, proto.V1_21)
	require.NoError(t, h.Show(b))
	md := b.metadata(l.EntityIDs()[0])
	require.Len(t, md, 1)
	assert.Equal(t, []uint8{11, 22, 23, 24}, indices(md[0]))
	typ, _ := md[0].Entry(24)
	assert.Equal(t, byte(ItemGUI), typ.Value)
}

func TestTextOptionsAndAlignment(t *testing.T) {
	h := newTestHologram()
	l := h.DisplayTextLine(text("x")).
		SeeThrough(true).
		DefaultBackground(true).
		Alignment(TextRight)
	l.SeeThrough(false)
	assert.Equal(t, TextDefaultBackground|byte(TextRight)<<3, l.text.options)
	assert.True(t, l.e.display.fields.pending.Has(proto.FieldTextOptions))
}
