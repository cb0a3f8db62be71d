package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-holo/hologram"
	"github.com/icexin/gocraft-holo/proto"
)

const sample = `
holograms:
  - name: spawn
    location: {x: 1, y: 70, z: -3}
    spacing: 0.3
    lines:
      - type: text
        text: "&aWelcome {viewer}"
      - type: display_text
        text: "&lBold"
        background: 0xFF000000
        shadow: true
        text_align: left
        display:
          scale: [2, 2, 2]
          billboard: vertical
      - type: composite
        align: left
        elements:
          - type: item
            item: {id: 5}
            width: 0.4
          - type: spacer
            width: 0.2
          - type: block
            block: 9
      - type: interaction
        width: 1
        height: 0.5
        responsive: true
  - name: shop
    location: {x: 10, y: 64, z: 10}
    lines:
      - type: display_item
        item: {id: 276, count: 2}
        item_display: gui
`

type viewer struct {
	id int32
	v  proto.Version
}

func (v viewer) ID() int32               { return v.id }
func (v viewer) Protocol() proto.Version { return v.v }
func (v viewer) Send(proto.Packet)       {}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Holograms, 2)

	d := f.Holograms[0]
	assert.Equal(t, "spawn", d.Name)
	assert.Equal(t, hologram.Loc(1, 70, -3), d.Location.Location())
	require.Len(t, d.Lines, 4)
	require.NotNil(t, d.Lines[1].Background)
	assert.Equal(t, int64(0xFF000000), *d.Lines[1].Background)
	assert.True(t, d.Lines[1].Shadow)
	assert.Equal(t, []float32{2, 2, 2}, d.Lines[1].Display.Scale)
	require.Len(t, d.Lines[2].Elements, 3)
	assert.Equal(t, int32(9), d.Lines[2].Elements[2].Block)

	assert.Equal(t, d.ID(), (&Definition{Name: "spawn"}).ID())
	assert.NotEqual(t, d.ID(), f.Holograms[1].ID())
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown line type": `
holograms:
  - name: a
    location: {x: 0, y: 0, z: 0}
    lines: [{type: hat}]`,
		"no lines": `
holograms:
  - name: a
    location: {x: 0, y: 0, z: 0}
    lines: []`,
		"text without text": `
holograms:
  - name: a
    location: {x: 0, y: 0, z: 0}
    lines: [{type: display_text}]`,
		"bad scale": `
holograms:
  - name: a
    location: {x: 0, y: 0, z: 0}
    lines: [{type: display_block, block: 1, display: {scale: [1, 2]}}]`,
		"unknown field": `
holograms:
  - name: a
    colour: red
    location: {x: 0, y: 0, z: 0}
    lines: [{type: text, text: hi}]`,
		"duplicate name": `
holograms:
  - name: a
    location: {x: 0, y: 0, z: 0}
    lines: [{type: text, text: hi}]
  - name: a
    location: {x: 1, y: 0, z: 0}
    lines: [{type: text, text: hi}]`,
		"not yaml": "holograms: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}

	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Holograms)
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	ids := hologram.NewIDAllocator(1)
	h, err := f.Holograms[0].Build(ids)
	require.NoError(t, err)
	assert.Equal(t, "spawn", h.Name())
	assert.Equal(t, f.Holograms[0].ID(), h.ID())

	lines := h.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, hologram.KindText, lines[0].Kind())
	assert.Equal(t, hologram.KindDisplayText, lines[1].Kind())
	assert.Equal(t, hologram.KindComposite, lines[2].Kind())
	assert.Equal(t, hologram.KindInteraction, lines[3].Kind())

	row := lines[2].(*hologram.CompositeLine)
	assert.Equal(t, hologram.AlignLeft, row.Alignment())
	assert.InDelta(t, 1.1, row.TotalWidth(), 1e-6)
	assert.Len(t, row.EntityIDs(), 2)

	require.NoError(t, h.Show(viewer{id: 1, v: proto.V1_21}))
	assert.InDelta(t, 70.9, lines[0].Location().Y, 1e-9)
	assert.InDelta(t, 70.0, lines[3].Location().Y, 1e-9)
}

func TestExpand(t *testing.T) {
	v := viewer{id: 42, v: proto.V1_20_2}
	assert.Equal(t, "hi 42 on 1.20.2", expand("hi {viewer} on {protocol}", v))
	assert.Equal(t, "§aWelcome 42", legacyText("&aWelcome {viewer}")(v))
	c := richText("&lBold")(v)
	assert.True(t, c.Bold)
	assert.Equal(t, "Bold", c.Text)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holograms.yml")
	require.NoError(t, os.WriteFile(path, []byte("holograms: []\n"), 0644))

	got := make(chan *File, 4)
	w, err := Watch(path, nil, func(f *File) { got <- f })
	require.NoError(t, err)
	defer w.Close()

	// invalid versions are skipped
	require.NoError(t, os.WriteFile(path, []byte("holograms: [{name: x}]\n"), 0644))
	time.Sleep(3 * settle)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	select {
	case f := <-got:
		assert.Len(t, f.Holograms, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}
