package hologram

import "github.com/icexin/gocraft-holo/proto"

// Kind tells line variants apart.
type Kind uint8

const (
	KindItem Kind = iota
	KindBlock
	KindText
	KindRichText
	KindDisplayText
	KindDisplayBlock
	KindDisplayItem
	KindComposite
	KindInteraction
)

var kindNames = [...]string{
	KindItem:         "item",
	KindBlock:        "block",
	KindText:         "text",
	KindRichText:     "rich_text",
	KindDisplayText:  "display_text",
	KindDisplayBlock: "display_block",
	KindDisplayItem:  "display_item",
	KindComposite:    "composite",
	KindInteraction:  "interaction",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Line is one row of a hologram. The set of implementations is closed:
// *TextLine, *ItemLine, *BlockLine, *DisplayTextLine, *DisplayItemLine,
// *DisplayBlockLine, *CompositeLine and *InteractionLine.
type Line interface {
	Kind() Kind
	Hologram() *Hologram
	// Location is the hologram position plus the line offset. It is only
	// meaningful once the hologram has been shown.
	Location() Location
	YOffset() float64
	EntityIDs() []int32
	IsShownFor(v Viewer) bool

	// Show spawns the line for v. The hologram must have at least one line.
	Show(v Viewer) error
	Hide(v Viewer)
	// Update resends the line content to v.
	Update(v Viewer)
	// UpdateAll sends what changed since the last cycle to every viewer.
	UpdateAll()

	base() *line
}

// renderer is what a line variant implements on top of the shared state.
type renderer interface {
	check(v proto.Version) error
	spawn(v Viewer, loc Location)
	despawn(v Viewer)
	update(v Viewer, full bool)
	teleport(v Viewer, loc Location)
	entityIDs() []int32
	endCycle()
}

// line holds the state every variant shares.
type line struct {
	h       *Hologram
	kind    Kind
	yOffset float64
	loc     Location
	viewers viewerSet
	r       renderer
}

func (l *line) base() *line              { return l }
func (l *line) Kind() Kind               { return l.kind }
func (l *line) Hologram() *Hologram      { return l.h }
func (l *line) Location() Location       { return l.loc }
func (l *line) YOffset() float64         { return l.yOffset }
func (l *line) EntityIDs() []int32       { return l.r.entityIDs() }
func (l *line) IsShownFor(v Viewer) bool { return l.viewers.contains(v) }

func (l *line) Show(v Viewer) error {
	if err := l.r.check(v.Protocol()); err != nil {
		return err
	}
	if err := l.h.load(); err != nil {
		return err
	}
	l.show(v)
	l.h.viewers.add(v)
	return nil
}

// show spawns without any checks.
func (l *line) show(v Viewer) {
	if !l.viewers.add(v) {
		return
	}
	l.r.spawn(v, l.loc)
}

func (l *line) Hide(v Viewer) {
	if !l.viewers.remove(v) {
		return
	}
	l.r.despawn(v)
}

func (l *line) Update(v Viewer) {
	if !l.viewers.contains(v) {
		return
	}
	l.r.update(v, true)
}

func (l *line) UpdateAll() {
	for _, v := range l.viewers.snapshot() {
		l.r.update(v, false)
	}
	l.r.endCycle()
}

// move sends the current position to v.
func (l *line) move(v Viewer) {
	if !l.viewers.contains(v) {
		return
	}
	l.r.teleport(v, l.loc)
}

// Static returns a supplier that ignores the viewer.
func Static[T any](value T) func(Viewer) T {
	return func(Viewer) T { return value }
}
