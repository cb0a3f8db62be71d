package hologram

import "github.com/icexin/gocraft-holo/proto"

// Alignment places a row of elements relative to the line position.
type Alignment uint8

const (
	AlignCenter Alignment = iota
	AlignLeft
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return "center"
}

// Layout returns the horizontal center of every width laid end to end.
// LEFT starts at 0, RIGHT ends at 0 and CENTER straddles 0.
func Layout(widths []float32, align Alignment) []float32 {
	var total float32
	for _, w := range widths {
		total += w
	}
	var pos float32
	switch align {
	case AlignRight:
		pos = -total
	case AlignCenter:
		pos = -total / 2
	}
	out := make([]float32, len(widths))
	for i, w := range widths {
		out[i] = pos + w/2
		pos += w
	}
	return out
}

// CompositeLine lays display elements out side by side. Elements added
// after the line is shown appear on the next show.
type CompositeLine struct {
	line
	elements     []Element
	align        Alignment
	yTranslation float32
}

func NewCompositeLine(h *Hologram) *CompositeLine {
	l := &CompositeLine{}
	l.line = line{h: h, kind: KindComposite, r: l}
	return l
}

func (l *CompositeLine) SetYOffset(y float64) *CompositeLine {
	l.yOffset = y
	return l
}

// Add appends e. An element belongs to one composite line only.
func (l *CompositeLine) Add(e Element) *CompositeLine {
	e.attach(l.h.ids)
	l.elements = append(l.elements, e)
	return l
}

func (l *CompositeLine) AddSpacer(width float32) *CompositeLine {
	return l.Add(NewSpacer(width))
}

func (l *CompositeLine) SetAlignment(a Alignment) *CompositeLine {
	l.align = a
	return l
}

// YTranslation shifts every element vertically without moving the entities.
func (l *CompositeLine) YTranslation(y float32) *CompositeLine {
	l.yTranslation = y
	return l
}

func (l *CompositeLine) Alignment() Alignment { return l.align }

func (l *CompositeLine) Elements() []Element {
	return append([]Element(nil), l.elements...)
}

func (l *CompositeLine) TotalWidth() float32 {
	var total float32
	for _, e := range l.elements {
		total += e.Width()
	}
	return total
}

func (l *CompositeLine) offsets() []proto.Vector3f {
	widths := make([]float32, len(l.elements))
	for i, e := range l.elements {
		widths[i] = e.Width()
	}
	xs := Layout(widths, l.align)
	out := make([]proto.Vector3f, len(xs))
	for i, x := range xs {
		out[i] = proto.Vector3f{X: x, Y: l.yTranslation}
	}
	return out
}

func (l *CompositeLine) check(v proto.Version) error {
	for _, e := range l.elements {
		if err := e.check(v); err != nil {
			return err
		}
	}
	return nil
}

func (l *CompositeLine) spawn(v Viewer, loc Location) {
	for i, off := range l.offsets() {
		l.elements[i].spawn(v, loc, off)
	}
}

func (l *CompositeLine) update(v Viewer, full bool) {
	for i, off := range l.offsets() {
		l.elements[i].update(v, off, full)
	}
}

func (l *CompositeLine) despawn(v Viewer) {
	destroy(v, l.entityIDs()...)
}

func (l *CompositeLine) teleport(v Viewer, loc Location) {
	for _, e := range l.elements {
		e.teleport(v, loc)
	}
}

func (l *CompositeLine) entityIDs() []int32 {
	ids := make([]int32, 0, len(l.elements))
	for _, e := range l.elements {
		if e.HasEntity() {
			ids = append(ids, e.EntityID())
		}
	}
	return ids
}

func (l *CompositeLine) endCycle() {
	for _, e := range l.elements {
		e.endCycle()
	}
}
