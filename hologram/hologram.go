// Package hologram renders floating multi-line holograms with client-side
// entities. Nothing exists on the server: every line is a handful of
// packets sent to each viewer, built for that viewer's protocol revision.
//
// A Hologram and its lines are owned by one goroutine. Viewer sets may be
// read concurrently.
package hologram

import (
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/icexin/gocraft-holo/proto"
)

// DefaultLineSpacing is the vertical distance between two lines.
const DefaultLineSpacing = 0.28

type Option func(*Hologram)

func WithID(id uuid.UUID) Option {
	return func(h *Hologram) { h.id = id }
}

func WithName(name string) Option {
	return func(h *Hologram) { h.name = name }
}

func WithLineSpacing(spacing float64) Option {
	return func(h *Hologram) { h.spacing = spacing }
}

func WithLogger(l *log.Logger) Option {
	return func(h *Hologram) {
		if l != nil {
			h.log = l
		}
	}
}

// OnShow is called after the hologram was shown to a new viewer.
func OnShow(fn func(*Hologram, Viewer)) Option {
	return func(h *Hologram) { h.onShow = fn }
}

// OnHide is called after the hologram was hidden from a viewer.
func OnHide(fn func(*Hologram, Viewer)) Option {
	return func(h *Hologram) { h.onHide = fn }
}

type Hologram struct {
	id      uuid.UUID
	name    string
	ids     *IDAllocator
	spacing float64
	log     *log.Logger
	onShow  func(*Hologram, Viewer)
	onHide  func(*Hologram, Viewer)

	loc     Location
	lines   []Line
	loaded  bool
	viewers viewerSet
}

// New creates a detached hologram at loc. Entity ids are drawn from ids,
// which must be shared by every hologram the same viewers can see.
func New(ids *IDAllocator, loc Location, opts ...Option) *Hologram {
	h := &Hologram{
		id:      uuid.New(),
		ids:     ids,
		spacing: DefaultLineSpacing,
		log:     log.New(io.Discard, "", 0),
		loc:     loc,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hologram) ID() uuid.UUID { return h.id }

// Name defaults to the id.
func (h *Hologram) Name() string {
	if h.name == "" {
		return h.id.String()
	}
	return h.name
}

func (h *Hologram) Location() Location { return h.loc }

func (h *Hologram) Lines() []Line {
	return append([]Line(nil), h.lines...)
}

func (h *Hologram) Viewers() []Viewer {
	return append([]Viewer(nil), h.viewers.snapshot()...)
}

func (h *Hologram) IsShownFor(v Viewer) bool {
	return h.viewers.contains(v)
}

// Equal reports whether both holograms have the same id.
func (h *Hologram) Equal(o *Hologram) bool {
	return o != nil && h.id == o.id
}

// load computes line positions the first time the hologram is shown.
func (h *Hologram) load() error {
	if h.loaded {
		return nil
	}
	if len(h.lines) == 0 {
		return ErrNoLines
	}
	h.layout()
	h.loaded = true
	return nil
}

// layout stacks the lines bottom-up: the last line sits on the hologram
// position.
func (h *Hologram) layout() {
	n := len(h.lines)
	for i, l := range h.lines {
		b := l.base()
		b.loc = h.loc.Add(0, float64(n-1-i)*h.spacing+b.yOffset, 0)
	}
}

func (h *Hologram) check(v Viewer, lines []Line) error {
	for _, l := range lines {
		if err := l.base().r.check(v.Protocol()); err != nil {
			return err
		}
	}
	return nil
}

// Show spawns every line for v. Nothing is sent when the hologram has no
// lines or a line cannot be rendered for the viewer's protocol.
func (h *Hologram) Show(v Viewer) error {
	if err := h.check(v, h.lines); err != nil {
		return err
	}
	if err := h.load(); err != nil {
		return err
	}
	added := h.viewers.add(v)
	for _, l := range h.lines {
		l.base().show(v)
	}
	if added {
		h.log.Printf("hologram %s shown to %d", h.Name(), v.ID())
		if h.onShow != nil {
			h.onShow(h, v)
		}
	}
	return nil
}

func (h *Hologram) Hide(v Viewer) {
	for _, l := range h.lines {
		l.Hide(v)
	}
	if !h.viewers.remove(v) {
		return
	}
	h.log.Printf("hologram %s hidden from %d", h.Name(), v.ID())
	if h.onHide != nil {
		h.onHide(h, v)
	}
}

// ShowIn registers the hologram in p.
func (h *Hologram) ShowIn(p *Pool) error {
	return p.Add(h)
}

// HideFrom removes the hologram from p and hides it from everyone.
func (h *Hologram) HideFrom(p *Pool) {
	p.Remove(h)
}

// Teleport moves every line. Current viewers get teleport packets, their
// entities are never respawned.
func (h *Hologram) Teleport(loc Location) {
	h.loc = loc
	h.relocate()
}

func (h *Hologram) LineSpacing() float64 { return h.spacing }

// SetLineSpacing changes the gap between lines and moves shown lines to
// match. A spacing of zero or less restores DefaultLineSpacing.
func (h *Hologram) SetLineSpacing(spacing float64) {
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	if spacing == h.spacing {
		return
	}
	h.spacing = spacing
	h.relocate()
}

func (h *Hologram) relocate() {
	if !h.loaded {
		return
	}
	h.layout()
	for _, v := range h.viewers.snapshot() {
		for _, l := range h.lines {
			l.base().move(v)
		}
	}
}

// UpdateLines pushes the changes of every line to every viewer.
func (h *Hologram) UpdateLines() {
	for _, l := range h.lines {
		l.UpdateAll()
	}
}

// ReplaceLines swaps the whole line list. Current viewers see the old
// lines disappear before any new line is spawned. Nothing changes when the
// new lines cannot be shown to every current viewer.
func (h *Hologram) ReplaceLines(lines ...Line) error {
	if len(lines) == 0 {
		return ErrNoLines
	}
	for _, l := range lines {
		if l.Hologram() != h {
			return ErrForeignLine
		}
	}
	viewers := h.viewers.snapshot()
	for _, v := range viewers {
		if err := h.check(v, lines); err != nil {
			return err
		}
	}

	for _, v := range viewers {
		for _, l := range h.lines {
			l.Hide(v)
		}
	}
	h.lines = append([]Line(nil), lines...)
	h.loaded = false
	if err := h.load(); err != nil {
		return err
	}
	for _, v := range viewers {
		for _, l := range h.lines {
			l.base().show(v)
		}
	}
	return nil
}

// Interact runs the click handler of the interaction line owning entityID.
func (h *Hologram) Interact(v Viewer, entityID int32) bool {
	for _, l := range h.lines {
		il, ok := l.(*InteractionLine)
		if !ok || il.e.id != entityID {
			continue
		}
		return il.click(v)
	}
	return false
}

// HasEntity reports whether entityID belongs to one of the lines.
func (h *Hologram) HasEntity(entityID int32) bool {
	for _, l := range h.lines {
		for _, id := range l.EntityIDs() {
			if id == entityID {
				return true
			}
		}
	}
	return false
}

// add appends l. Current viewers only see it after the next Show.
func (h *Hologram) add(l Line) {
	h.lines = append(h.lines, l)
	if h.loaded {
		h.layout()
	}
}

// AddLine appends a line built with one of the New*Line constructors.
func (h *Hologram) AddLine(l Line) error {
	if l.Hologram() != h {
		return ErrForeignLine
	}
	h.add(l)
	return nil
}

func (h *Hologram) TextLine(text func(Viewer) string) *TextLine {
	l := NewTextLine(h, text)
	h.add(l)
	return l
}

func (h *Hologram) RichTextLine(text func(Viewer) proto.Component) *TextLine {
	l := NewRichTextLine(h, text)
	h.add(l)
	return l
}

func (h *Hologram) ItemLine(item func(Viewer) proto.Item) *ItemLine {
	l := NewItemLine(h, item)
	h.add(l)
	return l
}

func (h *Hologram) BlockLine(block func(Viewer) proto.Item) *BlockLine {
	l := NewBlockLine(h, block)
	h.add(l)
	return l
}

func (h *Hologram) DisplayTextLine(text func(Viewer) proto.Component) *DisplayTextLine {
	l := NewDisplayTextLine(h, text)
	h.add(l)
	return l
}

func (h *Hologram) DisplayItemLine(item func(Viewer) proto.Item) *DisplayItemLine {
	l := NewDisplayItemLine(h, item)
	h.add(l)
	return l
}

func (h *Hologram) DisplayBlockLine(block func(Viewer) proto.BlockState) *DisplayBlockLine {
	l := NewDisplayBlockLine(h, block)
	h.add(l)
	return l
}

func (h *Hologram) CompositeLine() *CompositeLine {
	l := NewCompositeLine(h)
	h.add(l)
	return l
}

func (h *Hologram) InteractionLine(width, height float32) *InteractionLine {
	l := NewInteractionLine(h, width, height)
	h.add(l)
	return l
}
