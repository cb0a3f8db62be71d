package hologram

import "github.com/icexin/gocraft-holo/proto"

// DefaultElementWidth is the layout width of a new element.
const DefaultElementWidth float32 = 0.5

// Element is one horizontal slot of a CompositeLine. The set of
// implementations is closed: *TextElement, *ItemElement, *BlockElement and
// *Spacer.
type Element interface {
	// Width is the declared layout width, never a measured one.
	Width() float32
	// EntityID is 0 when HasEntity is false.
	EntityID() int32
	HasEntity() bool

	attach(ids *IDAllocator)
	check(v proto.Version) error
	spawn(v Viewer, loc Location, offset proto.Vector3f)
	update(v Viewer, offset proto.Vector3f, full bool)
	teleport(v Viewer, loc Location)
	endCycle()
}

type element struct {
	displayEntity
	width float32
}

func newElement(kind proto.EntityKind, p payload, content proto.Field) element {
	return element{
		displayEntity: displayEntity{
			entity:  entity{kind: kind},
			display: newDisplay(proto.FieldTranslation, content),
			payload: p,
		},
		width: DefaultElementWidth,
	}
}

func (e *element) Width() float32    { return e.width }
func (e *element) EntityID() int32   { return e.id }
func (e *element) HasEntity() bool   { return true }
func (e *element) Display() *Display { return e.display }

func (e *element) attach(ids *IDAllocator) {
	e.entity = newEntity(ids, e.kind)
}

func (e *element) spawn(v Viewer, loc Location, offset proto.Vector3f) {
	e.entity.spawn(v, loc)
	e.update(v, offset, true)
}

func (e *element) teleport(v Viewer, loc Location) { e.entity.teleport(v, loc) }
func (e *element) endCycle()                       { e.display.fields.drain() }

// TextElement is a text display inside a composite line.
type TextElement struct {
	element
	text *textPayload
}

func NewTextElement(text func(Viewer) proto.Component) *TextElement {
	p := newTextPayload(text)
	return &TextElement{element: newElement(proto.KindTextDisplay, p, proto.FieldText), text: p}
}

func (e *TextElement) SetWidth(w float32) *TextElement {
	e.width = w
	return e
}

func (e *TextElement) LineWidth(w int32) *TextElement {
	e.text.lineWidth = w
	e.display.fields.mark(proto.FieldLineWidth)
	return e
}

func (e *TextElement) Background(argb int32) *TextElement {
	e.text.background = argb
	e.display.fields.mark(proto.FieldBackgroundColor)
	return e
}

func (e *TextElement) TextOpacity(a byte) *TextElement {
	e.text.opacity = a
	e.display.fields.mark(proto.FieldTextOpacity)
	return e
}

func (e *TextElement) Shadow(on bool) *TextElement {
	e.text.setOption(&e.display.fields, TextShadow, on)
	return e
}

func (e *TextElement) SeeThrough(on bool) *TextElement {
	e.text.setOption(&e.display.fields, TextSeeThrough, on)
	return e
}

func (e *TextElement) DefaultBackground(on bool) *TextElement {
	e.text.setOption(&e.display.fields, TextDefaultBackground, on)
	return e
}

func (e *TextElement) Alignment(a TextAlignment) *TextElement {
	e.text.setAlignment(&e.display.fields, a)
	return e
}

// ItemElement is an item display inside a composite line.
type ItemElement struct {
	element
	item *itemPayload
}

func NewItemElement(item func(Viewer) proto.Item) *ItemElement {
	p := &itemPayload{item: item}
	return &ItemElement{element: newElement(proto.KindItemDisplay, p, proto.FieldDisplayedItem), item: p}
}

func (e *ItemElement) SetWidth(w float32) *ItemElement {
	e.width = w
	return e
}

func (e *ItemElement) ItemDisplayType(t ItemDisplayType) *ItemElement {
	e.item.displayType = t
	e.display.fields.mark(proto.FieldItemDisplayType)
	return e
}

// BlockElement is a block display inside a composite line.
type BlockElement struct {
	element
}

func NewBlockElement(block func(Viewer) proto.BlockState) *BlockElement {
	return &BlockElement{element: newElement(proto.KindBlockDisplay, &blockPayload{block: block}, proto.FieldBlockState)}
}

func (e *BlockElement) SetWidth(w float32) *BlockElement {
	e.width = w
	return e
}

// Spacer takes up room without an entity.
type Spacer struct {
	width float32
}

func NewSpacer(width float32) *Spacer {
	return &Spacer{width: width}
}

func (s *Spacer) Width() float32  { return s.width }
func (s *Spacer) EntityID() int32 { return 0 }
func (s *Spacer) HasEntity() bool { return false }

func (s *Spacer) attach(*IDAllocator)                    {}
func (s *Spacer) check(proto.Version) error              { return nil }
func (s *Spacer) spawn(Viewer, Location, proto.Vector3f) {}
func (s *Spacer) update(Viewer, proto.Vector3f, bool)    {}
func (s *Spacer) teleport(Viewer, Location)              {}
func (s *Spacer) endCycle()                              {}
