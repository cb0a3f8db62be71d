package hologram

import "github.com/icexin/gocraft-holo/proto"

// displayLine is the renderer shared by the single-entity display lines.
type displayLine struct {
	line
	e displayEntity
}

func (l *displayLine) init(h *Hologram, kind Kind, ek proto.EntityKind, p payload, r renderer, content proto.Field) {
	l.line = line{h: h, kind: kind, r: r}
	l.e = displayEntity{
		entity:  newEntity(h.ids, ek),
		display: newDisplay(proto.FieldTranslation, content),
		payload: p,
	}
}

// Display exposes the transform of the line entity.
func (l *displayLine) Display() *Display { return l.e.display }

func (l *displayLine) check(v proto.Version) error { return l.e.check(v) }

func (l *displayLine) spawn(v Viewer, loc Location) {
	l.e.spawn(v, loc)
	l.e.update(v, proto.Vector3f{}, true)
}

func (l *displayLine) update(v Viewer, full bool) {
	l.e.update(v, proto.Vector3f{}, full)
}

func (l *displayLine) despawn(v Viewer)                { destroy(v, l.e.id) }
func (l *displayLine) teleport(v Viewer, loc Location) { l.e.teleport(v, loc) }
func (l *displayLine) entityIDs() []int32              { return []int32{l.e.id} }
func (l *displayLine) endCycle()                       { l.e.display.fields.drain() }

// DisplayTextLine renders a chat component with a text display entity.
// Requires 1.19.4.
type DisplayTextLine struct {
	displayLine
	text *textPayload
}

func NewDisplayTextLine(h *Hologram, text func(Viewer) proto.Component) *DisplayTextLine {
	l := &DisplayTextLine{text: newTextPayload(text)}
	l.init(h, KindDisplayText, proto.KindTextDisplay, l.text, l, proto.FieldText)
	return l
}

func (l *DisplayTextLine) SetYOffset(y float64) *DisplayTextLine {
	l.yOffset = y
	return l
}

// LineWidth is the wrap width in pixels, 200 by default.
func (l *DisplayTextLine) LineWidth(w int32) *DisplayTextLine {
	l.text.lineWidth = w
	l.e.display.fields.mark(proto.FieldLineWidth)
	return l
}

// Background is an ARGB color.
func (l *DisplayTextLine) Background(argb int32) *DisplayTextLine {
	l.text.background = argb
	l.e.display.fields.mark(proto.FieldBackgroundColor)
	return l
}

func (l *DisplayTextLine) TextOpacity(a byte) *DisplayTextLine {
	l.text.opacity = a
	l.e.display.fields.mark(proto.FieldTextOpacity)
	return l
}

func (l *DisplayTextLine) Shadow(on bool) *DisplayTextLine {
	l.text.setOption(&l.e.display.fields, TextShadow, on)
	return l
}

func (l *DisplayTextLine) SeeThrough(on bool) *DisplayTextLine {
	l.text.setOption(&l.e.display.fields, TextSeeThrough, on)
	return l
}

func (l *DisplayTextLine) DefaultBackground(on bool) *DisplayTextLine {
	l.text.setOption(&l.e.display.fields, TextDefaultBackground, on)
	return l
}

func (l *DisplayTextLine) Alignment(a TextAlignment) *DisplayTextLine {
	l.text.setAlignment(&l.e.display.fields, a)
	return l
}

// DisplayItemLine renders an item with an item display entity.
// Requires 1.19.4.
type DisplayItemLine struct {
	displayLine
	item *itemPayload
}

func NewDisplayItemLine(h *Hologram, item func(Viewer) proto.Item) *DisplayItemLine {
	l := &DisplayItemLine{item: &itemPayload{item: item}}
	l.init(h, KindDisplayItem, proto.KindItemDisplay, l.item, l, proto.FieldDisplayedItem)
	return l
}

func (l *DisplayItemLine) SetYOffset(y float64) *DisplayItemLine {
	l.yOffset = y
	return l
}

func (l *DisplayItemLine) ItemDisplayType(t ItemDisplayType) *DisplayItemLine {
	l.item.displayType = t
	l.e.display.fields.mark(proto.FieldItemDisplayType)
	return l
}

// DisplayBlockLine renders a block state with a block display entity.
// Requires 1.19.4.
type DisplayBlockLine struct {
	displayLine
}

func NewDisplayBlockLine(h *Hologram, block func(Viewer) proto.BlockState) *DisplayBlockLine {
	l := &DisplayBlockLine{}
	l.init(h, KindDisplayBlock, proto.KindBlockDisplay, &blockPayload{block: block}, l, proto.FieldBlockState)
	return l
}

func (l *DisplayBlockLine) SetYOffset(y float64) *DisplayBlockLine {
	l.yOffset = y
	return l
}

// InteractionLine is an invisible hitbox. Clicks on it are reported through
// Hologram.Interact.
type InteractionLine struct {
	line
	e          entity
	width      float32
	height     float32
	responsive bool
	onClick    func(Viewer)
}

func NewInteractionLine(h *Hologram, width, height float32) *InteractionLine {
	l := &InteractionLine{
		e:      newEntity(h.ids, proto.KindInteraction),
		width:  width,
		height: height,
	}
	l.line = line{h: h, kind: KindInteraction, r: l}
	return l
}

func (l *InteractionLine) SetYOffset(y float64) *InteractionLine {
	l.yOffset = y
	return l
}

func (l *InteractionLine) Size(width, height float32) *InteractionLine {
	l.width, l.height = width, height
	return l
}

// Responsive makes the client swing its arm on click.
func (l *InteractionLine) Responsive(on bool) *InteractionLine {
	l.responsive = on
	return l
}

func (l *InteractionLine) OnClick(fn func(Viewer)) *InteractionLine {
	l.onClick = fn
	return l
}

func (l *InteractionLine) click(v Viewer) bool {
	if l.onClick == nil {
		return false
	}
	l.onClick(v)
	return true
}

func (l *InteractionLine) check(v proto.Version) error {
	return checkKinds(v, proto.KindInteraction)
}

func (l *InteractionLine) spawn(v Viewer, loc Location) {
	l.e.spawn(v, loc)
	l.update(v, true)
}

func (l *InteractionLine) update(v Viewer, full bool) {
	s, err := proto.MetadataSchema(proto.KindInteraction, v.Protocol())
	if err != nil {
		return
	}
	l.e.metadata(v, legacyFields.entries(s, true, func(spec proto.FieldSpec) (interface{}, bool) {
		switch spec.Field {
		case proto.FieldInteractionWidth:
			return l.width, true
		case proto.FieldInteractionHeight:
			return l.height, true
		case proto.FieldInteractionResponse:
			return l.responsive, true
		}
		return nil, false
	}))
}

func (l *InteractionLine) despawn(v Viewer)                { destroy(v, l.e.id) }
func (l *InteractionLine) teleport(v Viewer, loc Location) { l.e.teleport(v, loc) }
func (l *InteractionLine) entityIDs() []int32              { return []int32{l.e.id} }
func (l *InteractionLine) endCycle()                       {}
