package hologram

import (
	"github.com/google/uuid"

	"github.com/icexin/gocraft-holo/proto"
)

// entity is one client-side entity id.
type entity struct {
	id   int32
	uuid uuid.UUID
	kind proto.EntityKind
}

func newEntity(ids *IDAllocator, kind proto.EntityKind) entity {
	return entity{id: ids.Next(), uuid: uuid.New(), kind: kind}
}

func (e *entity) spawn(v Viewer, loc Location) {
	v.Send(&proto.SpawnEntity{
		EntityID: e.id,
		UUID:     e.uuid,
		Kind:     e.kind,
		X:        loc.X,
		Y:        loc.Y,
		Z:        loc.Z,
		Yaw:      loc.Yaw,
		Pitch:    loc.Pitch,
	})
}

func (e *entity) teleport(v Viewer, loc Location) {
	v.Send(&proto.TeleportEntity{
		EntityID: e.id,
		X:        loc.X,
		Y:        loc.Y,
		Z:        loc.Z,
		Yaw:      loc.Yaw,
		Pitch:    loc.Pitch,
	})
}

func (e *entity) metadata(v Viewer, entries []proto.Entry) {
	v.Send(&proto.EntityMetadata{EntityID: e.id, Entries: entries})
}

func destroy(v Viewer, ids ...int32) {
	if len(ids) == 0 {
		return
	}
	v.Send(&proto.DestroyEntities{EntityIDs: ids})
}

// payload supplies the content fields of a display entity for one viewer.
type payload interface {
	value(v Viewer, f proto.Field) (interface{}, bool)
}

// displayEntity is a display entity: an id, its transform bag and content.
type displayEntity struct {
	entity
	display *Display
	payload payload
}

func (e *displayEntity) check(v proto.Version) error {
	_, err := proto.MetadataSchema(e.kind, v)
	return err
}

// update sends the always-send fields plus either every modified field
// (full) or the fields pending since the last cycle.
func (e *displayEntity) update(v Viewer, offset proto.Vector3f, full bool) {
	s, err := proto.MetadataSchema(e.kind, v.Protocol())
	if err != nil {
		// refused when shown
		return
	}
	entries := e.display.fields.entries(s, full, func(spec proto.FieldSpec) (interface{}, bool) {
		if val, ok := e.payload.value(v, spec.Field); ok {
			return val, true
		}
		return e.display.value(spec.Field, offset)
	})
	e.metadata(v, entries)
}

// Text display option bits.
const (
	TextShadow            byte = 0x01
	TextSeeThrough        byte = 0x02
	TextDefaultBackground byte = 0x04
)

// TextAlignment aligns the lines of a text display.
type TextAlignment byte

const (
	TextCenter TextAlignment = iota
	TextLeft
	TextRight
)

// DefaultBackground is the translucent black behind display text.
const DefaultBackground int32 = 0x40000000

type textPayload struct {
	text       func(Viewer) proto.Component
	lineWidth  int32
	background int32
	opacity    byte
	options    byte
}

func newTextPayload(text func(Viewer) proto.Component) *textPayload {
	return &textPayload{
		text:       text,
		lineWidth:  200,
		background: DefaultBackground,
		opacity:    0xFF,
	}
}

func (p *textPayload) value(v Viewer, f proto.Field) (interface{}, bool) {
	switch f {
	case proto.FieldText:
		return p.text(v), true
	case proto.FieldLineWidth:
		return p.lineWidth, true
	case proto.FieldBackgroundColor:
		return p.background, true
	case proto.FieldTextOpacity:
		return p.opacity, true
	case proto.FieldTextOptions:
		return p.options, true
	}
	return nil, false
}

func (p *textPayload) setOption(t *tracker, flag byte, on bool) {
	if on {
		p.options |= flag
	} else {
		p.options &^= flag
	}
	t.mark(proto.FieldTextOptions)
}

func (p *textPayload) setAlignment(t *tracker, a TextAlignment) {
	p.options = p.options&0x07 | byte(a)<<3
	t.mark(proto.FieldTextOptions)
}

// ItemDisplayType is the model transform an item display renders with.
type ItemDisplayType byte

const (
	ItemNone ItemDisplayType = iota
	ItemThirdPersonLeftHand
	ItemThirdPersonRightHand
	ItemFirstPersonLeftHand
	ItemFirstPersonRightHand
	ItemHead
	ItemGUI
	ItemGround
	ItemFixed
)

type itemPayload struct {
	item        func(Viewer) proto.Item
	displayType ItemDisplayType
}

func (p *itemPayload) value(v Viewer, f proto.Field) (interface{}, bool) {
	switch f {
	case proto.FieldDisplayedItem:
		return p.item(v), true
	case proto.FieldItemDisplayType:
		return byte(p.displayType), true
	}
	return nil, false
}

type blockPayload struct {
	block func(Viewer) proto.BlockState
}

func (p *blockPayload) value(v Viewer, f proto.Field) (interface{}, bool) {
	if f == proto.FieldBlockState {
		return p.block(v), true
	}
	return nil, false
}
