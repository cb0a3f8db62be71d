package hologram

import "github.com/icexin/gocraft-holo/proto"

const (
	flagInvisible byte = 0x20
	standMarker   byte = 0x10
)

// legacy lines resend their whole state on every update
var legacyFields = &tracker{always: ^DirtySet(0)}

// standEntries describes an invisible marker armor stand. name is nil for a
// stand without a custom name.
func standEntries(s *proto.Schema, name func(proto.DataType) interface{}) []proto.Entry {
	return legacyFields.entries(s, true, func(spec proto.FieldSpec) (interface{}, bool) {
		switch spec.Field {
		case proto.FieldEntityFlags:
			return flagInvisible, true
		case proto.FieldCustomName:
			if name != nil {
				return name(spec.Type), true
			}
			if spec.Type == proto.TypeString {
				return "", true
			}
			return (*proto.Component)(nil), true
		case proto.FieldCustomNameVisible:
			if spec.Type == proto.TypeByte {
				if name != nil {
					return byte(1), true
				}
				return byte(0), true
			}
			return name != nil, true
		case proto.FieldNoGravity:
			return true, true
		case proto.FieldArmorStandFlags:
			return standMarker, true
		}
		return nil, false
	})
}

func checkKinds(v proto.Version, kinds ...proto.EntityKind) error {
	for _, k := range kinds {
		if _, err := proto.MetadataSchema(k, v); err != nil {
			return err
		}
	}
	return nil
}

// TextLine shows text as the name of an invisible armor stand. It works on
// every protocol revision.
type TextLine struct {
	line
	stand entity
	raw   func(Viewer) string
	rich  func(Viewer) proto.Component
}

// NewTextLine builds a line for h without adding it. Section-sign color
// codes in the text are honored.
func NewTextLine(h *Hologram, text func(Viewer) string) *TextLine {
	l := &TextLine{stand: newEntity(h.ids, proto.KindArmorStand), raw: text}
	l.line = line{h: h, kind: KindText, r: l}
	return l
}

// NewRichTextLine is NewTextLine with a chat component.
func NewRichTextLine(h *Hologram, text func(Viewer) proto.Component) *TextLine {
	l := &TextLine{stand: newEntity(h.ids, proto.KindArmorStand), rich: text}
	l.line = line{h: h, kind: KindRichText, r: l}
	return l
}

func (l *TextLine) SetYOffset(y float64) *TextLine {
	l.yOffset = y
	return l
}

func (l *TextLine) name(v Viewer) func(proto.DataType) interface{} {
	return func(t proto.DataType) interface{} {
		if t == proto.TypeString {
			if l.rich != nil {
				return proto.Legacy(l.rich(v))
			}
			return l.raw(v)
		}
		var c proto.Component
		if l.rich != nil {
			c = l.rich(v)
		} else {
			c = proto.ParseLegacy(proto.SectionSign, l.raw(v))
		}
		return &c
	}
}

func (l *TextLine) check(v proto.Version) error {
	return checkKinds(v, proto.KindArmorStand)
}

func (l *TextLine) spawn(v Viewer, loc Location) {
	l.stand.spawn(v, loc)
	l.update(v, true)
}

func (l *TextLine) update(v Viewer, full bool) {
	s, err := proto.MetadataSchema(proto.KindArmorStand, v.Protocol())
	if err != nil {
		return
	}
	l.stand.metadata(v, standEntries(s, l.name(v)))
}

func (l *TextLine) despawn(v Viewer)                { destroy(v, l.stand.id) }
func (l *TextLine) teleport(v Viewer, loc Location) { l.stand.teleport(v, loc) }
func (l *TextLine) entityIDs() []int32              { return []int32{l.stand.id} }
func (l *TextLine) endCycle()                       {}

// ItemLine shows a floating dropped item riding an invisible armor stand.
type ItemLine struct {
	line
	stand  entity
	item   entity
	supply func(Viewer) proto.Item
}

func NewItemLine(h *Hologram, item func(Viewer) proto.Item) *ItemLine {
	l := &ItemLine{
		stand:  newEntity(h.ids, proto.KindArmorStand),
		item:   newEntity(h.ids, proto.KindItem),
		supply: item,
	}
	l.line = line{h: h, kind: KindItem, r: l}
	return l
}

func (l *ItemLine) SetYOffset(y float64) *ItemLine {
	l.yOffset = y
	return l
}

func (l *ItemLine) check(v proto.Version) error {
	return checkKinds(v, proto.KindArmorStand, proto.KindItem)
}

func (l *ItemLine) spawn(v Viewer, loc Location) {
	s, err := proto.MetadataSchema(proto.KindArmorStand, v.Protocol())
	if err != nil {
		return
	}
	l.stand.spawn(v, loc)
	l.stand.metadata(v, standEntries(s, nil))
	l.item.spawn(v, loc)
	l.update(v, true)
	v.Send(&proto.SetPassengers{EntityID: l.stand.id, Passengers: []int32{l.item.id}})
}

func (l *ItemLine) update(v Viewer, full bool) {
	s, err := proto.MetadataSchema(proto.KindItem, v.Protocol())
	if err != nil {
		return
	}
	l.item.metadata(v, legacyFields.entries(s, true, func(spec proto.FieldSpec) (interface{}, bool) {
		switch spec.Field {
		case proto.FieldEntityFlags:
			return byte(0), true
		case proto.FieldNoGravity:
			return true, true
		case proto.FieldDroppedItem:
			return l.supply(v), true
		}
		return nil, false
	}))
}

func (l *ItemLine) despawn(v Viewer) { destroy(v, l.item.id, l.stand.id) }

// the item rides the stand, moving the stand is enough
func (l *ItemLine) teleport(v Viewer, loc Location) { l.stand.teleport(v, loc) }
func (l *ItemLine) entityIDs() []int32              { return []int32{l.stand.id, l.item.id} }
func (l *ItemLine) endCycle()                       {}

// BlockLine shows an item, usually a block, on the head of an invisible
// armor stand.
type BlockLine struct {
	line
	stand  entity
	supply func(Viewer) proto.Item
}

func NewBlockLine(h *Hologram, block func(Viewer) proto.Item) *BlockLine {
	l := &BlockLine{stand: newEntity(h.ids, proto.KindArmorStand), supply: block}
	l.line = line{h: h, kind: KindBlock, r: l}
	return l
}

func (l *BlockLine) SetYOffset(y float64) *BlockLine {
	l.yOffset = y
	return l
}

func (l *BlockLine) check(v proto.Version) error {
	return checkKinds(v, proto.KindArmorStand)
}

func (l *BlockLine) spawn(v Viewer, loc Location) {
	s, err := proto.MetadataSchema(proto.KindArmorStand, v.Protocol())
	if err != nil {
		return
	}
	l.stand.spawn(v, loc)
	l.stand.metadata(v, standEntries(s, nil))
	l.update(v, true)
}

func (l *BlockLine) update(v Viewer, full bool) {
	v.Send(&proto.EntityEquipment{EntityID: l.stand.id, Slot: proto.SlotHead, Item: l.supply(v)})
}

func (l *BlockLine) despawn(v Viewer)                { destroy(v, l.stand.id) }
func (l *BlockLine) teleport(v Viewer, loc Location) { l.stand.teleport(v, loc) }
func (l *BlockLine) entityIDs() []int32              { return []int32{l.stand.id} }
func (l *BlockLine) endCycle()                       {}
