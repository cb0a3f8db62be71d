package proto

import "sort"

// EntityKind is the type of a client-side entity, sent with SpawnEntity.
type EntityKind int32

const (
	KindArmorStand EntityKind = iota + 1
	KindItem
	KindTextDisplay
	KindItemDisplay
	KindBlockDisplay
	KindInteraction
)

var kindNames = map[EntityKind]string{
	KindArmorStand:   "armor_stand",
	KindItem:         "item",
	KindTextDisplay:  "text_display",
	KindItemDisplay:  "item_display",
	KindBlockDisplay: "block_display",
	KindInteraction:  "interaction",
}

func (k EntityKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Field is a semantic metadata property. Fields keep their identity across
// protocol revisions; the index they are written at does not.
type Field uint8

const (
	FieldEntityFlags Field = iota
	FieldCustomName
	FieldCustomNameVisible
	FieldNoGravity
	FieldArmorStandFlags
	FieldDroppedItem

	FieldInterpolationDelay
	FieldTransformationInterpolation
	FieldPositionRotationInterpolation
	FieldTranslation
	FieldScale
	FieldRotationLeft
	FieldRotationRight
	FieldBillboard
	FieldBrightness
	FieldViewRange
	FieldShadowRadius
	FieldShadowStrength
	FieldDisplayWidth
	FieldDisplayHeight
	FieldGlowColor

	FieldText
	FieldLineWidth
	FieldBackgroundColor
	FieldTextOpacity
	FieldTextOptions
	FieldDisplayedItem
	FieldItemDisplayType
	FieldBlockState

	FieldInteractionWidth
	FieldInteractionHeight
	FieldInteractionResponse

	NumFields
)

// FieldSpec places a field at a metadata index with a data type.
type FieldSpec struct {
	Field Field
	Index uint8
	Type  DataType
}

// Schema is the ordered metadata layout of one entity kind on a range of
// protocol revisions starting at Since.
type Schema struct {
	Kind   EntityKind
	Since  Version
	Fields []FieldSpec
}

// Lookup returns the placement of f, if the schema carries it.
func (s *Schema) Lookup(f Field) (FieldSpec, bool) {
	for _, fs := range s.Fields {
		if fs.Field == f {
			return fs, true
		}
	}
	return FieldSpec{}, false
}

// Has reports whether the schema carries f.
func (s *Schema) Has(f Field) bool {
	_, ok := s.Lookup(f)
	return ok
}

// MetadataSchema picks the layout for kind on protocol v. Viewers older than
// the first layout of a kind get an error wrapping ErrUnsupportedVersion.
func MetadataSchema(kind EntityKind, v Version) (*Schema, error) {
	list := schemas[kind]
	i := sort.Search(len(list), func(i int) bool { return list[i].Since > v })
	if i == 0 {
		return nil, &VersionError{Kind: kind, Version: v, Min: MinVersion(kind)}
	}
	return list[i-1], nil
}

// MinVersion returns the oldest protocol revision kind can be shown on.
func MinVersion(kind EntityKind) Version {
	list := schemas[kind]
	if len(list) == 0 {
		return 0
	}
	return list[0].Since
}

var schemas = map[EntityKind][]*Schema{}

func register(kind EntityKind, since Version, fields ...FieldSpec) {
	schemas[kind] = append(schemas[kind], &Schema{Kind: kind, Since: since, Fields: fields})
	sort.Slice(schemas[kind], func(i, j int) bool {
		return schemas[kind][i].Since < schemas[kind][j].Since
	})
}

func fs(f Field, index uint8, t DataType) FieldSpec {
	return FieldSpec{Field: f, Index: index, Type: t}
}

// displayBase lays out the fields shared by every display entity. 1.19.4
// has no position/rotation interpolation field, so everything after the
// transformation interpolation sits one index lower there.
func displayBase(withTeleport bool) []FieldSpec {
	i := uint8(8)
	next := func() uint8 {
		i++
		return i - 1
	}
	out := []FieldSpec{
		fs(FieldInterpolationDelay, next(), TypeVarInt),
		fs(FieldTransformationInterpolation, next(), TypeVarInt),
	}
	if withTeleport {
		out = append(out, fs(FieldPositionRotationInterpolation, next(), TypeVarInt))
	}
	return append(out,
		fs(FieldTranslation, next(), TypeVector3),
		fs(FieldScale, next(), TypeVector3),
		fs(FieldRotationLeft, next(), TypeQuaternion),
		fs(FieldRotationRight, next(), TypeQuaternion),
		fs(FieldBillboard, next(), TypeByte),
		fs(FieldBrightness, next(), TypeVarInt),
		fs(FieldViewRange, next(), TypeFloat),
		fs(FieldShadowRadius, next(), TypeFloat),
		fs(FieldShadowStrength, next(), TypeFloat),
		fs(FieldDisplayWidth, next(), TypeFloat),
		fs(FieldDisplayHeight, next(), TypeFloat),
		fs(FieldGlowColor, next(), TypeVarInt),
	)
}

func displayKind(extra func(first uint8) []FieldSpec) (old, cur []FieldSpec) {
	old = displayBase(false)
	cur = displayBase(true)
	old = append(old, extra(old[len(old)-1].Index+1)...)
	cur = append(cur, extra(cur[len(cur)-1].Index+1)...)
	return old, cur
}

func armorStand(name DataType, visible DataType, noGravity bool, flags uint8) []FieldSpec {
	out := []FieldSpec{
		fs(FieldEntityFlags, 0, TypeByte),
		fs(FieldCustomName, 2, name),
		fs(FieldCustomNameVisible, 3, visible),
	}
	if noGravity {
		out = append(out, fs(FieldNoGravity, 5, TypeBoolean))
	}
	return append(out, fs(FieldArmorStandFlags, flags, TypeByte))
}

func droppedItem(noGravity bool, item uint8) []FieldSpec {
	out := []FieldSpec{fs(FieldEntityFlags, 0, TypeByte)}
	if noGravity {
		out = append(out, fs(FieldNoGravity, 5, TypeBoolean))
	}
	return append(out, fs(FieldDroppedItem, item, TypeItem))
}

func init() {
	register(KindArmorStand, V1_8, armorStand(TypeString, TypeByte, false, 10)...)
	register(KindArmorStand, V1_9, armorStand(TypeString, TypeBoolean, false, 10)...)
	register(KindArmorStand, V1_10, armorStand(TypeString, TypeBoolean, true, 11)...)
	register(KindArmorStand, V1_13, armorStand(TypeOptComponent, TypeBoolean, true, 11)...)
	register(KindArmorStand, V1_14, armorStand(TypeOptComponent, TypeBoolean, true, 13)...)
	register(KindArmorStand, V1_15, armorStand(TypeOptComponent, TypeBoolean, true, 14)...)
	register(KindArmorStand, V1_17, armorStand(TypeOptComponent, TypeBoolean, true, 15)...)

	register(KindItem, V1_8, droppedItem(false, 10)...)
	register(KindItem, V1_9, droppedItem(false, 5)...)
	register(KindItem, V1_10, droppedItem(true, 6)...)
	register(KindItem, V1_14, droppedItem(true, 7)...)
	register(KindItem, V1_17, droppedItem(true, 8)...)

	old, cur := displayKind(func(i uint8) []FieldSpec {
		return []FieldSpec{
			fs(FieldText, i, TypeComponent),
			fs(FieldLineWidth, i+1, TypeVarInt),
			fs(FieldBackgroundColor, i+2, TypeVarInt),
			fs(FieldTextOpacity, i+3, TypeByte),
			fs(FieldTextOptions, i+4, TypeByte),
		}
	})
	register(KindTextDisplay, V1_19_4, old...)
	register(KindTextDisplay, V1_20_2, cur...)

	old, cur = displayKind(func(i uint8) []FieldSpec {
		return []FieldSpec{
			fs(FieldDisplayedItem, i, TypeItem),
			fs(FieldItemDisplayType, i+1, TypeByte),
		}
	})
	register(KindItemDisplay, V1_19_4, old...)
	register(KindItemDisplay, V1_20_2, cur...)

	old, cur = displayKind(func(i uint8) []FieldSpec {
		return []FieldSpec{fs(FieldBlockState, i, TypeBlockState)}
	})
	register(KindBlockDisplay, V1_19_4, old...)
	register(KindBlockDisplay, V1_20_2, cur...)

	register(KindInteraction, V1_19_4,
		fs(FieldInteractionWidth, 8, TypeFloat),
		fs(FieldInteractionHeight, 9, TypeFloat),
		fs(FieldInteractionResponse, 10, TypeBoolean),
	)
}
