package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DataType is the semantic type of a metadata value. The id it is written
// with depends on the protocol revision.
type DataType uint8

const (
	TypeByte DataType = iota
	TypeVarInt
	TypeFloat
	TypeString
	TypeComponent
	TypeOptComponent
	TypeItem
	TypeBoolean
	TypeVector3
	TypeQuaternion
	TypeBlockState
)

var typeNames = [...]string{
	TypeByte:         "byte",
	TypeVarInt:       "varint",
	TypeFloat:        "float",
	TypeString:       "string",
	TypeComponent:    "component",
	TypeOptComponent: "optional component",
	TypeItem:         "item",
	TypeBoolean:      "boolean",
	TypeVector3:      "vector3",
	TypeQuaternion:   "quaternion",
	TypeBlockState:   "block state",
}

func (t DataType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Vector3f is a float32 triple (translation, scale).
type Vector3f struct {
	X, Y, Z float32
}

func (v Vector3f) Add(o Vector3f) Vector3f {
	return Vector3f{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Quaternion is a float32 rotation, W last.
type Quaternion struct {
	X, Y, Z, W float32
}

// Identity is the no-op rotation.
var Identity = Quaternion{0, 0, 0, 1}

// Item is the item descriptor shown by item lines and elements.
type Item struct {
	ID    int32
	Count int8
}

// Empty reports whether the item slot is empty.
func (i Item) Empty() bool {
	return i.ID == 0 || i.Count <= 0
}

// BlockState is a global block state id.
type BlockState int32

// Entry is one metadata value placed at an index.
type Entry struct {
	Index uint8
	Type  DataType
	Value interface{}
}

type typeRevision struct {
	since Version
	ids   map[DataType]int32
	rev   map[int32]DataType
}

// Metadata type ids changed with the flattening (1.13), when display
// entities arrived (1.19.4) and when item components replaced slot NBT
// (1.20.5). Before 1.9 the id and index share a single header byte.
// Components are written as JSON strings on every revision of this stream.
var typeRevisions = []*typeRevision{
	{since: V1_8, ids: map[DataType]int32{
		TypeByte: 0, TypeVarInt: 2, TypeFloat: 3, TypeString: 4, TypeItem: 5,
	}},
	{since: V1_9, ids: map[DataType]int32{
		TypeByte: 0, TypeVarInt: 1, TypeFloat: 2, TypeString: 3, TypeComponent: 4,
		TypeItem: 5, TypeBoolean: 6,
	}},
	{since: V1_13, ids: map[DataType]int32{
		TypeByte: 0, TypeVarInt: 1, TypeFloat: 2, TypeString: 3, TypeComponent: 4,
		TypeOptComponent: 5, TypeItem: 6, TypeBoolean: 7, TypeBlockState: 13,
	}},
	{since: V1_19_4, ids: map[DataType]int32{
		TypeByte: 0, TypeVarInt: 1, TypeFloat: 3, TypeString: 4, TypeComponent: 5,
		TypeOptComponent: 6, TypeItem: 7, TypeBoolean: 8, TypeBlockState: 14,
		TypeVector3: 26, TypeQuaternion: 27,
	}},
	{since: V1_20_5, ids: map[DataType]int32{
		TypeByte: 0, TypeVarInt: 1, TypeFloat: 3, TypeString: 4, TypeComponent: 5,
		TypeOptComponent: 6, TypeItem: 7, TypeBoolean: 8, TypeBlockState: 14,
		TypeVector3: 29, TypeQuaternion: 30,
	}},
}

func init() {
	for _, r := range typeRevisions {
		r.rev = make(map[int32]DataType, len(r.ids))
		for t, id := range r.ids {
			r.rev[id] = t
		}
	}
}

func revisionFor(v Version) (*typeRevision, error) {
	i := sort.Search(len(typeRevisions), func(i int) bool { return typeRevisions[i].since > v })
	if i == 0 {
		return nil, fmt.Errorf("proto: no metadata encoding for %s: %w", v, ErrUnsupportedVersion)
	}
	return typeRevisions[i-1], nil
}

const (
	legacyMetadataEnd = 0x7F
	metadataEnd       = 0xFF
)

// WriteMetadata encodes entries in the layout of protocol v.
func WriteMetadata(b *bytes.Buffer, entries []Entry, v Version) error {
	rev, err := revisionFor(v)
	if err != nil {
		return err
	}
	legacy := v < V1_9
	for _, e := range entries {
		id, ok := rev.ids[e.Type]
		if !ok {
			return fmt.Errorf("proto: index %d: %s cannot carry %s: %w", e.Index, v, e.Type, ErrUnsupportedVersion)
		}
		if legacy {
			if e.Index > 0x1F {
				return fmt.Errorf("proto: index %d does not fit a %s header", e.Index, v)
			}
			b.WriteByte(byte(id)<<5 | e.Index)
		} else {
			b.WriteByte(e.Index)
			writeVarInt(b, id)
		}
		if err := writeValue(b, e, v); err != nil {
			return err
		}
	}
	if legacy {
		b.WriteByte(legacyMetadataEnd)
	} else {
		b.WriteByte(metadataEnd)
	}
	return nil
}

func typeMismatch(e Entry) error {
	return fmt.Errorf("proto: index %d: %s value has type %T", e.Index, e.Type, e.Value)
}

func writeValue(b *bytes.Buffer, e Entry, ver Version) error {
	switch e.Type {
	case TypeByte:
		v, ok := e.Value.(byte)
		if !ok {
			return typeMismatch(e)
		}
		b.WriteByte(v)
	case TypeVarInt:
		v, ok := e.Value.(int32)
		if !ok {
			return typeMismatch(e)
		}
		if ver < V1_9 {
			writeInt32(b, v)
		} else {
			writeVarInt(b, v)
		}
	case TypeFloat:
		v, ok := e.Value.(float32)
		if !ok {
			return typeMismatch(e)
		}
		writeFloat(b, v)
	case TypeString:
		v, ok := e.Value.(string)
		if !ok {
			return typeMismatch(e)
		}
		writeString(b, v)
	case TypeComponent:
		v, ok := e.Value.(Component)
		if !ok {
			return typeMismatch(e)
		}
		return writeComponent(b, &v)
	case TypeOptComponent:
		v, ok := e.Value.(*Component)
		if !ok {
			return typeMismatch(e)
		}
		writeBool(b, v != nil)
		if v != nil {
			return writeComponent(b, v)
		}
	case TypeItem:
		v, ok := e.Value.(Item)
		if !ok {
			return typeMismatch(e)
		}
		writeItem(b, v, ver)
	case TypeBoolean:
		v, ok := e.Value.(bool)
		if !ok {
			return typeMismatch(e)
		}
		writeBool(b, v)
	case TypeVector3:
		v, ok := e.Value.(Vector3f)
		if !ok {
			return typeMismatch(e)
		}
		writeFloat(b, v.X)
		writeFloat(b, v.Y)
		writeFloat(b, v.Z)
	case TypeQuaternion:
		v, ok := e.Value.(Quaternion)
		if !ok {
			return typeMismatch(e)
		}
		writeFloat(b, v.X)
		writeFloat(b, v.Y)
		writeFloat(b, v.Z)
		writeFloat(b, v.W)
	case TypeBlockState:
		v, ok := e.Value.(BlockState)
		if !ok {
			return typeMismatch(e)
		}
		writeVarInt(b, int32(v))
	default:
		return typeMismatch(e)
	}
	return nil
}

// ReadMetadata decodes entries written by WriteMetadata for protocol v.
func ReadMetadata(r *bytes.Reader, v Version) ([]Entry, error) {
	rev, err := revisionFor(v)
	if err != nil {
		return nil, err
	}
	legacy := v < V1_9
	var entries []Entry
	for {
		head, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var e Entry
		var id int32
		if legacy {
			if head == legacyMetadataEnd {
				return entries, nil
			}
			id = int32(head >> 5)
			e.Index = head & 0x1F
		} else {
			if head == metadataEnd {
				return entries, nil
			}
			e.Index = head
			if id, err = readVarInt(r); err != nil {
				return nil, err
			}
		}
		t, ok := rev.rev[id]
		if !ok {
			return nil, fmt.Errorf("proto: index %d: unknown metadata type id %d", e.Index, id)
		}
		e.Type = t
		if e.Value, err = readValue(r, t, v); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
}

func readValue(r *bytes.Reader, t DataType, v Version) (interface{}, error) {
	switch t {
	case TypeByte:
		return r.ReadByte()
	case TypeVarInt:
		if v < V1_9 {
			return readInt32(r)
		}
		return readVarInt(r)
	case TypeFloat:
		return readFloat(r)
	case TypeString:
		return readString(r)
	case TypeComponent:
		c, err := readComponent(r)
		if err != nil {
			return nil, err
		}
		return *c, nil
	case TypeOptComponent:
		present, err := readBool(r)
		if err != nil || !present {
			return (*Component)(nil), err
		}
		return readComponent(r)
	case TypeItem:
		return readItem(r, v)
	case TypeBoolean:
		return readBool(r)
	case TypeVector3:
		var v Vector3f
		for _, p := range []*float32{&v.X, &v.Y, &v.Z} {
			f, err := readFloat(r)
			if err != nil {
				return nil, err
			}
			*p = f
		}
		return v, nil
	case TypeQuaternion:
		var q Quaternion
		for _, p := range []*float32{&q.X, &q.Y, &q.Z, &q.W} {
			f, err := readFloat(r)
			if err != nil {
				return nil, err
			}
			*p = f
		}
		return q, nil
	case TypeBlockState:
		id, err := readVarInt(r)
		return BlockState(id), err
	}
	return nil, fmt.Errorf("proto: cannot decode %s", t)
}

func writeComponent(b *bytes.Buffer, c *Component) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	writeString(b, string(raw))
	return nil
}

func readComponent(r *bytes.Reader) (*Component, error) {
	raw, err := readString(r)
	if err != nil {
		return nil, err
	}
	c := new(Component)
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		return nil, err
	}
	return c, nil
}

// writeItem writes a slot. From 1.20.5 a slot is a count followed by the
// item id and its component patch, which is always empty here.
func writeItem(b *bytes.Buffer, it Item, v Version) {
	if v >= V1_20_5 {
		if it.Empty() {
			writeVarInt(b, 0)
			return
		}
		writeVarInt(b, int32(it.Count))
		writeVarInt(b, it.ID)
		writeVarInt(b, 0)
		writeVarInt(b, 0)
		return
	}
	writeBool(b, !it.Empty())
	if it.Empty() {
		return
	}
	writeVarInt(b, it.ID)
	b.WriteByte(byte(it.Count))
}

func readItem(r *bytes.Reader, v Version) (Item, error) {
	if v >= V1_20_5 {
		return readComponentSlot(r)
	}
	present, err := readBool(r)
	if err != nil || !present {
		return Item{}, err
	}
	id, err := readVarInt(r)
	if err != nil {
		return Item{}, err
	}
	count, err := r.ReadByte()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return Item{ID: id, Count: int8(count)}, err
}

func readComponentSlot(r *bytes.Reader) (Item, error) {
	count, err := readVarInt(r)
	if err != nil || count <= 0 {
		return Item{}, err
	}
	id, err := readVarInt(r)
	if err != nil {
		return Item{}, err
	}
	for i := 0; i < 2; i++ {
		n, err := readVarInt(r)
		if err != nil {
			return Item{}, err
		}
		if n != 0 {
			return Item{}, fmt.Errorf("proto: item %d carries %d component changes", id, n)
		}
	}
	return Item{ID: id, Count: int8(count)}, nil
}
