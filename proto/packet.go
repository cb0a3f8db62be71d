package proto

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// PacketID identifies a clientbound packet on the hologram stream.
type PacketID int32

const (
	IDSpawnEntity PacketID = iota + 1
	IDDestroyEntities
	IDTeleportEntity
	IDEntityMetadata
	IDEntityEquipment
	IDSetPassengers
)

// Packet is a message sent to a viewer.
type Packet interface {
	ID() PacketID
	encode(b *bytes.Buffer, v Version) error
	decode(r *bytes.Reader, v Version) error
}

// Marshal encodes p, prefixed by its id, for a viewer on protocol v.
func Marshal(p Packet, v Version) ([]byte, error) {
	var b bytes.Buffer
	writeVarInt(&b, int32(p.ID()))
	if err := p.encode(&b, v); err != nil {
		return nil, fmt.Errorf("proto: encode %T: %w", p, err)
	}
	return b.Bytes(), nil
}

// Unmarshal decodes a packet produced by Marshal.
func Unmarshal(data []byte, v Version) (Packet, error) {
	r := bytes.NewReader(data)
	id, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	var p Packet
	switch PacketID(id) {
	case IDSpawnEntity:
		p = new(SpawnEntity)
	case IDDestroyEntities:
		p = new(DestroyEntities)
	case IDTeleportEntity:
		p = new(TeleportEntity)
	case IDEntityMetadata:
		p = new(EntityMetadata)
	case IDEntityEquipment:
		p = new(EntityEquipment)
	case IDSetPassengers:
		p = new(SetPassengers)
	default:
		return nil, fmt.Errorf("proto: unknown packet id %d", id)
	}
	if err := p.decode(r, v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("proto: decode %T: %w", p, err)
	}
	return p, nil
}

// AngleToByte packs degrees into 1/256 turn steps.
func AngleToByte(deg float32) byte {
	return byte(int32(math32.Floor(deg * 256 / 360)))
}

// ByteToAngle unpacks an angle written by AngleToByte into [0, 360).
func ByteToAngle(b byte) float32 {
	return float32(b) * 360 / 256
}

// SpawnEntity creates a client-side entity.
type SpawnEntity struct {
	EntityID   int32
	UUID       uuid.UUID
	Kind       EntityKind
	X, Y, Z    float64
	Yaw, Pitch float32
	Data       int32
}

func (*SpawnEntity) ID() PacketID { return IDSpawnEntity }

func (p *SpawnEntity) encode(b *bytes.Buffer, v Version) error {
	writeVarInt(b, p.EntityID)
	writeUUID(b, p.UUID)
	writeVarInt(b, int32(p.Kind))
	writeDouble(b, p.X)
	writeDouble(b, p.Y)
	writeDouble(b, p.Z)
	writeAngle(b, p.Pitch)
	writeAngle(b, p.Yaw)
	writeVarInt(b, p.Data)
	return nil
}

func (p *SpawnEntity) decode(r *bytes.Reader, v Version) error {
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return err
	}
	if p.UUID, err = readUUID(r); err != nil {
		return err
	}
	kind, err := readVarInt(r)
	if err != nil {
		return err
	}
	p.Kind = EntityKind(kind)
	for _, f := range []*float64{&p.X, &p.Y, &p.Z} {
		if *f, err = readDouble(r); err != nil {
			return err
		}
	}
	if p.Pitch, err = readAngle(r); err != nil {
		return err
	}
	if p.Yaw, err = readAngle(r); err != nil {
		return err
	}
	p.Data, err = readVarInt(r)
	return err
}

// DestroyEntities removes client-side entities.
type DestroyEntities struct {
	EntityIDs []int32
}

func (*DestroyEntities) ID() PacketID { return IDDestroyEntities }

func (p *DestroyEntities) encode(b *bytes.Buffer, v Version) error {
	writeVarInt(b, int32(len(p.EntityIDs)))
	for _, id := range p.EntityIDs {
		writeVarInt(b, id)
	}
	return nil
}

func (p *DestroyEntities) decode(r *bytes.Reader, v Version) error {
	n, err := readVarInt(r)
	if err != nil {
		return err
	}
	if n < 0 || int(n) > r.Len() {
		return io.ErrUnexpectedEOF
	}
	p.EntityIDs = make([]int32, n)
	for i := range p.EntityIDs {
		if p.EntityIDs[i], err = readVarInt(r); err != nil {
			return err
		}
	}
	return nil
}

// TeleportEntity moves an existing entity without respawning it.
type TeleportEntity struct {
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (*TeleportEntity) ID() PacketID { return IDTeleportEntity }

func (p *TeleportEntity) encode(b *bytes.Buffer, v Version) error {
	writeVarInt(b, p.EntityID)
	writeDouble(b, p.X)
	writeDouble(b, p.Y)
	writeDouble(b, p.Z)
	writeAngle(b, p.Yaw)
	writeAngle(b, p.Pitch)
	writeBool(b, p.OnGround)
	return nil
}

func (p *TeleportEntity) decode(r *bytes.Reader, v Version) error {
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return err
	}
	for _, f := range []*float64{&p.X, &p.Y, &p.Z} {
		if *f, err = readDouble(r); err != nil {
			return err
		}
	}
	if p.Yaw, err = readAngle(r); err != nil {
		return err
	}
	if p.Pitch, err = readAngle(r); err != nil {
		return err
	}
	p.OnGround, err = readBool(r)
	return err
}

// EntityMetadata carries an ordered list of metadata entries.
type EntityMetadata struct {
	EntityID int32
	Entries  []Entry
}

func (*EntityMetadata) ID() PacketID { return IDEntityMetadata }

func (p *EntityMetadata) encode(b *bytes.Buffer, v Version) error {
	writeVarInt(b, p.EntityID)
	return WriteMetadata(b, p.Entries, v)
}

func (p *EntityMetadata) decode(r *bytes.Reader, v Version) error {
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return err
	}
	p.Entries, err = ReadMetadata(r, v)
	return err
}

// Entry returns the entry at index, if present.
func (p *EntityMetadata) Entry(index uint8) (Entry, bool) {
	for _, e := range p.Entries {
		if e.Index == index {
			return e, true
		}
	}
	return Entry{}, false
}

// SlotHead is the equipment slot legacy item lines wear their item in.
const SlotHead byte = 5

// EntityEquipment puts an item into one slot of an entity.
type EntityEquipment struct {
	EntityID int32
	Slot     byte
	Item     Item
}

func (*EntityEquipment) ID() PacketID { return IDEntityEquipment }

func (p *EntityEquipment) encode(b *bytes.Buffer, v Version) error {
	writeVarInt(b, p.EntityID)
	b.WriteByte(p.Slot)
	writeItem(b, p.Item, v)
	return nil
}

func (p *EntityEquipment) decode(r *bytes.Reader, v Version) error {
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return err
	}
	if p.Slot, err = r.ReadByte(); err != nil {
		return err
	}
	p.Item, err = readItem(r, v)
	return err
}

// SetPassengers mounts entities on a vehicle.
type SetPassengers struct {
	EntityID   int32
	Passengers []int32
}

func (*SetPassengers) ID() PacketID { return IDSetPassengers }

func (p *SetPassengers) encode(b *bytes.Buffer, v Version) error {
	writeVarInt(b, p.EntityID)
	writeVarInt(b, int32(len(p.Passengers)))
	for _, id := range p.Passengers {
		writeVarInt(b, id)
	}
	return nil
}

func (p *SetPassengers) decode(r *bytes.Reader, v Version) error {
	var err error
	if p.EntityID, err = readVarInt(r); err != nil {
		return err
	}
	n, err := readVarInt(r)
	if err != nil {
		return err
	}
	if n < 0 || int(n) > r.Len() {
		return io.ErrUnexpectedEOF
	}
	p.Passengers = make([]int32, n)
	for i := range p.Passengers {
		if p.Passengers[i], err = readVarInt(r); err != nil {
			return err
		}
	}
	return nil
}
