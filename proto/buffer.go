package proto

import (
	"bytes"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"
)

// Writes into a bytes.Buffer cannot fail, so the write helpers drop the
// errors returned by the field types.

func writeVarInt(b *bytes.Buffer, v int32) {
	pk.VarInt(v).WriteTo(b)
}

func readVarInt(r io.Reader) (int32, error) {
	var v pk.VarInt
	_, err := v.ReadFrom(r)
	return int32(v), err
}

func writeString(b *bytes.Buffer, s string) {
	pk.String(s).WriteTo(b)
}

// readString refuses a length prefix larger than what is left in r before
// allocating.
func readString(r *bytes.Reader) (string, error) {
	var n pk.VarInt
	read, err := n.ReadFrom(r)
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > r.Len() {
		return "", io.ErrUnexpectedEOF
	}
	if _, err := r.Seek(-read, io.SeekCurrent); err != nil {
		return "", err
	}
	var s pk.String
	_, err = s.ReadFrom(r)
	return string(s), err
}

func writeBool(b *bytes.Buffer, v bool) {
	pk.Boolean(v).WriteTo(b)
}

func readBool(r *bytes.Reader) (bool, error) {
	var v pk.Boolean
	_, err := v.ReadFrom(r)
	return bool(v), err
}

func writeFloat(b *bytes.Buffer, f float32) {
	pk.Float(f).WriteTo(b)
}

func readFloat(r *bytes.Reader) (float32, error) {
	var f pk.Float
	_, err := f.ReadFrom(r)
	return float32(f), err
}

func writeDouble(b *bytes.Buffer, f float64) {
	pk.Double(f).WriteTo(b)
}

func readDouble(r *bytes.Reader) (float64, error) {
	var f pk.Double
	_, err := f.ReadFrom(r)
	return float64(f), err
}

func writeInt32(b *bytes.Buffer, v int32) {
	pk.Int(v).WriteTo(b)
}

func readInt32(r *bytes.Reader) (int32, error) {
	var v pk.Int
	_, err := v.ReadFrom(r)
	return int32(v), err
}

func writeUUID(b *bytes.Buffer, id uuid.UUID) {
	pk.UUID(id).WriteTo(b)
}

func readUUID(r *bytes.Reader) (uuid.UUID, error) {
	var id pk.UUID
	_, err := id.ReadFrom(r)
	return uuid.UUID(id), err
}

func writeAngle(b *bytes.Buffer, deg float32) {
	pk.Angle(int8(AngleToByte(deg))).WriteTo(b)
}

func readAngle(r *bytes.Reader) (float32, error) {
	var a pk.Angle
	_, err := a.ReadFrom(r)
	return ByteToAngle(byte(a)), err
}
