package hologram

import (
	"math/bits"

	"github.com/icexin/gocraft-holo/proto"
)

// a DirtySet is one bit per field
const _ = uint64(1) << (proto.NumFields - 1)

// DirtySet is a set of metadata fields.
type DirtySet uint64

func Fields(fields ...proto.Field) DirtySet {
	var d DirtySet
	for _, f := range fields {
		d.Mark(f)
	}
	return d
}

func (d *DirtySet) Mark(f proto.Field) {
	*d |= 1 << f
}

func (d DirtySet) Has(f proto.Field) bool {
	return d&(1<<f) != 0
}

// DrainIfDirty reports whether f was in the set and removes it.
func (d *DirtySet) DrainIfDirty(f proto.Field) bool {
	if !d.Has(f) {
		return false
	}
	*d &^= 1 << f
	return true
}

func (d DirtySet) Len() int {
	return bits.OnesCount64(uint64(d))
}

// tracker decides which fields go into a metadata packet.
//
// always holds the fields that describe visible content and are sent on
// every update. modified holds every field a builder ever set and is what
// a fresh spawn needs on top of always. pending holds fields set since the
// last update cycle went out to all viewers.
type tracker struct {
	always   DirtySet
	modified DirtySet
	pending  DirtySet
}

func newTracker(always ...proto.Field) tracker {
	return tracker{always: Fields(always...)}
}

func (t *tracker) mark(f proto.Field) {
	t.modified.Mark(f)
	t.pending.Mark(f)
}

func (t *tracker) include(f proto.Field, full bool) bool {
	if t.always.Has(f) || t.pending.Has(f) {
		return true
	}
	return full && t.modified.Has(f)
}

// drain ends an update cycle.
func (t *tracker) drain() {
	for f := proto.Field(0); f < proto.NumFields; f++ {
		t.pending.DrainIfDirty(f)
	}
}

// entries builds the metadata list in schema order. value supplies the
// current value of a field in the encoding the schema asks for.
func (t *tracker) entries(s *proto.Schema, full bool, value func(proto.FieldSpec) (interface{}, bool)) []proto.Entry {
	out := make([]proto.Entry, 0, t.always.Len()+t.pending.Len())
	for _, spec := range s.Fields {
		if !t.include(spec.Field, full) {
			continue
		}
		v, ok := value(spec)
		if !ok {
			continue
		}
		out = append(out, proto.Entry{Index: spec.Index, Type: spec.Type, Value: v})
	}
	return out
}
