package session

import (
	"bytes"

	"github.com/oomph-ac/locomotion/internal"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/zeebo/xxh3"
)

// Replicator tracks which replicated fields of each character a connection has last seen, so
// only changed fields are sent.
type Replicator struct {
	hashes map[uint64]*[packet.FieldCount]uint64
}

func NewReplicator() *Replicator {
	return &Replicator{hashes: make(map[uint64]*[packet.FieldCount]uint64)}
}

// Diff returns an update carrying the fields of the character that changed since the last call,
// leaving out the fields in skip. The first call for a character carries every field not
// skipped. The boolean is false if nothing changed.
func (r *Replicator) Diff(character uint64, fields packet.Fields, skip packet.FieldMask) (*packet.FieldUpdate, bool) {
	prev, known := r.hashes[character]
	if !known {
		prev = &[packet.FieldCount]uint64{}
		r.hashes[character] = prev
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	var mask packet.FieldMask
	for field := packet.Field(0); field < packet.FieldCount; field++ {
		if skip.Has(field) {
			continue
		}
		buf.Reset()
		fields.MarshalField(protocol.NewWriter(buf, 0), field)
		h := xxh3.Hash(buf.Bytes())
		if known && prev[field] == h {
			continue
		}
		prev[field] = h
		mask = mask.With(field)
	}
	if mask == 0 {
		return nil, false
	}
	return &packet.FieldUpdate{Mask: mask, Fields: fields}, true
}

// Forget drops the state of a character, so the next Diff sends every field again.
func (r *Replicator) Forget(character uint64) {
	delete(r.hashes, character)
}
