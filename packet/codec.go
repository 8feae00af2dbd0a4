package packet

import (
	"bytes"

	"github.com/oomph-ac/locomotion/internal"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

var pool = Pool()

// Encode encodes a packet, prefixed by its ID. The returned slice is owned by the caller.
func Encode(pk Packet) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	w := protocol.NewWriter(buf, 0)
	id := pk.ID()
	w.Varuint32(&id)
	pk.Marshal(w)

	return bytes.Clone(buf.Bytes())
}

// Decode decodes a packet previously produced by Encode. Malformed input results in an error,
// never in a panic.
func Decode(b []byte) (pk Packet, err error) {
	buf := internal.NewReader(b)
	defer func() {
		if r := recover(); r != nil {
			pk, err = nil, oerror.New("malformed packet: %v", r)
		}
	}()

	r := protocol.NewReader(buf, 0, false)
	var id uint32
	r.Varuint32(&id)

	newPacket, ok := pool[id]
	if !ok {
		return nil, oerror.New("unknown packet id %d", id)
	}
	pk = newPacket()
	pk.Marshal(r)
	if buf.Len() != 0 {
		return nil, oerror.New("packet %T has %d trailing bytes", pk, buf.Len())
	}
	return pk, nil
}
