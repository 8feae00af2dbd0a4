package session

import (
	"bytes"

	"github.com/oomph-ac/locomotion/internal"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	frameReliable uint8 = iota + 1
	frameUnreliable
	frameAck
	framePing
	framePong
)

// rawMessage is a message whose packet is still encoded. Every message is decoded on its own so
// a malformed one does not take its batch down with it.
type rawMessage struct {
	character uint64
	payload   []byte
}

// frame is a decoded datagram.
type frame struct {
	kind uint8
	// seq is the sequence number of a reliable batch or unreliable message.
	seq uint32
	// ack is the highest reliable batch the sender received in order.
	ack       uint32
	timestamp int64
	messages  []rawMessage
}

func encodeFrame(f frame) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	w := protocol.NewWriter(buf, 0)
	w.Uint8(&f.kind)
	switch f.kind {
	case frameReliable:
		w.Varuint32(&f.seq)
		w.Varuint32(&f.ack)
		count := uint32(len(f.messages))
		w.Varuint32(&count)
		for i := range f.messages {
			w.Varuint64(&f.messages[i].character)
			w.ByteSlice(&f.messages[i].payload)
		}
	case frameUnreliable:
		w.Varuint32(&f.seq)
		w.Varuint64(&f.messages[0].character)
		w.ByteSlice(&f.messages[0].payload)
	case frameAck:
		w.Varuint32(&f.ack)
	case framePing, framePong:
		w.Varint64(&f.timestamp)
	}
	return bytes.Clone(buf.Bytes())
}

func decodeFrame(b []byte) (f frame, err error) {
	buf := internal.NewReader(b)
	defer func() {
		if r := recover(); r != nil {
			f, err = frame{}, oerror.New("malformed frame: %v", r)
		}
	}()

	r := protocol.NewReader(buf, 0, true)
	r.Uint8(&f.kind)
	switch f.kind {
	case frameReliable:
		r.Varuint32(&f.seq)
		r.Varuint32(&f.ack)
		var count uint32
		r.Varuint32(&count)
		if int(count) > buf.Len() {
			return frame{}, oerror.New("reliable frame claims %d messages in %d bytes", count, buf.Len())
		}
		f.messages = make([]rawMessage, count)
		for i := range f.messages {
			r.Varuint64(&f.messages[i].character)
			r.ByteSlice(&f.messages[i].payload)
		}
	case frameUnreliable:
		r.Varuint32(&f.seq)
		f.messages = make([]rawMessage, 1)
		r.Varuint64(&f.messages[0].character)
		r.ByteSlice(&f.messages[0].payload)
	case frameAck:
		r.Varuint32(&f.ack)
	case framePing, framePong:
		r.Varint64(&f.timestamp)
	default:
		return frame{}, oerror.New("unknown frame kind %d", f.kind)
	}
	if buf.Len() != 0 {
		return frame{}, oerror.New("frame %d has %d trailing bytes", f.kind, buf.Len())
	}
	return f, nil
}
