package session

import (
	"net"

	"github.com/oomph-ac/locomotion/packet"
)

// Conn is a datagram connection. A *raknet.Conn satisfies it.
type Conn interface {
	// ReadPacket reads a single datagram, blocking until one arrives.
	ReadPacket() ([]byte, error)
	Write(b []byte) (int, error)
	Close() error
	RemoteAddr() net.Addr
}

// Message is a packet addressed to a character.
type Message struct {
	Character uint64
	Packet    packet.Packet
}
