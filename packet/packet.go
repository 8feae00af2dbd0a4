package packet

import "github.com/sandertv/gophertunnel/minecraft/protocol"

// Packet is a single locomotion message. Marshal is used for both directions: it writes the
// fields when io is a protocol.Writer and reads them when io is a protocol.Reader.
type Packet interface {
	ID() uint32
	Marshal(io protocol.IO)
}

const (
	IDSpawn uint32 = iota + 1
	IDDespawn
	IDMove
	IDCorrection
	IDViewRotation
	IDIntent
	IDStartMantlingRequest
	IDStartMantling
	IDStartRagdollingRequest
	IDStartRagdolling
	IDStopRagdollingRequest
	IDStopRagdolling
	IDRagdollTargetLocation
	IDStartRollingRequest
	IDStartRolling
	IDJumped
	IDFieldUpdate
)

// Pool returns a function creating an empty packet for every known packet ID.
func Pool() map[uint32]func() Packet {
	return map[uint32]func() Packet{
		IDSpawn:                  func() Packet { return &Spawn{} },
		IDDespawn:                func() Packet { return &Despawn{} },
		IDMove:                   func() Packet { return &Move{} },
		IDCorrection:             func() Packet { return &Correction{} },
		IDViewRotation:           func() Packet { return &ViewRotation{} },
		IDIntent:                 func() Packet { return &Intent{} },
		IDStartMantlingRequest:   func() Packet { return &StartMantlingRequest{} },
		IDStartMantling:          func() Packet { return &StartMantling{} },
		IDStartRagdollingRequest: func() Packet { return &StartRagdollingRequest{} },
		IDStartRagdolling:        func() Packet { return &StartRagdolling{} },
		IDStopRagdollingRequest:  func() Packet { return &StopRagdollingRequest{} },
		IDStopRagdolling:         func() Packet { return &StopRagdolling{} },
		IDRagdollTargetLocation:  func() Packet { return &RagdollTargetLocation{} },
		IDStartRollingRequest:    func() Packet { return &StartRollingRequest{} },
		IDStartRolling:           func() Packet { return &StartRolling{} },
		IDJumped:                 func() Packet { return &Jumped{} },
		IDFieldUpdate:            func() Packet { return &FieldUpdate{} },
	}
}

// Unreliable reports whether pk belongs to the latest-wins tier. Such packets carry continuous,
// self correcting values: a lost one is replaced by the next sample, so they are never resent
// and stale ones are dropped on arrival.
func Unreliable(pk Packet) bool {
	switch pk.(type) {
	case *Move, *ViewRotation, *RagdollTargetLocation:
		return true
	}
	return false
}

// Target addresses a packet sent by a character.
type Target uint8

const (
	// TargetServer sends to the authority.
	TargetServer Target = iota
	// TargetOwner sends to the connection that controls the character.
	TargetOwner
	// TargetMulticast sends to every connection observing the character, owner included.
	TargetMulticast
	// TargetOthers sends to every observing connection except the owner.
	TargetOthers
)

func (t Target) String() string {
	switch t {
	case TargetServer:
		return "server"
	case TargetOwner:
		return "owner"
	case TargetMulticast:
		return "multicast"
	case TargetOthers:
		return "others"
	}
	return "unknown"
}
