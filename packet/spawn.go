package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Spawn is sent by the server when a character starts being observed by a connection.
type Spawn struct {
	// Owned is true if the receiving connection controls the character.
	Owned        bool
	Location     mgl32.Vec3
	Rotation     game.Rotator
	MovementMode game.MovementMode
}

func (*Spawn) ID() uint32 {
	return IDSpawn
}

func (pk *Spawn) Marshal(io protocol.IO) {
	io.Bool(&pk.Owned)
	io.Vec3(&pk.Location)
	rotator(io, &pk.Rotation)
	tag(io, &pk.MovementMode)
}

// Despawn is sent by the server when a character is removed.
type Despawn struct{}

func (*Despawn) ID() uint32 {
	return IDDespawn
}

func (*Despawn) Marshal(protocol.IO) {}
