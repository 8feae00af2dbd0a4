package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Move carries the movement state of a character. Owners send it to the server every tick and
// the server forwards the authoritative result to every other observer.
type Move struct {
	Location     mgl32.Vec3
	Velocity     mgl32.Vec3
	Rotation     game.Rotator
	MovementMode game.MovementMode

	InputDirection          mgl32.Vec3
	DesiredVelocityYawAngle float32
	// Jumped is set on the move during which the owner started a jump.
	Jumped bool
}

func (*Move) ID() uint32 {
	return IDMove
}

func (pk *Move) Marshal(io protocol.IO) {
	io.Vec3(&pk.Location)
	io.Vec3(&pk.Velocity)
	rotator(io, &pk.Rotation)
	tag(io, &pk.MovementMode)
	io.Vec3(&pk.InputDirection)
	io.Float32(&pk.DesiredVelocityYawAngle)
	io.Bool(&pk.Jumped)
}

// Correction overrides the owner's movement state with the authoritative one.
type Correction struct {
	Location     mgl32.Vec3
	Velocity     mgl32.Vec3
	Rotation     game.Rotator
	MovementMode game.MovementMode
}

func (*Correction) ID() uint32 {
	return IDCorrection
}

func (pk *Correction) Marshal(io protocol.IO) {
	io.Vec3(&pk.Location)
	io.Vec3(&pk.Velocity)
	rotator(io, &pk.Rotation)
	tag(io, &pk.MovementMode)
}

// ViewRotation is the raw view rotation of the owner, sent to the server.
type ViewRotation struct {
	Rotation game.Rotator
}

func (*ViewRotation) ID() uint32 {
	return IDViewRotation
}

func (pk *ViewRotation) Marshal(io protocol.IO) {
	rotator(io, &pk.Rotation)
}
