package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// StartMantlingRequest asks the server to try mantling with its own traces.
type StartMantlingRequest struct {
	InAir bool
}

func (*StartMantlingRequest) ID() uint32 {
	return IDStartMantlingRequest
}

func (pk *StartMantlingRequest) Marshal(io protocol.IO) {
	io.Bool(&pk.InAir)
}

// StartMantling is multicast by the server once a mantle has started.
type StartMantling struct {
	Parameters game.MantlingParameters
}

func (*StartMantling) ID() uint32 {
	return IDStartMantling
}

func (pk *StartMantling) Marshal(io protocol.IO) {
	mantlingParameters(io, &pk.Parameters)
}

type StartRagdollingRequest struct{}

func (*StartRagdollingRequest) ID() uint32 {
	return IDStartRagdollingRequest
}

func (*StartRagdollingRequest) Marshal(protocol.IO) {}

type StartRagdolling struct{}

func (*StartRagdolling) ID() uint32 {
	return IDStartRagdolling
}

func (*StartRagdolling) Marshal(protocol.IO) {}

type StopRagdollingRequest struct{}

func (*StopRagdollingRequest) ID() uint32 {
	return IDStopRagdollingRequest
}

func (*StopRagdollingRequest) Marshal(protocol.IO) {}

type StopRagdolling struct{}

func (*StopRagdolling) ID() uint32 {
	return IDStopRagdolling
}

func (*StopRagdolling) Marshal(protocol.IO) {}

// RagdollTargetLocation is the pelvis location of a ragdoll, sent by the instance simulating
// it. It is quantized to whole units.
type RagdollTargetLocation struct {
	Location mgl32.Vec3
}

func (*RagdollTargetLocation) ID() uint32 {
	return IDRagdollTargetLocation
}

func (pk *RagdollTargetLocation) Marshal(io protocol.IO) {
	quantizedVec3(io, &pk.Location)
}

// StartRollingRequest is sent by the owner to roll with the given parameters.
type StartRollingRequest struct {
	Montage         game.Montage
	PlayRate        float32
	InitialYawAngle float32
	TargetYawAngle  float32
}

func (*StartRollingRequest) ID() uint32 {
	return IDStartRollingRequest
}

func (pk *StartRollingRequest) Marshal(io protocol.IO) {
	montage(io, &pk.Montage)
	io.Float32(&pk.PlayRate)
	io.Float32(&pk.InitialYawAngle)
	io.Float32(&pk.TargetYawAngle)
}

// StartRolling is multicast by the server once a roll has started.
type StartRolling struct {
	Montage         game.Montage
	PlayRate        float32
	InitialYawAngle float32
	TargetYawAngle  float32
}

func (*StartRolling) ID() uint32 {
	return IDStartRolling
}

func (pk *StartRolling) Marshal(io protocol.IO) {
	montage(io, &pk.Montage)
	io.Float32(&pk.PlayRate)
	io.Float32(&pk.InitialYawAngle)
	io.Float32(&pk.TargetYawAngle)
}

// Jumped notifies observers other than the owner that the character jumped.
type Jumped struct{}

func (*Jumped) ID() uint32 {
	return IDJumped
}

func (*Jumped) Marshal(protocol.IO) {}
