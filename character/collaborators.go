package character

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

// Animation curve names sampled from the animation collaborator.
const (
	CurveRotationYawSpeed  = "RotationYawSpeed"
	CurveRotationYawOffset = "RotationYawOffset"
)

// Movement is the physics and movement collaborator that owns the capsule of a character.
type Movement interface {
	Location() mgl32.Vec3
	SetLocation(location mgl32.Vec3)
	Rotation() game.Rotator
	SetRotation(rotation game.Rotator)
	Velocity() mgl32.Vec3
	SetVelocity(velocity mgl32.Vec3)
	// InputVector returns the direction the controller asks to move in, with a length of at
	// most 1.
	InputVector() mgl32.Vec3

	// MovementMode returns the current movement mode. Changes made by the collaborator itself,
	// such as landing, are reported through Character.OnMovementModeChanged. Changes made through
	// SetMovementMode are not reported back.
	MovementMode() game.MovementMode
	SetMovementMode(mode game.MovementMode)
	// SetMovementModeLocked stops the collaborator from changing the movement mode on its own.
	SetMovementModeLocked(locked bool)

	Radius() float32
	// HalfHeight returns the current half height of the capsule, which shrinks while crouched.
	HalfHeight() float32
	// Crouch shrinks the capsule. It returns false if the capsule could not crouch.
	Crouch() bool
	// UnCrouch restores the capsule. It returns false if there is no room to stand.
	UnCrouch() bool
	// Jump launches the character. It returns false if the jump could not start.
	Jump() bool

	SetMaxSpeed(speed float32)
	SetBrakingFrictionFactor(factor float32)

	// Base returns the primitive the character currently stands on.
	Base() MovementBase
}

// MovementBase describes the primitive a character stands on. An empty Primitive means the
// character is not based on anything.
type MovementBase struct {
	Primitive           string
	Transform           game.Transform
	HasRelativeLocation bool
	HasRelativeRotation bool
}

// Mesh is the skeletal mesh collaborator. It only matters while ragdolling.
type Mesh interface {
	SetSimulatePhysics(simulate bool)
	SimulatingPhysics() bool
	PelvisLocation() mgl32.Vec3
	// PelvisRotation returns the rotation of the pelvis. Its forward axis points out of the chest
	// and its yaw follows the direction the head points in.
	PelvisRotation() game.Rotator
	PelvisVelocity() mgl32.Vec3
	AddPelvisForce(force mgl32.Vec3)
}

// Animation is the animation graph collaborator.
type Animation interface {
	PlayMontage(montage game.Montage, playRate, startTime float32)
	StopMontage(montage game.Montage, blendOutTime float32)
	StopAllMontages(blendOutTime float32)
	// CurveValue samples a curve the animation graph publishes, such as CurveRotationYawSpeed.
	CurveValue(name string) float32
	// Jumped notifies the graph that the character jumped.
	Jumped()
}

// World answers the collision queries of a character.
type World interface {
	SweepCapsule(start, end mgl32.Vec3, radius, halfHeight float32) (Hit, bool)
	SweepSphere(start, end mgl32.Vec3, radius float32) (Hit, bool)
	LineTrace(start, end mgl32.Vec3) (Hit, bool)
	// OverlapCapsule reports whether a capsule at location intersects any blocking primitive.
	OverlapCapsule(location mgl32.Vec3, radius, halfHeight float32) bool
	Primitive(id string) (Primitive, bool)
}

// Hit is the result of a sweep or trace.
type Hit struct {
	// Location is where the swept shape stopped.
	Location mgl32.Vec3
	// ImpactPoint is the point of contact on the hit surface.
	ImpactPoint mgl32.Vec3
	Normal      mgl32.Vec3
	Primitive   string
	// StartPenetrating is set if the shape already overlapped the primitive at the start.
	StartPenetrating bool
}

// Primitive is a world object a character can stand on or climb.
type Primitive struct {
	ID        string
	Transform game.Transform
	Velocity  mgl32.Vec3
}

// Network sends packets on behalf of a character.
type Network interface {
	Send(target packet.Target, pk packet.Packet)
	// Latency returns the one-way latency to the authority.
	Latency() time.Duration
}

// NopNetwork is used by characters that are not networked.
type NopNetwork struct{}

func (NopNetwork) Send(packet.Target, packet.Packet) {}

func (NopNetwork) Latency() time.Duration {
	return 0
}
