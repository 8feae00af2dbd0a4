package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
)

// LocomotionState is refreshed every tick from the movement collaborator.
type LocomotionState struct {
	HasInput bool
	// InputYawAngle is the yaw of the last non-zero input direction.
	InputYawAngle float32

	HasSpeed bool
	Speed    float32
	Velocity mgl32.Vec3
	// VelocityYawAngle is the yaw of the last velocity that counted as having speed.
	VelocityYawAngle float32

	Moving bool

	// RotationTowardsLastInputDirectionBlocked is set on landing and cleared by new input, so
	// the character does not twist toward a stale input direction.
	RotationTowardsLastInputDirectionBlocked bool

	Location mgl32.Vec3
	Rotation game.Rotator

	TargetYawAngle             float32
	SmoothTargetYawAngle       float32
	ViewRelativeTargetYawAngle float32
}

// ViewSmoothing blends a remotely received view rotation in over a fixed window.
type ViewSmoothing struct {
	Initial game.Rotator
	Target  game.Rotator
	Current game.Rotator
	Elapsed float32
}

type ViewState struct {
	// Rotation is the view rotation used by every rotation rule. On simulated proxies it is the
	// smoothed value and is never replicated.
	Rotation         game.Rotator
	YawSpeed         float32
	PreviousYawAngle float32
	Smoothing        ViewSmoothing
}

type MovementBaseState struct {
	Primitive           string
	BaseChanged         bool
	HasRelativeLocation bool
	HasRelativeRotation bool
	Transform           game.Transform
	// DeltaRotation is how much the base rotated since the previous tick.
	DeltaRotation game.Rotator
}

type MantlingState struct {
	Parameters game.MantlingParameters
	Settings   game.MantlingTypeSettings
	// RelativeStart is the actor transform at the start, relative to the target primitive.
	RelativeStart game.Transform
	// Time is the current montage position.
	Time     float32
	Progress float32
}

type RagdollingState struct {
	TargetLocation mgl32.Vec3
	Velocity       mgl32.Vec3
	PullForce      float32
	FacedUpward    bool
	Grounded       bool

	GettingUp    bool
	GetUpMontage game.Montage
	GetUpElapsed float32
}

type RollingState struct {
	Montage         game.Montage
	PlayRate        float32
	InitialYawAngle float32
	TargetYawAngle  float32
	Elapsed         float32
}
