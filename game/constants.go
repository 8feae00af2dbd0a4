package game

import "github.com/go-gl/mathgl/mgl32"

const (
	SmallNumber = float32(1e-8)
	KindaSmall  = float32(1e-4)

	// CounterClockwiseRotationAngleThreshold is how close to +180 degrees an angle must be before
	// rotation toward it is remapped to go counter clockwise.
	CounterClockwiseRotationAngleThreshold = float32(5)
)

const (
	// HasSpeedThreshold is the horizontal speed from which a character counts as moving at all.
	HasSpeedThreshold = float32(1)

	ViewYawSpeedThreshold          = float32(620)
	ViewRelativeYawAngleThreshold  = float32(70)
	SprintViewRelativeAngleLimit   = float32(50)
	ReferenceViewYawSpeed          = float32(300)
	ViewYawSpeedInterpolationBoost = float32(3)

	VelocityDirectionTargetYawSpeed = float32(800)
	ViewDirectionTargetYawSpeed     = float32(500)
	AimingTargetYawSpeed            = float32(1000)
	AimingRotationSpeed             = float32(20)

	InAirRotationSpeed       = float32(5)
	InAirAimingRotationSpeed = float32(15)

	// GaitSpeedTolerance is added to a gait's speed before the next gait is assumed.
	GaitSpeedTolerance = float32(10)

	LandedWithInputBrakingFriction    = float32(0.5)
	LandedWithoutInputBrakingFriction = float32(3)
	LandedBrakingFrictionResetDelay   = float32(0.5)

	RollingOnLandPlayRate = float32(1.3)

	RagdollingMaxPullForce  = float32(750)
	RagdollingPullForceRate = float32(0.6)
	RagdollingGroundOffset  = float32(2)

	MontageBlendOutTime = float32(0.2)
)

var (
	UpVector      = mgl32.Vec3{0, 0, 1}
	ForwardVector = mgl32.Vec3{1, 0, 0}
	RightVector   = mgl32.Vec3{0, 1, 0}
)
