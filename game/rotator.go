package game

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotator is an orientation in degrees with +Z up. Yaw turns about +Z, a positive pitch raises
// the forward axis toward +Z and roll turns about the forward axis.
type Rotator struct {
	Pitch float32
	Yaw   float32
	Roll  float32
}

// YawRotator returns a rotator that only has a yaw component.
func YawRotator(yaw float32) Rotator {
	return Rotator{Yaw: yaw}
}

// Normalize wraps every axis into (-180, 180].
func (r Rotator) Normalize() Rotator {
	return Rotator{Pitch: NormalizeAngle(r.Pitch), Yaw: NormalizeAngle(r.Yaw), Roll: NormalizeAngle(r.Roll)}
}

// Finite reports whether every axis of r is finite.
func (r Rotator) Finite() bool {
	return Finite(r.Pitch, r.Yaw, r.Roll)
}

// Add adds o to r axis by axis.
func (r Rotator) Add(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch + o.Pitch, Yaw: r.Yaw + o.Yaw, Roll: r.Roll + o.Roll}
}

// Equals reports whether r and o describe the same angles within a small tolerance.
func (r Rotator) Equals(o Rotator) bool {
	return math32.Abs(NormalizeAngle(r.Pitch-o.Pitch)) <= KindaSmall &&
		math32.Abs(NormalizeAngle(r.Yaw-o.Yaw)) <= KindaSmall &&
		math32.Abs(NormalizeAngle(r.Roll-o.Roll)) <= KindaSmall
}

// Quat converts the rotator into a quaternion.
func (r Rotator) Quat() mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(r.Yaw), UpVector)
	pitch := mgl32.QuatRotate(mgl32.DegToRad(-r.Pitch), RightVector)
	roll := mgl32.QuatRotate(mgl32.DegToRad(r.Roll), ForwardVector)
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// Forward returns the unit forward axis of the rotator.
func (r Rotator) Forward() mgl32.Vec3 {
	return r.Quat().Rotate(ForwardVector)
}

func (r Rotator) String() string {
	return fmt.Sprintf("(P=%.2f Y=%.2f R=%.2f)", r.Pitch, r.Yaw, r.Roll)
}

// RotatorFromQuat converts a quaternion back into a rotator.
func RotatorFromQuat(q mgl32.Quat) Rotator {
	forward := q.Rotate(ForwardVector)
	r := Rotator{
		Pitch: mgl32.RadToDeg(math32.Asin(Clamp(forward.Z(), -1, 1))),
		Yaw:   mgl32.RadToDeg(math32.Atan2(forward.Y(), forward.X())),
	}

	ref := r.Quat()
	up := q.Rotate(UpVector)
	r.Roll = mgl32.RadToDeg(math32.Atan2(-up.Dot(ref.Rotate(RightVector)), up.Dot(ref.Rotate(UpVector))))
	return r
}

// LerpRotator interpolates every axis through its shortest arc.
func LerpRotator(from, to Rotator, alpha float32) Rotator {
	return Rotator{
		Pitch: LerpAngle(from.Pitch, to.Pitch, alpha),
		Yaw:   LerpAngle(from.Yaw, to.Yaw, alpha),
		Roll:  LerpAngle(from.Roll, to.Roll, alpha),
	}
}

// StepRotator moves every axis of current toward target by at most maxStep degrees.
func StepRotator(current, target Rotator, maxStep float32) Rotator {
	step := func(c, t float32) float32 {
		delta := NormalizeAngle(t - c)
		return NormalizeAngle(c + Clamp(delta, -maxStep, maxStep))
	}
	return Rotator{
		Pitch: step(current.Pitch, target.Pitch),
		Yaw:   step(current.Yaw, target.Yaw),
		Roll:  step(current.Roll, target.Roll),
	}
}

// MaxAxisDelta returns the largest absolute angular difference between two rotators.
func MaxAxisDelta(a, b Rotator) float32 {
	return max(
		math32.Abs(NormalizeAngle(a.Pitch-b.Pitch)),
		math32.Abs(NormalizeAngle(a.Yaw-b.Yaw)),
		math32.Abs(NormalizeAngle(a.Roll-b.Roll)),
	)
}
