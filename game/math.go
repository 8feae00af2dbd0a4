package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NormalizeAngle wraps an angle in degrees into the range (-180, 180].
func NormalizeAngle(angle float32) float32 {
	angle = math32.Mod(angle+180, 360)
	if angle <= 0 {
		angle += 360
	}
	return angle - 180
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float32) bool {
	for _, v := range vs {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FiniteVec3 reports whether every component of v is finite.
func FiniteVec3(v mgl32.Vec3) bool {
	return Finite(v[0], v[1], v[2])
}

// Clamp clamps v into [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, alpha float32) float32 {
	return a + (b-a)*alpha
}

// LerpClamped linearly interpolates between a and b with alpha clamped to [0, 1].
func LerpClamped(a, b, alpha float32) float32 {
	return Lerp(a, b, Clamp01(alpha))
}

// LerpAngle interpolates from one angle to another through the shortest arc.
func LerpAngle(from, to, alpha float32) float32 {
	delta := RemapAngleForCounterClockwiseRotation(NormalizeAngle(to - from))
	return NormalizeAngle(from + delta*alpha)
}

// ExponentialDecay returns the frame rate independent interpolation alpha for the given
// decay rate. A non-positive lambda snaps, returning 1.
func ExponentialDecay(deltaTime, lambda float32) float32 {
	if lambda <= 0 {
		return 1
	}
	return 1 - math32.Exp(-lambda*deltaTime)
}

// ExponentialDecayAngle moves current toward target by an exponential decay of the
// shortest angular difference.
func ExponentialDecayAngle(current, target, deltaTime, lambda float32) float32 {
	if lambda <= 0 {
		return NormalizeAngle(target)
	}
	return LerpAngle(current, target, ExponentialDecay(deltaTime, lambda))
}

// InterpolateAngleConstant moves current toward target by at most speed*deltaTime degrees.
// A non-positive speed snaps to the target.
func InterpolateAngleConstant(current, target, deltaTime, speed float32) float32 {
	if speed <= 0 || current == target {
		return NormalizeAngle(target)
	}
	step := speed * deltaTime
	delta := RemapAngleForCounterClockwiseRotation(NormalizeAngle(target - current))
	return NormalizeAngle(current + Clamp(delta, -step, step))
}

// InterpTo moves current toward target proportionally to the distance, the way a spring
// without overshoot would.
func InterpTo(current, target, deltaTime, speed float32) float32 {
	if speed <= 0 {
		return target
	}
	dist := target - current
	if dist*dist < SmallNumber {
		return target
	}
	return current + dist*Clamp01(deltaTime*speed)
}

// RemapAngleForCounterClockwiseRotation makes angles close to +180 negative so rotation
// toward them prefers the counter clockwise direction.
func RemapAngleForCounterClockwiseRotation(angle float32) float32 {
	if angle > 180-CounterClockwiseRotationAngleThreshold {
		return angle - 360
	}
	return angle
}

// DirectionToAngleXY returns the yaw in degrees of the horizontal part of a direction.
func DirectionToAngleXY(direction mgl32.Vec3) float32 {
	return mgl32.RadToDeg(math32.Atan2(direction.Y(), direction.X()))
}

// AngleToDirectionXY returns the horizontal unit vector for a yaw in degrees.
func AngleToDirectionXY(yaw float32) mgl32.Vec3 {
	rad := mgl32.DegToRad(yaw)
	return mgl32.Vec3{math32.Cos(rad), math32.Sin(rad), 0}
}

// Size2D returns the length of the horizontal part of a vector.
func Size2D(v mgl32.Vec3) float32 {
	return math32.Sqrt(v.X()*v.X() + v.Y()*v.Y())
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-4.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-4
}

// Quantize rounds every component of v to the nearest whole unit.
func Quantize(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Round(v[0]), math32.Round(v[1]), math32.Round(v[2])}
}
