package game

import "github.com/go-gl/mathgl/mgl32"

// Transform is a rigid transform without scale.
type Transform struct {
	Location mgl32.Vec3
	Rotation mgl32.Quat
}

// NewTransform creates a transform from a location and a rotator.
func NewTransform(location mgl32.Vec3, rotation Rotator) Transform {
	return Transform{Location: location, Rotation: rotation.Quat()}
}

// IdentityTransform returns the transform that changes nothing.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Rotator returns the rotation of the transform as a rotator.
func (t Transform) Rotator() Rotator {
	return RotatorFromQuat(t.Quat())
}

// Compose treats t as relative to parent and returns it in parent's space.
func (t Transform) Compose(parent Transform) Transform {
	rot := parent.Quat()
	return Transform{
		Location: parent.Location.Add(rot.Rotate(t.Location)),
		Rotation: rot.Mul(t.Quat()).Normalize(),
	}
}

// RelativeTo expresses t in the space of parent. It is the inverse of Compose.
func (t Transform) RelativeTo(parent Transform) Transform {
	inv := parent.Quat().Inverse()
	return Transform{
		Location: inv.Rotate(t.Location.Sub(parent.Location)),
		Rotation: inv.Mul(t.Quat()).Normalize(),
	}
}

// Quat returns the rotation quaternion, treating the zero value as identity.
func (t Transform) Quat() mgl32.Quat {
	if t.Rotation.W == 0 && t.Rotation.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return t.Rotation
}
