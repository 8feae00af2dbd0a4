package game

import "github.com/go-gl/mathgl/mgl32"

// MantlingParameters is everything an observer needs to play back a mantle the authority
// started. The target is stored relative to the primitive being climbed, so it stays valid
// while that primitive moves.
type MantlingParameters struct {
	TargetPrimitive        string
	TargetRelativeLocation mgl32.Vec3
	TargetRelativeRotation Rotator
	MantlingHeight         float32
	MantlingType           MantlingType

	Montage   Montage
	PlayRate  float32
	StartTime float32
}

// TargetRelativeTransform returns the ledge target relative to the target primitive.
func (p MantlingParameters) TargetRelativeTransform() Transform {
	return NewTransform(p.TargetRelativeLocation, p.TargetRelativeRotation)
}
