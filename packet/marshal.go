package packet

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

func rotator(io protocol.IO, r *game.Rotator) {
	io.Float32(&r.Pitch)
	io.Float32(&r.Yaw)
	io.Float32(&r.Roll)
}

func montage(io protocol.IO, m *game.Montage) {
	io.String(&m.Name)
	io.Float32(&m.Length)
}

// tag marshals any of the byte sized enums of the game package.
func tag[T ~uint8](io protocol.IO, t *T) {
	v := uint8(*t)
	io.Uint8(&v)
	*t = T(v)
}

// quantizedVec3 marshals a vector rounded to whole units, each axis as a varint.
func quantizedVec3(io protocol.IO, v *mgl32.Vec3) {
	x, y, z := int32(math32.Round(v[0])), int32(math32.Round(v[1])), int32(math32.Round(v[2]))
	io.Varint32(&x)
	io.Varint32(&y)
	io.Varint32(&z)
	*v = mgl32.Vec3{float32(x), float32(y), float32(z)}
}

func mantlingParameters(io protocol.IO, p *game.MantlingParameters) {
	io.String(&p.TargetPrimitive)
	io.Vec3(&p.TargetRelativeLocation)
	rotator(io, &p.TargetRelativeRotation)
	io.Float32(&p.MantlingHeight)
	tag(io, &p.MantlingType)
	montage(io, &p.Montage)
	io.Float32(&p.PlayRate)
	io.Float32(&p.StartTime)
}
