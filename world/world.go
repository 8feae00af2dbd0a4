package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/game"
	"github.com/sasha-s/go-deadlock"
)

// Box is a solid axis aligned primitive. Its collision box never rotates, the rotation of its
// transform only matters to things attached to it.
type Box struct {
	ID string
	// BBox is the collision box relative to the transform location.
	BBox      cube.BBox
	Transform game.Transform
	Velocity  mgl32.Vec3
	// Movable marks boxes characters stand on relative to, such as platforms.
	Movable bool
}

// WorldBBox returns the collision box in world space.
func (b *Box) WorldBBox() cube.BBox {
	return b.BBox.Translate(b.Transform.Location)
}

// BoxWorld is a collision world made of boxes. It implements character.World.
type BoxWorld struct {
	boxes map[string]*Box
	order []string

	deadlock.RWMutex
}

func New() *BoxWorld {
	return &BoxWorld{boxes: make(map[string]*Box)}
}

// AddBox adds a box to the world, replacing any box with the same ID.
func (w *BoxWorld) AddBox(b Box) {
	w.Lock()
	defer w.Unlock()

	if b.Transform.Rotation.W == 0 && b.Transform.Rotation.V == (mgl32.Vec3{}) {
		b.Transform.Rotation = mgl32.QuatIdent()
	}
	if _, ok := w.boxes[b.ID]; !ok {
		w.order = append(w.order, b.ID)
	}
	w.boxes[b.ID] = &b
}

// RemoveBox removes a box from the world.
func (w *BoxWorld) RemoveBox(id string) {
	w.Lock()
	defer w.Unlock()

	if _, ok := w.boxes[id]; !ok {
		return
	}
	delete(w.boxes, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// MoveBox moves a box by its velocity over dt seconds and rotates it by yawSpeed degrees per
// second.
func (w *BoxWorld) MoveBox(id string, dt, yawSpeed float32) {
	w.Lock()
	defer w.Unlock()

	b, ok := w.boxes[id]
	if !ok {
		return
	}
	b.Transform.Location = b.Transform.Location.Add(b.Velocity.Mul(dt))
	if yawSpeed != 0 {
		spin := game.YawRotator(yawSpeed * dt).Quat()
		b.Transform.Rotation = spin.Mul(b.Transform.Quat()).Normalize()
	}
}

func (w *BoxWorld) Primitive(id string) (character.Primitive, bool) {
	w.RLock()
	defer w.RUnlock()

	b, ok := w.boxes[id]
	if !ok {
		return character.Primitive{}, false
	}
	return character.Primitive{ID: b.ID, Transform: b.Transform, Velocity: b.Velocity}, true
}

// Box returns a copy of the box with the given ID.
func (w *BoxWorld) Box(id string) (Box, bool) {
	w.RLock()
	defer w.RUnlock()

	b, ok := w.boxes[id]
	if !ok {
		return Box{}, false
	}
	return *b, true
}

// SweepCapsule sweeps the bounding box of a capsule. The capsule is approximated by its box,
// which is accurate for the vertical and flat walls the world is made of.
func (w *BoxWorld) SweepCapsule(start, end mgl32.Vec3, radius, halfHeight float32) (character.Hit, bool) {
	return w.sweep(start, end, mgl32.Vec3{radius, radius, halfHeight})
}

func (w *BoxWorld) SweepSphere(start, end mgl32.Vec3, radius float32) (character.Hit, bool) {
	return w.sweep(start, end, mgl32.Vec3{radius, radius, radius})
}

func (w *BoxWorld) LineTrace(start, end mgl32.Vec3) (character.Hit, bool) {
	return w.sweep(start, end, mgl32.Vec3{})
}

// OverlapCapsule reports whether the bounding box of a capsule intersects any box.
func (w *BoxWorld) OverlapCapsule(location mgl32.Vec3, radius, halfHeight float32) bool {
	bb := extentBox(location, mgl32.Vec3{radius, radius, halfHeight})

	w.RLock()
	defer w.RUnlock()
	for _, id := range w.order {
		if bb.IntersectsWith(w.boxes[id].WorldBBox()) {
			return true
		}
	}
	return false
}

// sweep moves a box with the given half extents from start to end and returns the first box it
// hits. Boxes the shape starts inside of are ignored.
func (w *BoxWorld) sweep(start, end mgl32.Vec3, extents mgl32.Vec3) (character.Hit, bool) {
	w.RLock()
	defer w.RUnlock()

	var (
		best    character.Hit
		bestDst float32
		found   bool
	)
	for _, id := range w.order {
		b := w.boxes[id]
		bb := b.WorldBBox()
		expanded := cube.Box(
			bb.Min().X()-extents.X(), bb.Min().Y()-extents.Y(), bb.Min().Z()-extents.Z(),
			bb.Max().X()+extents.X(), bb.Max().Y()+extents.Y(), bb.Max().Z()+extents.Z(),
		)
		if strictlyInside(expanded, start) {
			continue
		}
		result, ok := trace.BBoxIntercept(expanded, start, end)
		if !ok {
			continue
		}
		pos := result.Position()
		dist := pos.Sub(start).LenSqr()
		if found && dist >= bestDst {
			continue
		}
		normal := faceNormal(expanded, pos)
		best = character.Hit{
			Location:    pos,
			ImpactPoint: clampToBox(bb, pos.Sub(mul(normal, extents))),
			Normal:      normal,
			Primitive:   b.ID,
		}
		bestDst, found = dist, true
	}
	return best, found
}

func extentBox(center, extents mgl32.Vec3) cube.BBox {
	lo, hi := center.Sub(extents), center.Add(extents)
	return cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
}

func strictlyInside(bb cube.BBox, v mgl32.Vec3) bool {
	const eps = 1e-4
	lo, hi := bb.Min(), bb.Max()
	for i := 0; i < 3; i++ {
		if v[i] <= lo[i]+eps || v[i] >= hi[i]-eps {
			return false
		}
	}
	return true
}

// faceNormal returns the outward normal of the face of bb closest to a point on its surface.
func faceNormal(bb cube.BBox, v mgl32.Vec3) mgl32.Vec3 {
	lo, hi := bb.Min(), bb.Max()
	var (
		normal mgl32.Vec3
		best   float32 = -1
	)
	for i := 0; i < 3; i++ {
		if d := math32.Abs(v[i] - lo[i]); best < 0 || d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = -1
		}
		if d := math32.Abs(v[i] - hi[i]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = 1
		}
	}
	return normal
}

func clampToBox(bb cube.BBox, v mgl32.Vec3) mgl32.Vec3 {
	lo, hi := bb.Min(), bb.Max()
	return mgl32.Vec3{
		game.Clamp(v[0], lo[0], hi[0]),
		game.Clamp(v[1], lo[1], hi[1]),
		game.Clamp(v[2], lo[2], hi[2]),
	}
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
