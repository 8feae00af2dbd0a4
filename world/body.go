package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/game"
)

const (
	gravity        float32 = -980
	acceleration   float32 = 2048
	brakingDecel   float32 = 2048
	airControl     float32 = 0.35
	jumpZVelocity  float32 = 420
	floorDistance  float32 = 2.4
	groundFriction float32 = 8
	walkableFloorZ float32 = 0.71
)

// Body is a capsule driven by a simple walking and falling simulation, with a single rigid
// pelvis standing in for the skeleton while ragdolling. It implements character.Movement and
// character.Mesh.
type Body struct {
	world *BoxWorld

	location mgl32.Vec3
	rotation game.Rotator
	velocity mgl32.Vec3
	input    mgl32.Vec3

	mode       game.MovementMode
	modeLocked bool
	listener   func(prev game.MovementMode)

	radius             float32
	standingHalfHeight float32
	crouchedHalfHeight float32
	crouched           bool

	maxSpeed        float32
	brakingFriction float32

	base        string
	baseMovable bool

	simulating     bool
	pelvisLocation mgl32.Vec3
	pelvisVelocity mgl32.Vec3
	pelvisRotation game.Rotator
	pelvisForce    mgl32.Vec3
}

// NewBody creates a body standing at location.
func NewBody(w *BoxWorld, location mgl32.Vec3, rotation game.Rotator) *Body {
	return &Body{
		world:              w,
		location:           location,
		rotation:           rotation,
		mode:               game.MovementModeWalking,
		radius:             35,
		standingHalfHeight: 90,
		crouchedHalfHeight: 60,
		maxSpeed:           375,
	}
}

// OnModeChange sets the function called when the body changes its movement mode by itself.
func (b *Body) OnModeChange(f func(prev game.MovementMode)) {
	b.listener = f
}

func (b *Body) setModeAndNotify(mode game.MovementMode) {
	if b.mode == mode || b.modeLocked {
		return
	}
	prev := b.mode
	b.mode = mode
	if b.listener != nil {
		b.listener(prev)
	}
}

func (b *Body) Location() mgl32.Vec3              { return b.location }
func (b *Body) SetLocation(location mgl32.Vec3)   { b.location = location }
func (b *Body) Rotation() game.Rotator            { return b.rotation }
func (b *Body) SetRotation(rotation game.Rotator) { b.rotation = rotation }
func (b *Body) Velocity() mgl32.Vec3              { return b.velocity }
func (b *Body) SetVelocity(velocity mgl32.Vec3)   { b.velocity = velocity }

// SetInput sets the input direction. Its length is capped to 1.
func (b *Body) SetInput(input mgl32.Vec3) {
	input[2] = 0
	if l := input.Len(); l > 1 {
		input = input.Mul(1 / l)
	}
	b.input = input
}

func (b *Body) InputVector() mgl32.Vec3 {
	return b.input
}

func (b *Body) MovementMode() game.MovementMode {
	return b.mode
}

func (b *Body) SetMovementMode(mode game.MovementMode) {
	b.mode = mode
}

func (b *Body) SetMovementModeLocked(locked bool) {
	b.modeLocked = locked
}

func (b *Body) Radius() float32 {
	return b.radius
}

func (b *Body) HalfHeight() float32 {
	if b.crouched {
		return b.crouchedHalfHeight
	}
	return b.standingHalfHeight
}

// Crouch shrinks the capsule, keeping its bottom in place.
func (b *Body) Crouch() bool {
	if b.crouched {
		return true
	}
	b.crouched = true
	b.location[2] -= b.standingHalfHeight - b.crouchedHalfHeight
	return true
}

// UnCrouch grows the capsule back if there is room above it.
func (b *Body) UnCrouch() bool {
	if !b.crouched {
		return true
	}
	standing := b.location.Add(mgl32.Vec3{0, 0, b.standingHalfHeight - b.crouchedHalfHeight})
	if b.world.OverlapCapsule(standing, b.radius, b.standingHalfHeight) {
		return false
	}
	b.crouched = false
	b.location = standing
	return true
}

func (b *Body) Crouched() bool {
	return b.crouched
}

func (b *Body) Jump() bool {
	if b.mode != game.MovementModeWalking || b.crouched {
		return false
	}
	b.velocity[2] = jumpZVelocity
	b.setModeAndNotify(game.MovementModeFalling)
	return true
}

func (b *Body) SetMaxSpeed(speed float32) {
	b.maxSpeed = speed
}

func (b *Body) MaxSpeed() float32 {
	return b.maxSpeed
}

func (b *Body) SetBrakingFrictionFactor(factor float32) {
	b.brakingFriction = factor
}

func (b *Body) BrakingFrictionFactor() float32 {
	return b.brakingFriction
}

func (b *Body) Base() character.MovementBase {
	if b.base == "" {
		return character.MovementBase{}
	}
	p, ok := b.world.Primitive(b.base)
	if !ok {
		return character.MovementBase{}
	}
	return character.MovementBase{
		Primitive:           p.ID,
		Transform:           p.Transform,
		HasRelativeLocation: b.baseMovable,
		HasRelativeRotation: b.baseMovable,
	}
}

func (b *Body) SetSimulatePhysics(simulate bool) {
	if simulate == b.simulating {
		return
	}
	b.simulating = simulate
	if simulate {
		b.pelvisLocation = b.location
		b.pelvisVelocity = b.velocity
		b.pelvisRotation = game.Rotator{Pitch: -80, Yaw: b.rotation.Yaw}
		return
	}
	b.velocity = b.pelvisVelocity
}

func (b *Body) SimulatingPhysics() bool      { return b.simulating }
func (b *Body) PelvisLocation() mgl32.Vec3   { return b.pelvisLocation }
func (b *Body) PelvisRotation() game.Rotator { return b.pelvisRotation }
func (b *Body) PelvisVelocity() mgl32.Vec3   { return b.pelvisVelocity }

// SetPelvisRotation sets the rotation of the pelvis, as if the body rolled over.
func (b *Body) SetPelvisRotation(rotation game.Rotator) {
	b.pelvisRotation = rotation
}

func (b *Body) AddPelvisForce(force mgl32.Vec3) {
	b.pelvisForce = b.pelvisForce.Add(force)
}

// Step advances the simulation by dt seconds.
func (b *Body) Step(dt float32) {
	if b.simulating {
		b.stepPelvis(dt)
		return
	}
	b.followBase(dt)
	switch b.mode {
	case game.MovementModeWalking, game.MovementModeNavWalking:
		b.stepWalking(dt)
	case game.MovementModeFalling:
		b.stepFalling(dt)
	}
}

func (b *Body) followBase(dt float32) {
	if b.base == "" || !b.baseMovable || b.mode == game.MovementModeCustom {
		return
	}
	if p, ok := b.world.Primitive(b.base); ok {
		b.location = b.location.Add(p.Velocity.Mul(dt))
	}
}

func (b *Body) stepWalking(dt float32) {
	horizontal := mgl32.Vec3{b.velocity.X(), b.velocity.Y(), 0}
	if b.input.LenSqr() > game.KindaSmall {
		target := b.input.Mul(b.maxSpeed)
		horizontal = approach(horizontal, target, acceleration*dt)
	} else {
		horizontal = approach(horizontal, mgl32.Vec3{}, brakingDecel*(1+b.brakingFriction)*dt)
	}
	b.velocity = horizontal
	b.moveHorizontally(dt)

	ground, ok := b.groundBelow(floorDistance * 2)
	if !ok {
		b.base = ""
		b.setModeAndNotify(game.MovementModeFalling)
		return
	}
	b.landOn(ground)
}

func (b *Body) stepFalling(dt float32) {
	horizontal := mgl32.Vec3{b.velocity.X(), b.velocity.Y(), 0}
	if b.input.LenSqr() > game.KindaSmall {
		horizontal = approach(horizontal, b.input.Mul(b.maxSpeed), acceleration*airControl*dt)
	}
	b.velocity = mgl32.Vec3{horizontal.X(), horizontal.Y(), b.velocity.Z() + gravity*dt}
	b.moveHorizontally(dt)

	dz := b.velocity.Z() * dt
	if dz > 0 {
		b.location[2] += dz
		return
	}
	ground, ok := b.groundBelow(-dz + floorDistance)
	if !ok {
		b.location[2] += dz
		return
	}
	b.landOn(ground)
	// The landing speed is still visible to the listener.
	b.setModeAndNotify(game.MovementModeWalking)
	b.velocity[2] = 0
}

func (b *Body) landOn(ground character.Hit) {
	b.location[2] = ground.ImpactPoint.Z() + b.HalfHeight()
	b.base = ground.Primitive
	if box, ok := b.world.Box(ground.Primitive); ok {
		b.baseMovable = box.Movable
	}
	if b.mode != game.MovementModeFalling {
		b.velocity[2] = 0
	}
}

func (b *Body) moveHorizontally(dt float32) {
	delta := mgl32.Vec3{b.velocity.X() * dt, b.velocity.Y() * dt, 0}
	if delta.LenSqr() < game.SmallNumber {
		return
	}
	end := b.location.Add(delta)
	// Lift the sweep slightly so the floor is not hit.
	lift := mgl32.Vec3{0, 0, floorDistance}
	hit, ok := b.world.SweepCapsule(b.location.Add(lift), end.Add(lift), b.radius, b.HalfHeight())
	if !ok {
		b.location = end
		return
	}
	b.location = hit.Location.Sub(lift)
	// Drop the velocity into the wall.
	into := b.velocity.Dot(hit.Normal)
	if into < 0 {
		b.velocity = b.velocity.Sub(hit.Normal.Mul(into))
	}
}

func (b *Body) groundBelow(distance float32) (character.Hit, bool) {
	start := b.location.Add(mgl32.Vec3{0, 0, floorDistance})
	end := b.location.Sub(mgl32.Vec3{0, 0, distance})
	hit, ok := b.world.SweepCapsule(start, end, b.radius, b.HalfHeight())
	if !ok || hit.Normal.Z() < walkableFloorZ {
		return character.Hit{}, false
	}
	return hit, true
}

func (b *Body) stepPelvis(dt float32) {
	b.pelvisVelocity = b.pelvisVelocity.Add(b.pelvisForce.Mul(dt))
	b.pelvisForce = mgl32.Vec3{}
	b.pelvisVelocity[2] += gravity * dt

	next := b.pelvisLocation.Add(b.pelvisVelocity.Mul(dt))
	hit, ok := b.world.LineTrace(b.pelvisLocation, next.Sub(mgl32.Vec3{0, 0, floorDistance}))
	if ok && hit.Normal.Z() > 0 {
		next[2] = hit.ImpactPoint.Z() + floorDistance
		b.pelvisVelocity[2] = 0
		damp := game.Clamp01(groundFriction * dt)
		b.pelvisVelocity = b.pelvisVelocity.Mul(1 - damp)
	}
	b.pelvisLocation = next
}

// approach moves v toward target by at most step.
func approach(v, target mgl32.Vec3, step float32) mgl32.Vec3 {
	diff := target.Sub(v)
	if l := diff.Len(); l > step {
		return v.Add(diff.Mul(step / l))
	}
	return target
}
