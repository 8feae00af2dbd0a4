package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

// RagdollingComponent hands the character over to physics. The instance simulating the ragdoll
// streams the pelvis location, and every other instance pulls its own ragdoll toward it.
type RagdollingComponent struct {
	mChar *character.Character
	state character.RagdollingState
}

func NewRagdollingComponent(c *character.Character) *RagdollingComponent {
	return &RagdollingComponent{mChar: c}
}

func (r *RagdollingComponent) State() character.RagdollingState {
	return r.state
}

func (r *RagdollingComponent) active() bool {
	return r.mChar.LocomotionAction() == game.LocomotionActionRagdolling
}

func (r *RagdollingComponent) TryStart() bool {
	c := r.mChar
	if c.Role() == character.RoleSimulatedProxy || !c.Policy().IsRagdollingAllowedToStart(c) {
		return false
	}
	if c.Role() == character.RoleAutonomousProxy {
		c.Send(packet.TargetServer, &packet.StartRagdollingRequest{})
		return true
	}
	c.Send(packet.TargetMulticast, &packet.StartRagdolling{})
	r.Start()
	return true
}

func (r *RagdollingComponent) Start() {
	c := r.mChar
	c.StopActions()

	mesh, mov := c.Mesh(), c.Movement()
	mesh.SetSimulatePhysics(true)
	r.state = character.RagdollingState{
		TargetLocation: mesh.PelvisLocation(),
		Velocity:       mov.Velocity(),
	}
	c.Animation().StopAllMontages(0)

	prev := mov.MovementMode()
	mov.SetMovementMode(game.MovementModeNone)
	mov.SetMovementModeLocked(true)
	c.OnMovementModeChanged(prev)

	c.SetLocomotionAction(game.LocomotionActionRagdolling)
	c.Dbg().Notify(character.DebugModeRagdolling, true, "ragdolling started at %v", r.state.TargetLocation)
	c.Handler().HandleRagdollingStarted()
}

// AllowedToStop reports whether the ragdoll lies on the ground and has settled.
func (r *RagdollingComponent) AllowedToStop() bool {
	c := r.mChar
	return r.active() && !r.state.GettingUp && c.Mesh().SimulatingPhysics() && r.state.Grounded &&
		c.Mesh().PelvisVelocity().Len() < c.Settings().Ragdolling.SettledSpeedThreshold
}

func (r *RagdollingComponent) TryStop() bool {
	c := r.mChar
	if c.Role() == character.RoleSimulatedProxy || !r.AllowedToStop() {
		return false
	}
	if c.Role() == character.RoleAutonomousProxy {
		c.Send(packet.TargetServer, &packet.StopRagdollingRequest{})
		return true
	}
	c.Send(packet.TargetMulticast, &packet.StopRagdolling{})
	r.Stop()
	return true
}

// Stop leaves physics and plays the get-up montage. The action stays active until the montage
// ends and Finalize is called.
func (r *RagdollingComponent) Stop() {
	if !r.active() || r.state.GettingUp {
		return
	}
	c := r.mChar
	r.leavePhysics()

	montage := c.Policy().SelectGetUpMontage(c, r.state.FacedUpward)
	if !r.state.Grounded || !montage.Valid() {
		r.Finalize()
		return
	}
	c.Animation().PlayMontage(montage, 1, 0)
	r.state.GettingUp = true
	r.state.GetUpMontage = montage
	r.state.GetUpElapsed = 0
	c.Dbg().Notify(character.DebugModeRagdolling, true, "getting up with %v (faced upward=%v)", montage, r.state.FacedUpward)
}

func (r *RagdollingComponent) leavePhysics() {
	c := r.mChar
	mesh, mov := c.Mesh(), c.Movement()
	if !mesh.SimulatingPhysics() {
		return
	}
	mesh.SetSimulatePhysics(false)

	mode := game.MovementModeFalling
	if r.state.Grounded {
		mode = game.MovementModeWalking
	}
	prev := mov.MovementMode()
	mov.SetMovementModeLocked(false)
	mov.SetMovementMode(mode)
	mov.SetVelocity(r.state.Velocity)
	c.OnMovementModeChanged(prev)
}

func (r *RagdollingComponent) Finalize() {
	if !r.active() {
		return
	}
	c := r.mChar
	r.leavePhysics()
	r.state = character.RagdollingState{}
	c.SetLocomotionAction(game.LocomotionActionNone)
	c.Dbg().Notify(character.DebugModeRagdolling, true, "ragdolling ended")
	c.Handler().HandleRagdollingEnded()
}

func (r *RagdollingComponent) ForceStop() {
	if !r.active() {
		return
	}
	if r.state.GettingUp {
		r.mChar.Animation().StopMontage(r.state.GetUpMontage, game.MontageBlendOutTime)
	}
	r.Finalize()
}

func (r *RagdollingComponent) SetTargetLocation(location mgl32.Vec3) {
	r.state.TargetLocation = location
}

func (r *RagdollingComponent) Tick(dt float32) {
	if !r.active() {
		return
	}
	c := r.mChar
	if r.state.GettingUp {
		r.state.GetUpElapsed += dt
		if r.state.GetUpElapsed >= r.state.GetUpMontage.Duration(1) {
			r.Finalize()
		}
		return
	}

	mesh := c.Mesh()
	r.state.Velocity = mesh.PelvisVelocity()
	if c.OwnsMovement() {
		r.state.TargetLocation = mesh.PelvisLocation()
		target := packet.TargetServer
		if c.Role() == character.RoleAuthority {
			target = packet.TargetOthers
		}
		c.Send(target, &packet.RagdollTargetLocation{Location: r.state.TargetLocation})
	} else {
		r.state.PullForce = game.InterpTo(r.state.PullForce, game.RagdollingMaxPullForce, dt, game.RagdollingPullForceRate)
		mesh.AddPelvisForce(r.state.TargetLocation.Sub(mesh.PelvisLocation()).Mul(r.state.PullForce))
	}
	r.refreshActorTransform()
}

// refreshActorTransform keeps the capsule on top of the ragdoll so the actor stays where the
// body is.
func (r *RagdollingComponent) refreshActorTransform() {
	c := r.mChar
	mov := c.Movement()
	halfHeight := mov.HalfHeight()

	pelvisRotation := c.Mesh().PelvisRotation()
	r.state.FacedUpward = pelvisRotation.Forward().Z() >= 0

	location := r.state.TargetLocation
	hit, ok := c.World().LineTrace(location, location.Sub(mgl32.Vec3{0, 0, halfHeight}))
	r.state.Grounded = ok
	if ok {
		location[2] = hit.ImpactPoint.Z() + halfHeight + game.RagdollingGroundOffset
	}

	yaw := pelvisRotation.Yaw
	if r.state.FacedUpward {
		yaw -= 180
	}
	mov.SetLocation(location)
	mov.SetRotation(game.YawRotator(game.NormalizeAngle(yaw)))
	c.RefreshLocomotionLocationAndRotation()
	c.RefreshTargetYawAngle(c.LocomotionState().Rotation.Yaw)
}
