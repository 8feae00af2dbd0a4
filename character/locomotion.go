package character

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

const brakingFrictionResetDeadline = "braking-friction-reset"

func (c *Character) LocomotionMode() game.LocomotionMode {
	return c.locomotionMode
}

func (c *Character) RotationMode() game.RotationMode {
	return c.rotationMode
}

func (c *Character) Stance() game.Stance {
	return c.stance
}

func (c *Character) Gait() game.Gait {
	return c.gait
}

func (c *Character) LocomotionAction() game.LocomotionAction {
	return c.locomotionAction
}

// SetLocomotionAction changes the active action. Starting an action while a different one is
// active is a programming error: the previous action must be stopped first.
func (c *Character) SetLocomotionAction(action game.LocomotionAction) {
	if c.locomotionAction == action {
		return
	}
	assert.IsTrue(action == game.LocomotionActionNone || c.locomotionAction == game.LocomotionActionNone,
		"character %d: %v started while %v is active", c.id, action, c.locomotionAction)

	prev := c.locomotionAction
	c.locomotionAction = action
	c.dbg.Notify(DebugModeLocomotion, true, "locomotion action %v -> %v", prev, action)
	c.handler.HandleLocomotionActionChanged(prev)
	c.ApplyDesiredStance()
}

func (c *Character) setLocomotionMode(mode game.LocomotionMode) {
	if c.locomotionMode == mode {
		return
	}
	prev := c.locomotionMode
	c.locomotionMode = mode
	c.dbg.Notify(DebugModeLocomotion, true, "locomotion mode %v -> %v", prev, mode)
	c.handler.HandleLocomotionModeChanged(prev)
	if c.role == RoleAuthority {
		c.notifyLocomotionModeChanged(prev)
	}
}

func (c *Character) setRotationMode(mode game.RotationMode) {
	if c.rotationMode == mode {
		return
	}
	prev := c.rotationMode
	c.rotationMode = mode
	c.handler.HandleRotationModeChanged(prev)
}

func (c *Character) setStance(stance game.Stance) {
	if c.stance == stance {
		return
	}
	prev := c.stance
	c.stance = stance
	c.handler.HandleStanceChanged(prev)
}

func (c *Character) setGait(gait game.Gait) {
	if c.gait == gait {
		return
	}
	prev := c.gait
	c.gait = gait
	c.handler.HandleGaitChanged(prev)
}

// OnMovementModeChanged must be called by the movement collaborator whenever it changes the
// movement mode on its own, with the mode it had before.
func (c *Character) OnMovementModeChanged(prev game.MovementMode) {
	mode := c.movement.MovementMode()
	if mode == prev {
		return
	}
	c.dbg.Notify(DebugModeLocomotion, true, "movement mode %v -> %v", prev, mode)

	if c.role != RoleAuthority {
		// Only the owner predicts landing friction, the locomotion mode arrives with the
		// replicated fields.
		if c.OwnsMovement() && mode == game.MovementModeWalking && prev == game.MovementModeFalling {
			c.applyLandingFriction()
		}
		return
	}
	switch mode {
	case game.MovementModeWalking, game.MovementModeNavWalking:
		c.setLocomotionMode(game.LocomotionModeGrounded)
	case game.MovementModeFalling:
		c.setLocomotionMode(game.LocomotionModeInAir)
	case game.MovementModeNone:
		c.setLocomotionMode(game.LocomotionModeRagdoll)
	}
}

func (c *Character) notifyLocomotionModeChanged(prev game.LocomotionMode) {
	c.ApplyDesiredStance()

	switch {
	case c.locomotionMode == game.LocomotionModeGrounded && prev == game.LocomotionModeInAir:
		verticalSpeed := c.locomotion.Velocity.Z()
		if c.settings.Ragdolling.StartOnLand && verticalSpeed <= -c.settings.Ragdolling.StartOnLandSpeedThreshold {
			c.StartRagdolling()
			return
		}
		if c.settings.Rolling.StartOnLand && verticalSpeed <= -c.settings.Rolling.StartOnLandSpeedThreshold {
			yaw := c.movement.Rotation().Yaw
			if c.locomotion.HasSpeed {
				yaw = c.locomotion.VelocityYawAngle
			}
			c.StartRollingTowards(game.RollingOnLandPlayRate, yaw)
			return
		}
		c.applyLandingFriction()
	case c.locomotionMode == game.LocomotionModeInAir && c.locomotionAction == game.LocomotionActionRolling && c.settings.Rolling.InterruptWhenInAir:
		c.rolling.Stop()
		c.StartRagdolling()
	}
}

// applyLandingFriction brakes harder for a moment after landing and blocks rotation toward
// the last input direction so the legs do not twist.
func (c *Character) applyLandingFriction() {
	if c.locomotion.HasInput {
		c.movement.SetBrakingFrictionFactor(game.LandedWithInputBrakingFriction)
	} else {
		c.movement.SetBrakingFrictionFactor(game.LandedWithoutInputBrakingFriction)
	}
	c.scheduler.Schedule(brakingFrictionResetDeadline, c.time+game.LandedBrakingFrictionResetDelay, func() {
		c.movement.SetBrakingFrictionFactor(0)
	})
	c.locomotion.RotationTowardsLastInputDirectionBlocked = true
}

// ApplyDesiredStance crouches or uncrouches the capsule to match the desired stance.
func (c *Character) ApplyDesiredStance() {
	if c.role != RoleAuthority && !c.OwnsMovement() {
		return
	}
	switch {
	case c.locomotionAction == game.LocomotionActionNone && c.locomotionMode == game.LocomotionModeGrounded:
		if c.desiredStance == game.StanceStanding {
			c.uncrouch()
		} else {
			c.crouch()
		}
	case c.locomotionAction == game.LocomotionActionNone && c.locomotionMode == game.LocomotionModeInAir:
		c.uncrouch()
	case c.locomotionAction == game.LocomotionActionRolling && c.settings.Rolling.CrouchOnStart:
		c.crouch()
	}
}

func (c *Character) crouch() {
	if c.movement.Crouch() && c.role == RoleAuthority {
		c.setStance(game.StanceCrouching)
	}
}

func (c *Character) uncrouch() {
	if c.movement.UnCrouch() && c.role == RoleAuthority {
		c.setStance(game.StanceStanding)
	}
}

// Jump makes the character jump if it stands on the ground without an action.
func (c *Character) Jump() bool {
	if !c.OwnsMovement() || c.stance != game.StanceStanding || c.locomotionAction != game.LocomotionActionNone ||
		c.locomotionMode != game.LocomotionModeGrounded {
		return false
	}
	if !c.movement.Jump() {
		return false
	}
	c.OnJumped()
	return true
}

// OnJumped notifies the character that it jumped.
func (c *Character) OnJumped() {
	if c.locallyControlled {
		c.jumpedNetworked()
		c.jumped = true
	}
	if c.role == RoleAuthority {
		c.network.Send(packet.TargetOthers, &packet.Jumped{})
		if !c.locallyControlled {
			c.jumpedNetworked()
		}
	}
}

func (c *Character) jumpedNetworked() {
	c.anim.Jumped()
	c.handler.HandleJumped()
}

func (c *Character) refreshInput() {
	if c.OwnsMovement() {
		c.inputDirection = c.movement.InputVector()
	}
	c.locomotion.HasInput = c.inputDirection.LenSqr() > game.KindaSmall
	if c.locomotion.HasInput {
		c.locomotion.InputYawAngle = game.DirectionToAngleXY(c.inputDirection)
		c.locomotion.RotationTowardsLastInputDirectionBlocked = false
	}

	c.locomotion.Velocity = c.movement.Velocity()
	c.locomotion.Speed = game.Size2D(c.locomotion.Velocity)
	c.locomotion.HasSpeed = c.locomotion.Speed >= game.HasSpeedThreshold
	if c.locomotion.HasSpeed {
		c.locomotion.VelocityYawAngle = game.DirectionToAngleXY(c.locomotion.Velocity)
	}
	if c.OwnsMovement() && c.settings.RotateTowardsDesiredVelocity {
		if c.locomotion.HasInput {
			c.desiredVelocityYawAngle = c.locomotion.InputYawAngle
		} else {
			c.desiredVelocityYawAngle = c.locomotion.VelocityYawAngle
		}
	}
	c.locomotion.Moving = (c.locomotion.HasInput && c.locomotion.HasSpeed) || c.locomotion.Speed > c.settings.MovingSpeedThreshold
}

func (c *Character) refreshMovementBase() {
	base := c.movement.Base()
	prev := c.movementBase

	c.movementBase.BaseChanged = base.Primitive != prev.Primitive
	c.movementBase.Primitive = base.Primitive
	c.movementBase.HasRelativeLocation = base.HasRelativeLocation
	c.movementBase.HasRelativeRotation = base.HasRelativeRotation
	c.movementBase.Transform = base.Transform

	if c.movementBase.BaseChanged || !base.HasRelativeRotation {
		c.movementBase.DeltaRotation = game.Rotator{}
		return
	}
	delta := base.Transform.Quat().Mul(prev.Transform.Quat().Inverse())
	c.movementBase.DeltaRotation = game.RotatorFromQuat(delta)
}

func (c *Character) refreshRotationMode() {
	sprinting := c.gait == game.GaitSprinting
	aiming := c.desiredAiming || c.desiredRotationMode == game.RotationModeAiming

	if c.viewMode == game.ViewModeFirstPerson {
		if aiming && (c.locomotionMode != game.LocomotionModeInAir || c.settings.AllowAimingWhenInAir) {
			c.setRotationMode(game.RotationModeAiming)
			return
		}
		c.setRotationMode(game.RotationModeViewDirection)
		return
	}

	switch {
	case c.locomotionMode == game.LocomotionModeInAir:
		if aiming && c.settings.AllowAimingWhenInAir {
			c.setRotationMode(game.RotationModeAiming)
		} else if aiming {
			c.setRotationMode(game.RotationModeViewDirection)
		} else {
			c.setRotationMode(c.desiredRotationMode)
		}
	case sprinting:
		if aiming && !c.settings.SprintHasPriorityOverAiming {
			c.setRotationMode(game.RotationModeAiming)
		} else if c.settings.RotateToVelocityWhenSprinting {
			c.setRotationMode(game.RotationModeVelocityDirection)
		} else if aiming {
			c.setRotationMode(game.RotationModeViewDirection)
		} else {
			c.setRotationMode(c.desiredRotationMode)
		}
	case aiming:
		c.setRotationMode(game.RotationModeAiming)
	default:
		c.setRotationMode(c.desiredRotationMode)
	}
}

// GaitSettings returns the gait settings of the current stance.
func (c *Character) GaitSettings() game.GaitSettings {
	if c.stance == game.StanceCrouching {
		return c.settings.Crouching
	}
	return c.settings.Standing
}

func (c *Character) refreshGait() {
	if c.locomotionMode != game.LocomotionModeGrounded {
		return
	}
	maxAllowed := c.CalculateMaxAllowedGait()
	if c.OwnsMovement() || c.role == RoleAuthority {
		c.movement.SetMaxSpeed(c.GaitSettings().Speed(maxAllowed))
	}
	if c.role == RoleAuthority {
		c.setGait(c.CalculateActualGait(maxAllowed))
	}
}

// CanSprint reports whether the current state allows sprinting.
func (c *Character) CanSprint() bool {
	if !c.locomotion.HasInput || c.stance != game.StanceStanding ||
		(c.rotationMode == game.RotationModeAiming && !c.settings.SprintHasPriorityOverAiming) {
		return false
	}
	if c.viewMode != game.ViewModeFirstPerson &&
		(c.desiredRotationMode == game.RotationModeVelocityDirection || c.settings.RotateToVelocityWhenSprinting) {
		return true
	}
	return math32.Abs(game.NormalizeAngle(c.locomotion.InputYawAngle-c.view.Rotation.Yaw)) < game.SprintViewRelativeAngleLimit
}

// CalculateMaxAllowedGait returns the fastest gait the current state allows.
func (c *Character) CalculateMaxAllowedGait() game.Gait {
	if c.desiredGait != game.GaitSprinting {
		return c.desiredGait
	}
	if c.CanSprint() {
		return game.GaitSprinting
	}
	return game.GaitRunning
}

// CalculateActualGait clamps the desired gait to maxAllowed and, if configured, to the gait the
// measured speed supports.
func (c *Character) CalculateActualGait(maxAllowed game.Gait) game.Gait {
	gait := min(c.desiredGait, maxAllowed)
	if !c.settings.LimitGaitBySpeed {
		return gait
	}
	gs := c.GaitSettings()
	switch {
	case c.locomotion.Speed < gs.WalkSpeed+game.GaitSpeedTolerance:
		return game.GaitWalking
	case c.locomotion.Speed < gs.RunSpeed+game.GaitSpeedTolerance:
		return min(gait, game.GaitRunning)
	}
	return gait
}

// RefreshLocomotionLocationAndRotation copies the actor transform into the locomotion state.
func (c *Character) RefreshLocomotionLocationAndRotation() {
	c.locomotion.Location = c.movement.Location()
	c.locomotion.Rotation = c.movement.Rotation()
}

// applyMove applies movement received from the network.
func (c *Character) applyMove(location, velocity mgl32.Vec3, rotation game.Rotator, mode game.MovementMode) {
	prev := c.movement.MovementMode()
	c.movement.SetLocation(location)
	c.movement.SetVelocity(velocity)
	c.movement.SetRotation(rotation)
	if mode != prev {
		c.movement.SetMovementMode(mode)
		c.OnMovementModeChanged(prev)
	}
	c.RefreshLocomotionLocationAndRotation()
}
