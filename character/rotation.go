package character

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/locomotion/game"
)

func (c *Character) refreshGroundedRotation(dt float32) {
	if c.locomotionAction != game.LocomotionActionNone || c.locomotionMode != game.LocomotionModeGrounded {
		return
	}
	if c.movementBase.HasRelativeRotation {
		c.locomotion.TargetYawAngle = game.NormalizeAngle(c.locomotion.TargetYawAngle + c.movementBase.DeltaRotation.Yaw)
		c.locomotion.SmoothTargetYawAngle = game.NormalizeAngle(c.locomotion.SmoothTargetYawAngle + c.movementBase.DeltaRotation.Yaw)
	}

	if !c.locomotion.Moving {
		if c.applyRotationYawSpeedCurve(dt) {
			return
		}
		if c.refreshConstrainedAimingRotation(dt) {
			return
		}
		c.RefreshTargetYawAngle(c.locomotion.Rotation.Yaw)
		return
	}

	switch c.rotationMode {
	case game.RotationModeVelocityDirection:
		if !c.locomotion.HasInput && c.locomotion.RotationTowardsLastInputDirectionBlocked {
			break
		}
		yaw := c.locomotion.VelocityYawAngle
		if c.settings.RotateTowardsDesiredVelocity {
			yaw = c.desiredVelocityYawAngle
		}
		c.RefreshRotationExtraSmooth(yaw, dt, c.calculateGroundedMovingRotationInterpolationSpeed(), game.VelocityDirectionTargetYawSpeed)
		return
	case game.RotationModeViewDirection:
		yaw := c.view.Rotation.Yaw + c.anim.CurveValue(CurveRotationYawOffset)
		if c.gait == game.GaitSprinting {
			yaw = c.locomotion.VelocityYawAngle
		}
		c.RefreshRotationExtraSmooth(yaw, dt, c.calculateGroundedMovingRotationInterpolationSpeed(), game.ViewDirectionTargetYawSpeed)
		return
	case game.RotationModeAiming:
		c.refreshGroundedAimingRotation(dt)
		return
	}
	c.RefreshTargetYawAngle(c.locomotion.Rotation.Yaw)
}

func (c *Character) refreshGroundedAimingRotation(dt float32) {
	c.RefreshRotationExtraSmooth(c.view.Rotation.Yaw, dt, game.AimingRotationSpeed, game.AimingTargetYawSpeed)
}

// refreshConstrainedAimingRotation keeps a standing, aiming character within a fixed angle of
// the view, turning it instantly once the view leaves that angle. Input or a fast turning view
// rotates it smoothly instead.
func (c *Character) refreshConstrainedAimingRotation(dt float32) bool {
	if c.rotationMode != game.RotationModeAiming {
		return false
	}
	if c.locomotion.HasInput || c.view.YawSpeed > game.ViewYawSpeedThreshold {
		c.refreshGroundedAimingRotation(dt)
		return true
	}
	viewRelativeYaw := game.NormalizeAngle(c.view.Rotation.Yaw - c.locomotion.Rotation.Yaw)
	if math32.Abs(viewRelativeYaw) <= game.ViewRelativeYawAngleThreshold {
		c.RefreshTargetYawAngle(c.locomotion.Rotation.Yaw)
		return true
	}
	limit := game.ViewRelativeYawAngleThreshold
	if viewRelativeYaw >= 0 {
		limit = -limit
	}
	c.RefreshRotationInstant(c.view.Rotation.Yaw + limit)
	return true
}

// applyRotationYawSpeedCurve turns a standing character by the yaw speed the animation graph
// publishes, used by turn in place animations.
func (c *Character) applyRotationYawSpeedCurve(dt float32) bool {
	delta := c.anim.CurveValue(CurveRotationYawSpeed) * dt
	if math32.Abs(delta) <= game.SmallNumber {
		return false
	}
	rot := c.movement.Rotation()
	rot.Yaw = game.NormalizeAngle(rot.Yaw + delta)
	c.movement.SetRotation(rot)
	c.RefreshLocomotionLocationAndRotation()
	c.RefreshTargetYawAngle(c.locomotion.Rotation.Yaw)
	return true
}

func (c *Character) calculateGroundedMovingRotationInterpolationSpeed() float32 {
	gs := c.GaitSettings()
	speed := gs.RotationInterpolationSpeedCurve.Eval(gs.GaitAmount(c.locomotion.Speed))
	return speed * game.LerpClamped(1, game.ViewYawSpeedInterpolationBoost, c.view.YawSpeed/game.ReferenceViewYawSpeed)
}

func (c *Character) refreshInAirRotation(dt float32) {
	if c.locomotionAction != game.LocomotionActionNone || c.locomotionMode != game.LocomotionModeInAir {
		return
	}

	var yaw, speed float32
	switch c.rotationMode {
	case game.RotationModeVelocityDirection, game.RotationModeViewDirection:
		switch c.settings.InAirRotationMode {
		case game.InAirRotationModeRotateToVelocityOnJump:
			if c.locomotion.Moving {
				yaw = c.locomotion.VelocityYawAngle
				break
			}
			yaw = c.view.Rotation.Yaw - c.locomotion.ViewRelativeTargetYawAngle
		case game.InAirRotationModeKeepRelativeRotation:
			yaw = c.view.Rotation.Yaw - c.locomotion.ViewRelativeTargetYawAngle
		default:
			c.RefreshTargetYawAngle(c.locomotion.Rotation.Yaw)
			return
		}
		speed = game.InAirRotationSpeed
	case game.RotationModeAiming:
		yaw, speed = c.view.Rotation.Yaw, game.InAirAimingRotationSpeed
	default:
		c.RefreshTargetYawAngle(c.locomotion.Rotation.Yaw)
		return
	}
	c.RefreshRotation(yaw, dt, speed)
}

// RefreshRotation decays the actor yaw toward targetYaw.
func (c *Character) RefreshRotation(targetYaw, dt, interpolationSpeed float32) {
	c.RefreshTargetYawAngle(targetYaw)
	c.setActorYaw(game.ExponentialDecayAngle(game.NormalizeAngle(c.locomotion.Rotation.Yaw), c.locomotion.TargetYawAngle, dt, interpolationSpeed))
}

// RefreshRotationExtraSmooth is RefreshRotation with the target yaw itself moving toward
// targetYaw at no more than targetYawSpeed degrees per second, which hides sudden target changes
// such as strafe reversals.
func (c *Character) RefreshRotationExtraSmooth(targetYaw, dt, interpolationSpeed, targetYawSpeed float32) {
	c.locomotion.TargetYawAngle = game.NormalizeAngle(targetYaw)
	c.refreshViewRelativeTargetYawAngle()
	c.locomotion.SmoothTargetYawAngle = game.InterpolateAngleConstant(c.locomotion.SmoothTargetYawAngle, c.locomotion.TargetYawAngle, dt, targetYawSpeed)
	c.setActorYaw(game.ExponentialDecayAngle(game.NormalizeAngle(c.locomotion.Rotation.Yaw), c.locomotion.SmoothTargetYawAngle, dt, interpolationSpeed))
}

// RefreshRotationInstant sets the actor yaw to targetYaw at once.
func (c *Character) RefreshRotationInstant(targetYaw float32) {
	c.RefreshTargetYawAngle(targetYaw)
	c.setActorYaw(c.locomotion.TargetYawAngle)
}

// RefreshTargetYawAngle sets the target yaw without rotating the actor.
func (c *Character) RefreshTargetYawAngle(targetYaw float32) {
	c.locomotion.TargetYawAngle = game.NormalizeAngle(targetYaw)
	c.locomotion.SmoothTargetYawAngle = c.locomotion.TargetYawAngle
	c.refreshViewRelativeTargetYawAngle()
}

func (c *Character) refreshViewRelativeTargetYawAngle() {
	c.locomotion.ViewRelativeTargetYawAngle = game.NormalizeAngle(c.view.Rotation.Yaw - c.locomotion.TargetYawAngle)
}

func (c *Character) setActorYaw(yaw float32) {
	rot := c.movement.Rotation()
	rot.Yaw = game.NormalizeAngle(yaw)
	c.movement.SetRotation(rot)
	c.RefreshLocomotionLocationAndRotation()
	c.dbg.Notify(DebugModeRotation, true, "yaw=%.2f target=%.2f smooth=%.2f", rot.Yaw, c.locomotion.TargetYawAngle, c.locomotion.SmoothTargetYawAngle)
}
