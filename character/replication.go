package character

import (
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

// ReplicatedFields returns the replicated state of the character.
func (c *Character) ReplicatedFields() packet.Fields {
	return packet.Fields{
		DesiredAiming:       c.desiredAiming,
		DesiredRotationMode: c.desiredRotationMode,
		DesiredStance:       c.desiredStance,
		DesiredGait:         c.desiredGait,
		ViewMode:            c.viewMode,
		OverlayMode:         c.overlayMode,

		LocomotionMode:   c.locomotionMode,
		RotationMode:     c.rotationMode,
		Stance:           c.stance,
		Gait:             c.gait,
		LocomotionAction: c.locomotionAction,

		ViewRotation: c.replicatedViewRotation,
	}
}

// ApplyFields applies replicated state received from the authority.
func (c *Character) ApplyFields(update *packet.FieldUpdate) {
	f := update.Fields
	m := update.Mask
	if m.Has(packet.FieldDesiredAiming) {
		c.setDesiredAiming(f.DesiredAiming)
	}
	if m.Has(packet.FieldDesiredRotationMode) {
		c.setDesiredRotationMode(f.DesiredRotationMode)
	}
	if m.Has(packet.FieldDesiredStance) {
		c.setDesiredStance(f.DesiredStance)
	}
	if m.Has(packet.FieldDesiredGait) {
		c.setDesiredGait(f.DesiredGait)
	}
	if m.Has(packet.FieldViewMode) {
		c.setViewMode(f.ViewMode)
	}
	if m.Has(packet.FieldOverlayMode) {
		c.setOverlayMode(f.OverlayMode)
	}
	if m.Has(packet.FieldLocomotionMode) {
		c.setLocomotionMode(f.LocomotionMode)
	}
	if m.Has(packet.FieldRotationMode) {
		c.setRotationMode(f.RotationMode)
	}
	if m.Has(packet.FieldStance) {
		c.setStance(f.Stance)
	}
	if m.Has(packet.FieldGait) {
		c.setGait(f.Gait)
	}
	// Actions start through their own broadcasts. The field only ends an action the authority
	// stopped without one, such as after a teleport.
	if m.Has(packet.FieldLocomotionAction) && f.LocomotionAction == game.LocomotionActionNone {
		c.StopActions()
	}
	if m.Has(packet.FieldViewRotation) {
		c.replicatedViewRotation = f.ViewRotation
		if c.role == RoleSimulatedProxy {
			c.CorrectViewNetworkSmoothing(f.ViewRotation, false)
		}
	}
}

// HandlePacket handles a packet addressed to the character. It returns false if the packet is
// not accepted in the role of the character.
func (c *Character) HandlePacket(pk packet.Packet) bool {
	fromOwner := c.role == RoleAuthority && c.remotelyControlled
	fromServer := c.role < RoleAuthority

	switch pk := pk.(type) {
	case *packet.Move:
		if !fromOwner && c.role != RoleSimulatedProxy {
			return false
		}
		return c.handleMove(pk)
	case *packet.Correction:
		if c.role != RoleAutonomousProxy {
			return false
		}
		c.applyMove(pk.Location, pk.Velocity, pk.Rotation, pk.MovementMode)
		c.dbg.Notify(DebugModeNetwork, true, "corrected to %v", pk.Location)
	case *packet.ViewRotation:
		if !fromOwner || !pk.Rotation.Finite() {
			return false
		}
		c.replicatedViewRotation = pk.Rotation.Normalize()
	case *packet.Intent:
		if !fromOwner && c.role != RoleAutonomousProxy {
			return false
		}
		return c.applyIntent(pk)
	case *packet.StartMantlingRequest:
		if !fromOwner {
			return false
		}
		if pk.InAir {
			c.StartMantlingInAir()
		} else {
			c.StartMantlingGrounded()
		}
	case *packet.StartRagdollingRequest:
		if !fromOwner {
			return false
		}
		c.StartRagdolling()
	case *packet.StopRagdollingRequest:
		if !fromOwner {
			return false
		}
		c.StopRagdolling()
	case *packet.StartRollingRequest:
		if !fromOwner {
			return false
		}
		if !(pk.PlayRate > 0) || !game.Finite(pk.PlayRate, pk.InitialYawAngle, pk.TargetYawAngle) {
			return false
		}
		// The owner only picks the direction and speed of the roll. The montage is always the
		// one the authority selects.
		montage := c.policy.SelectRollMontage(c)
		if c.policy.IsRollingAllowedToStart(c, montage) {
			playRate := c.settings.Rolling.ClampPlayRate(pk.PlayRate)
			c.network.Send(packet.TargetMulticast, &packet.StartRolling{
				Montage: montage, PlayRate: playRate, InitialYawAngle: pk.InitialYawAngle, TargetYawAngle: pk.TargetYawAngle,
			})
			c.rolling.Start(montage, playRate, pk.InitialYawAngle, pk.TargetYawAngle)
		}
	case *packet.StartMantling:
		if !fromServer {
			return false
		}
		c.mantling.Start(pk.Parameters)
	case *packet.StartRagdolling:
		if !fromServer {
			return false
		}
		c.ragdolling.Start()
	case *packet.StopRagdolling:
		if !fromServer {
			return false
		}
		c.ragdolling.Stop()
	case *packet.StartRolling:
		if !fromServer {
			return false
		}
		c.rolling.Start(pk.Montage, pk.PlayRate, pk.InitialYawAngle, pk.TargetYawAngle)
	case *packet.RagdollTargetLocation:
		if c.OwnsMovement() || !game.FiniteVec3(pk.Location) {
			return false
		}
		c.ragdolling.SetTargetLocation(pk.Location)
		if fromOwner {
			c.network.Send(packet.TargetOthers, pk)
		}
	case *packet.Jumped:
		if !fromServer || c.locallyControlled {
			return false
		}
		c.jumpedNetworked()
	case *packet.FieldUpdate:
		if !fromServer {
			return false
		}
		c.ApplyFields(pk)
	default:
		return false
	}
	return true
}

func (c *Character) handleMove(pk *packet.Move) bool {
	if !game.FiniteVec3(pk.Location) || !game.FiniteVec3(pk.Velocity) || !pk.Rotation.Finite() ||
		!game.FiniteVec3(pk.InputDirection) || !game.Finite(pk.DesiredVelocityYawAngle) {
		if c.role == RoleAuthority {
			c.sendCorrection()
		}
		return false
	}
	if c.locomotionAction == game.LocomotionActionMantling || c.locomotionAction == game.LocomotionActionRagdolling {
		// The action drives the actor on every instance.
		return true
	}
	if c.role == RoleAuthority && (pk.MovementMode == game.MovementModeNone || pk.MovementMode == game.MovementModeCustom) {
		// Those modes are only entered through actions the authority starts.
		c.sendCorrection()
		return false
	}
	c.inputDirection = pk.InputDirection
	c.desiredVelocityYawAngle = pk.DesiredVelocityYawAngle
	c.applyMove(pk.Location, pk.Velocity, pk.Rotation, pk.MovementMode)
	if pk.Jumped && c.role == RoleAuthority {
		c.OnJumped()
	}
	return true
}

// replicateMovement sends the movement of the character at the end of a tick: the owner sends
// it to the authority, which forwards it to every other observer.
func (c *Character) replicateMovement() {
	var target packet.Target
	switch c.role {
	case RoleAutonomousProxy:
		target = packet.TargetServer
	case RoleAuthority:
		target = packet.TargetOthers
	default:
		return
	}
	c.network.Send(target, &packet.Move{
		Location:                c.movement.Location(),
		Velocity:                c.movement.Velocity(),
		Rotation:                c.movement.Rotation(),
		MovementMode:            c.movement.MovementMode(),
		InputDirection:          c.inputDirection,
		DesiredVelocityYawAngle: c.desiredVelocityYawAngle,
		Jumped:                  c.jumped,
	})
	c.jumped = false
}
