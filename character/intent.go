package character

import (
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

func (c *Character) DesiredAiming() bool {
	return c.desiredAiming
}

func (c *Character) DesiredRotationMode() game.RotationMode {
	return c.desiredRotationMode
}

func (c *Character) DesiredStance() game.Stance {
	return c.desiredStance
}

func (c *Character) DesiredGait() game.Gait {
	return c.desiredGait
}

func (c *Character) ViewMode() game.ViewMode {
	return c.viewMode
}

func (c *Character) OverlayMode() game.OverlayMode {
	return c.overlayMode
}

// SetDesiredAiming sets whether the controller wants to aim. The value applies locally at once
// and, if sendRemote is set, is sent to the other side of the owning connection. It does
// nothing on simulated proxies.
func (c *Character) SetDesiredAiming(aiming bool, sendRemote bool) {
	if c.role < RoleAutonomousProxy || !c.setDesiredAiming(aiming) {
		return
	}
	var v uint8
	if aiming {
		v = 1
	}
	c.sendIntent(packet.IntentDesiredAiming, v, sendRemote)
}

func (c *Character) SetDesiredRotationMode(mode game.RotationMode, sendRemote bool) {
	if c.role < RoleAutonomousProxy || !c.setDesiredRotationMode(mode) {
		return
	}
	c.sendIntent(packet.IntentDesiredRotationMode, uint8(mode), sendRemote)
}

// SetDesiredStance sets the stance the controller wants. The authority crouches or uncrouches
// the capsule right away when possible.
func (c *Character) SetDesiredStance(stance game.Stance, sendRemote bool) {
	if c.role < RoleAutonomousProxy || !c.setDesiredStance(stance) {
		return
	}
	c.sendIntent(packet.IntentDesiredStance, uint8(stance), sendRemote)
}

func (c *Character) SetDesiredGait(gait game.Gait, sendRemote bool) {
	if c.role < RoleAutonomousProxy || !c.setDesiredGait(gait) {
		return
	}
	c.sendIntent(packet.IntentDesiredGait, uint8(gait), sendRemote)
}

func (c *Character) SetViewMode(mode game.ViewMode, sendRemote bool) {
	if c.role < RoleAutonomousProxy || !c.setViewMode(mode) {
		return
	}
	c.sendIntent(packet.IntentViewMode, uint8(mode), sendRemote)
}

func (c *Character) SetOverlayMode(mode game.OverlayMode, sendRemote bool) {
	if c.role < RoleAutonomousProxy || !c.setOverlayMode(mode) {
		return
	}
	c.sendIntent(packet.IntentOverlayMode, uint8(mode), sendRemote)
}

// sendIntent sends a desired value to the authority, or from the authority to a remote owner.
func (c *Character) sendIntent(kind packet.IntentKind, value uint8, sendRemote bool) {
	if !sendRemote {
		return
	}
	switch {
	case c.role == RoleAutonomousProxy:
		c.network.Send(packet.TargetServer, &packet.Intent{Kind: kind, Value: value})
	case c.role == RoleAuthority && c.remotelyControlled:
		c.network.Send(packet.TargetOwner, &packet.Intent{Kind: kind, Value: value})
	}
}

// applyIntent applies an Intent received from the other side of the owning connection.
func (c *Character) applyIntent(pk *packet.Intent) bool {
	switch pk.Kind {
	case packet.IntentDesiredAiming:
		c.setDesiredAiming(pk.Value != 0)
	case packet.IntentDesiredRotationMode:
		if game.RotationMode(pk.Value) > game.RotationModeAiming {
			return false
		}
		c.setDesiredRotationMode(game.RotationMode(pk.Value))
	case packet.IntentDesiredStance:
		if game.Stance(pk.Value) > game.StanceCrouching {
			return false
		}
		c.setDesiredStance(game.Stance(pk.Value))
	case packet.IntentDesiredGait:
		if game.Gait(pk.Value) > game.GaitSprinting {
			return false
		}
		c.setDesiredGait(game.Gait(pk.Value))
	case packet.IntentViewMode:
		if game.ViewMode(pk.Value) > game.ViewModeFirstPerson {
			return false
		}
		c.setViewMode(game.ViewMode(pk.Value))
	case packet.IntentOverlayMode:
		if game.OverlayMode(pk.Value) > game.OverlayModeBarrel {
			return false
		}
		c.setOverlayMode(game.OverlayMode(pk.Value))
	default:
		return false
	}
	return true
}

func (c *Character) setDesiredAiming(aiming bool) bool {
	if c.desiredAiming == aiming {
		return false
	}
	prev := c.desiredAiming
	c.desiredAiming = aiming
	c.handler.HandleDesiredAimingChanged(prev)
	return true
}

func (c *Character) setDesiredRotationMode(mode game.RotationMode) bool {
	if c.desiredRotationMode == mode {
		return false
	}
	prev := c.desiredRotationMode
	c.desiredRotationMode = mode
	c.handler.HandleDesiredRotationModeChanged(prev)
	return true
}

func (c *Character) setDesiredStance(stance game.Stance) bool {
	if c.desiredStance == stance {
		return false
	}
	prev := c.desiredStance
	c.desiredStance = stance
	c.handler.HandleDesiredStanceChanged(prev)
	c.ApplyDesiredStance()
	return true
}

func (c *Character) setDesiredGait(gait game.Gait) bool {
	if c.desiredGait == gait {
		return false
	}
	prev := c.desiredGait
	c.desiredGait = gait
	c.handler.HandleDesiredGaitChanged(prev)
	return true
}

func (c *Character) setViewMode(mode game.ViewMode) bool {
	if c.viewMode == mode {
		return false
	}
	prev := c.viewMode
	c.viewMode = mode
	c.handler.HandleViewModeChanged(prev)
	return true
}

func (c *Character) setOverlayMode(mode game.OverlayMode) bool {
	if c.overlayMode == mode {
		return false
	}
	prev := c.overlayMode
	c.overlayMode = mode
	c.handler.HandleOverlayModeChanged(prev)
	return true
}
