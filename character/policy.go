package character

import "github.com/oomph-ac/locomotion/game"

// Policy holds the decisions an integrator may want to change: which actions may start and which
// montages and settings they use.
type Policy interface {
	IsMantlingAllowedToStart(c *Character) bool
	SelectMantlingSettings(c *Character, mantlingType game.MantlingType) game.MantlingTypeSettings
	IsRollingAllowedToStart(c *Character, montage game.Montage) bool
	SelectRollMontage(c *Character) game.Montage
	IsRagdollingAllowedToStart(c *Character) bool
	SelectGetUpMontage(c *Character, facedUpward bool) game.Montage
}

// DefaultPolicy resolves every decision from the character settings.
type DefaultPolicy struct{}

func (DefaultPolicy) IsMantlingAllowedToStart(c *Character) bool {
	return c.Alive() && c.LocomotionAction() == game.LocomotionActionNone
}

func (DefaultPolicy) SelectMantlingSettings(c *Character, mantlingType game.MantlingType) game.MantlingTypeSettings {
	return c.Settings().Mantling.Type(mantlingType)
}

func (DefaultPolicy) IsRollingAllowedToStart(c *Character, montage game.Montage) bool {
	return c.Alive() && montage.Valid() && c.LocomotionAction() == game.LocomotionActionNone
}

func (DefaultPolicy) SelectRollMontage(c *Character) game.Montage {
	return c.Settings().Rolling.Montage
}

func (DefaultPolicy) IsRagdollingAllowedToStart(c *Character) bool {
	return c.LocomotionAction() == game.LocomotionActionNone
}

func (DefaultPolicy) SelectGetUpMontage(c *Character, facedUpward bool) game.Montage {
	if facedUpward {
		return c.Settings().Ragdolling.GetUpBack
	}
	return c.Settings().Ragdolling.GetUpFront
}
