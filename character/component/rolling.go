package component

import (
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

// RollingComponent plays a roll montage and turns the character from its initial yaw to the
// target yaw along the rolling rotation curve.
type RollingComponent struct {
	mChar *character.Character
	state character.RollingState
}

func NewRollingComponent(c *character.Character) *RollingComponent {
	return &RollingComponent{mChar: c}
}

func (r *RollingComponent) State() character.RollingState {
	return r.state
}

func (r *RollingComponent) TryStart(playRate, targetYawAngle float32) bool {
	c := r.mChar
	if c.Role() == character.RoleSimulatedProxy || !game.Finite(targetYawAngle) {
		return false
	}
	playRate = c.Settings().Rolling.ClampPlayRate(playRate)
	montage := c.Policy().SelectRollMontage(c)
	if !c.Policy().IsRollingAllowedToStart(c, montage) {
		return false
	}
	initialYawAngle := c.Movement().Rotation().Yaw

	if c.Role() == character.RoleAutonomousProxy {
		c.Send(packet.TargetServer, &packet.StartRollingRequest{
			Montage: montage, PlayRate: playRate, InitialYawAngle: initialYawAngle, TargetYawAngle: targetYawAngle,
		})
		return true
	}
	c.Send(packet.TargetMulticast, &packet.StartRolling{
		Montage: montage, PlayRate: playRate, InitialYawAngle: initialYawAngle, TargetYawAngle: targetYawAngle,
	})
	r.Start(montage, playRate, initialYawAngle, targetYawAngle)
	return true
}

func (r *RollingComponent) Start(montage game.Montage, playRate, initialYawAngle, targetYawAngle float32) {
	if !montage.Valid() || !game.Finite(initialYawAngle, targetYawAngle) {
		return
	}
	c := r.mChar
	c.StopActions()
	playRate = c.Settings().Rolling.ClampPlayRate(playRate)

	c.Animation().PlayMontage(montage, playRate, 0)
	r.state = character.RollingState{
		Montage:         montage,
		PlayRate:        playRate,
		InitialYawAngle: game.NormalizeAngle(initialYawAngle),
		TargetYawAngle:  game.NormalizeAngle(targetYawAngle),
	}
	c.RefreshRotationInstant(r.state.InitialYawAngle)
	c.SetLocomotionAction(game.LocomotionActionRolling)
	c.Dbg().Notify(character.DebugModeRolling, true, "rolling from %.2f to %.2f", r.state.InitialYawAngle, r.state.TargetYawAngle)
}

func (r *RollingComponent) Tick(dt float32) {
	c := r.mChar
	if c.LocomotionAction() != game.LocomotionActionRolling {
		return
	}
	r.state.Elapsed += dt
	progress := game.Clamp01(r.state.Elapsed / r.state.Montage.Duration(r.state.PlayRate))

	delta := game.NormalizeAngle(r.state.TargetYawAngle - r.state.InitialYawAngle)
	c.RefreshRotationInstant(r.state.InitialYawAngle + delta*c.Settings().Rolling.RotationCurve.Eval(progress))
	if progress >= 1 {
		r.Stop()
	}
}

func (r *RollingComponent) Stop() {
	c := r.mChar
	if c.LocomotionAction() != game.LocomotionActionRolling {
		return
	}
	c.Animation().StopMontage(r.state.Montage, game.MontageBlendOutTime)
	r.state = character.RollingState{}
	c.SetLocomotionAction(game.LocomotionActionNone)
	c.Dbg().Notify(character.DebugModeRolling, true, "rolling ended")
}
