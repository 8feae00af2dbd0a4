package character

import "github.com/oomph-ac/locomotion/game"

// Handler receives notifications about state changes of a character. Every method receives the
// value before the change, the new value is available on the character.
type Handler interface {
	HandleLocomotionModeChanged(prev game.LocomotionMode)
	HandleRotationModeChanged(prev game.RotationMode)
	HandleStanceChanged(prev game.Stance)
	HandleGaitChanged(prev game.Gait)
	HandleLocomotionActionChanged(prev game.LocomotionAction)

	HandleDesiredAimingChanged(prev bool)
	HandleDesiredRotationModeChanged(prev game.RotationMode)
	HandleDesiredStanceChanged(prev game.Stance)
	HandleDesiredGaitChanged(prev game.Gait)
	HandleViewModeChanged(prev game.ViewMode)
	HandleOverlayModeChanged(prev game.OverlayMode)

	HandleMantlingStarted(params game.MantlingParameters)
	HandleMantlingEnded()
	HandleRagdollingStarted()
	HandleRagdollingEnded()
	HandleJumped()
}

// NopHandler implements Handler without doing anything. Embed it to only handle some events.
type NopHandler struct{}

func (NopHandler) HandleLocomotionModeChanged(game.LocomotionMode)     {}
func (NopHandler) HandleRotationModeChanged(game.RotationMode)         {}
func (NopHandler) HandleStanceChanged(game.Stance)                     {}
func (NopHandler) HandleGaitChanged(game.Gait)                         {}
func (NopHandler) HandleLocomotionActionChanged(game.LocomotionAction) {}
func (NopHandler) HandleDesiredAimingChanged(bool)                     {}
func (NopHandler) HandleDesiredRotationModeChanged(game.RotationMode)  {}
func (NopHandler) HandleDesiredStanceChanged(game.Stance)              {}
func (NopHandler) HandleDesiredGaitChanged(game.Gait)                  {}
func (NopHandler) HandleViewModeChanged(game.ViewMode)                 {}
func (NopHandler) HandleOverlayModeChanged(game.OverlayMode)           {}
func (NopHandler) HandleMantlingStarted(game.MantlingParameters)       {}
func (NopHandler) HandleMantlingEnded()                                {}
func (NopHandler) HandleRagdollingStarted()                            {}
func (NopHandler) HandleRagdollingEnded()                              {}
func (NopHandler) HandleJumped()                                       {}
