package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
)

// MantlingComponent climbs the character over ledges.
type MantlingComponent interface {
	// TryStart searches for a ledge and starts mantling over it. On the authority it returns
	// true if mantling started, on the owner it returns true if a request was sent.
	TryStart(inAir bool) bool
	// Start plays back a mantle the authority decided on.
	Start(params game.MantlingParameters)
	// Stop ends the current mantle. It does nothing if the character is not mantling.
	Stop(stopMontage bool)
	State() MantlingState
	Tick(dt float32)
}

// RagdollingComponent hands the character over to physics and back.
type RagdollingComponent interface {
	TryStart() bool
	Start()
	// TryStop starts getting up if the ragdoll has settled.
	TryStop() bool
	Stop()
	AllowedToStop() bool
	// Finalize returns control to animation and clears the locomotion action.
	Finalize()
	SetTargetLocation(location mgl32.Vec3)
	// ForceStop ends the ragdoll immediately without getting up.
	ForceStop()
	State() RagdollingState
	Tick(dt float32)
}

// RollingComponent plays a short roll that rotates the character toward a yaw.
type RollingComponent interface {
	TryStart(playRate, targetYawAngle float32) bool
	Start(montage game.Montage, playRate, initialYawAngle, targetYawAngle float32)
	Stop()
	State() RollingState
	Tick(dt float32)
}

func (c *Character) SetMantling(m MantlingComponent) {
	c.mantling = m
}

func (c *Character) Mantling() MantlingComponent {
	return c.mantling
}

func (c *Character) SetRagdolling(r RagdollingComponent) {
	c.ragdolling = r
}

func (c *Character) Ragdolling() RagdollingComponent {
	return c.ragdolling
}

func (c *Character) SetRolling(r RollingComponent) {
	c.rolling = r
}

func (c *Character) Rolling() RollingComponent {
	return c.rolling
}

// StartMantlingGrounded tries to mantle using the grounded trace settings.
func (c *Character) StartMantlingGrounded() bool {
	return c.locomotionMode == game.LocomotionModeGrounded && c.mantling.TryStart(false)
}

// StartMantlingInAir tries to mantle using the in-air trace settings.
func (c *Character) StartMantlingInAir() bool {
	return c.locomotionMode == game.LocomotionModeInAir && c.mantling.TryStart(true)
}

// StopMantling stops mantling. Calling it while not mantling does nothing.
func (c *Character) StopMantling(stopMontage bool) {
	c.mantling.Stop(stopMontage)
}

func (c *Character) StartRagdolling() bool {
	return c.ragdolling.TryStart()
}

// StopRagdolling starts getting up. It returns false and keeps ragdolling if the ragdoll has
// not settled yet.
func (c *Character) StopRagdolling() bool {
	return c.ragdolling.TryStop()
}

func (c *Character) FinalizeRagdolling() {
	c.ragdolling.Finalize()
}

func (c *Character) SetRagdollTargetLocation(location mgl32.Vec3) {
	c.ragdolling.SetTargetLocation(location)
}

func (c *Character) IsRagdollingAllowedToStop() bool {
	return c.ragdolling.AllowedToStop()
}

// StartRolling rolls toward the input direction, or forward without input.
func (c *Character) StartRolling(playRate float32) bool {
	yaw := c.movement.Rotation().Yaw
	if c.settings.Rolling.RotateToInputOnStart && c.locomotion.HasInput {
		yaw = c.locomotion.InputYawAngle
	}
	return c.rolling.TryStart(playRate, yaw)
}

// StartRollingTowards rolls toward an explicit yaw.
func (c *Character) StartRollingTowards(playRate, targetYawAngle float32) bool {
	return c.rolling.TryStart(playRate, targetYawAngle)
}

func (c *Character) IsMantlingAllowedToStart() bool {
	return c.policy.IsMantlingAllowedToStart(c)
}

func (c *Character) IsRollingAllowedToStart(montage game.Montage) bool {
	return c.policy.IsRollingAllowedToStart(c, montage)
}

func (c *Character) IsRagdollingAllowedToStart() bool {
	return c.policy.IsRagdollingAllowedToStart(c)
}

// StopActions force stops whatever action is active. It is safe to call at any time.
func (c *Character) StopActions() {
	c.mantling.Stop(true)
	c.rolling.Stop()
	c.ragdolling.ForceStop()
}
