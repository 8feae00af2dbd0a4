package character

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

func (c *Character) refreshView(dt float32) {
	if c.movementBase.HasRelativeRotation {
		delta := c.movementBase.DeltaRotation
		c.view.Smoothing.Initial = c.view.Smoothing.Initial.Add(delta).Normalize()
		c.view.Smoothing.Current = c.view.Smoothing.Current.Add(delta).Normalize()
		c.view.Rotation = c.view.Rotation.Add(delta).Normalize()
	}
	c.view.PreviousYawAngle = c.view.Rotation.Yaw

	switch {
	case c.locallyControlled:
		c.replicatedViewRotation = c.controlRotation
		c.snapViewSmoothing(c.controlRotation)
		c.sendViewRotation()
	case c.role == RoleSimulatedProxy:
		c.RefreshViewNetworkSmoothing(dt)
	default:
		c.snapViewSmoothing(c.replicatedViewRotation)
	}

	c.view.Rotation = c.view.Smoothing.Current
	c.view.YawSpeed = math32.Abs(game.NormalizeAngle(c.view.Rotation.Yaw-c.view.PreviousYawAngle)) / dt
	c.dbg.Notify(DebugModeView, true, "view=%v yaw speed=%.2f", c.view.Rotation, c.view.YawSpeed)
}

func (c *Character) snapViewSmoothing(rotation game.Rotator) {
	c.view.Smoothing = ViewSmoothing{Initial: rotation, Target: rotation, Current: rotation}
}

// sendViewRotation sends the raw view rotation of an autonomous proxy when it changed.
func (c *Character) sendViewRotation() {
	if c.role != RoleAutonomousProxy || (c.viewRotationSent && c.sentViewRotation.Equals(c.controlRotation)) {
		return
	}
	c.sentViewRotation, c.viewRotationSent = c.controlRotation, true
	c.network.Send(packet.TargetServer, &packet.ViewRotation{Rotation: c.controlRotation})
}

// RefreshViewNetworkSmoothing blends the displayed view rotation toward the last received one.
// The blend goes from the rotation displayed when the sample arrived to the sample over the
// smoothing window, and never turns faster than the configured maximum speed.
func (c *Character) RefreshViewNetworkSmoothing(dt float32) {
	s := &c.view.Smoothing
	vs := c.settings.View
	if !vs.NetworkSmoothingEnabled || vs.NetworkSmoothingDuration <= game.SmallNumber {
		c.snapViewSmoothing(s.Target)
		return
	}
	s.Elapsed = min(s.Elapsed+dt, vs.NetworkSmoothingDuration)
	alpha := s.Elapsed / vs.NetworkSmoothingDuration
	s.Current = game.StepRotator(s.Current, game.LerpRotator(s.Initial, s.Target, alpha), vs.MaxSmoothingSpeed*dt)
}

// CorrectViewNetworkSmoothing re-anchors the smoothing window on a new view rotation sample.
// If relative is set the sample is relative to the movement base.
func (c *Character) CorrectViewNetworkSmoothing(target game.Rotator, relative bool) {
	if relative && c.movementBase.HasRelativeRotation {
		target = game.RotatorFromQuat(c.movementBase.Transform.Quat().Mul(target.Quat()))
	}
	target = target.Normalize()
	if !c.settings.View.NetworkSmoothingEnabled {
		c.snapViewSmoothing(target)
		return
	}
	s := &c.view.Smoothing
	s.Initial = s.Current
	s.Target = target
	s.Elapsed = 0
	c.dbg.Notify(DebugModeView, true, "view smoothing corrected to %v from %v", target, s.Current)
}
