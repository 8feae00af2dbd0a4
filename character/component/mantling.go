package component

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
)

// maxFloorDistance keeps traces just above the floor the character stands on.
const maxFloorDistance float32 = 2.4

// MantlingComponent finds ledges in front of the character and climbs onto them, moving the actor
// along the mantling curves while the mantling montage plays.
type MantlingComponent struct {
	mChar *character.Character
	state character.MantlingState
}

func NewMantlingComponent(c *character.Character) *MantlingComponent {
	return &MantlingComponent{mChar: c}
}

func (m *MantlingComponent) State() character.MantlingState {
	return m.state
}

func (m *MantlingComponent) TryStart(inAir bool) bool {
	c := m.mChar
	if c.Role() == character.RoleSimulatedProxy || !c.Policy().IsMantlingAllowedToStart(c) {
		return false
	}
	if c.Role() == character.RoleAutonomousProxy {
		c.Send(packet.TargetServer, &packet.StartMantlingRequest{InAir: inAir})
		return true
	}

	params, ok := m.findLedge(inAir)
	if !ok {
		return false
	}
	c.Send(packet.TargetMulticast, &packet.StartMantling{Parameters: params})
	m.Start(params)
	return true
}

// findLedge traces forward for a wall the character cannot walk on, then down onto its top, and
// checks that the capsule fits there.
func (m *MantlingComponent) findLedge(inAir bool) (game.MantlingParameters, bool) {
	c := m.mChar
	s := c.Settings().Mantling
	trace := s.GroundedTrace
	if inAir {
		trace = s.InAirTrace
	}
	mov, w := c.Movement(), c.World()
	ls := c.LocomotionState()

	actorLocation := mov.Location()
	actorYaw := game.NormalizeAngle(mov.Rotation().Yaw)

	var forwardYaw float32
	switch {
	case ls.HasSpeed && ls.HasInput:
		forwardYaw = ls.VelocityYawAngle + game.Clamp(game.NormalizeAngle(ls.InputYawAngle-ls.VelocityYawAngle), -s.MaxReachAngle, s.MaxReachAngle)
	case ls.HasSpeed:
		forwardYaw = ls.VelocityYawAngle
	case ls.HasInput:
		forwardYaw = ls.InputYawAngle
	default:
		forwardYaw = actorYaw
	}
	forwardDelta := game.NormalizeAngle(forwardYaw - actorYaw)
	if math32.Abs(forwardDelta) > s.TraceAngleThreshold {
		c.Dbg().Notify(character.DebugModeMantling, true, "trace angle %.2f above threshold", forwardDelta)
		return game.MantlingParameters{}, false
	}
	forward := game.AngleToDirectionXY(actorYaw + game.Clamp(forwardDelta, -s.MaxReachAngle, s.MaxReachAngle))

	radius, halfHeight := mov.Radius(), mov.HalfHeight()
	bottom := actorLocation.Sub(mgl32.Vec3{0, 0, halfHeight})
	traceRadius := radius - 1
	traceHalfHeight := (trace.LedgeHeightMax - trace.LedgeHeightMin) / 2

	forwardStart := bottom.Sub(forward.Mul(radius))
	forwardStart[2] += (trace.LedgeHeightMin+trace.LedgeHeightMax)/2 - maxFloorDistance
	forwardEnd := forwardStart.Add(forward.Mul(radius + trace.ReachDistance + 1))

	wallHit, ok := w.SweepCapsule(forwardStart, forwardEnd, traceRadius, traceHalfHeight)
	if !ok || wallHit.StartPenetrating || wallHit.Normal.Z() >= c.Settings().WalkableFloorZ {
		c.Dbg().Notify(character.DebugModeMantling, true, "no wall in reach (hit=%v)", ok)
		return game.MantlingParameters{}, false
	}
	primitive, ok := w.Primitive(wallHit.Primitive)
	if !ok {
		primitive = character.Primitive{ID: wallHit.Primitive, Transform: game.IdentityTransform()}
	}
	if primitive.Velocity.Len() > s.TargetPrimitiveSpeedThreshold {
		c.Dbg().Notify(character.DebugModeMantling, true, "%s moves too fast", primitive.ID)
		return game.MantlingParameters{}, false
	}

	normal2D := mgl32.Vec3{wallHit.Normal.X(), wallHit.Normal.Y(), 0}
	if normal2D.Len() < game.KindaSmall {
		return game.MantlingParameters{}, false
	}
	normal2D = normal2D.Normalize()

	downEnd := wallHit.ImpactPoint.Sub(normal2D.Mul(trace.TargetLocationOffset))
	downEnd[2] = bottom.Z()
	downStart := downEnd
	downStart[2] += trace.LedgeHeightMax + traceRadius + maxFloorDistance
	downEnd[2] += trace.LedgeHeightMin

	ledgeHit, ok := w.SweepSphere(downStart, downEnd, traceRadius)
	if !ok || ledgeHit.StartPenetrating || ledgeHit.Normal.Z() < c.Settings().WalkableFloorZ {
		c.Dbg().Notify(character.DebugModeMantling, true, "no walkable ledge (hit=%v)", ok)
		return game.MantlingParameters{}, false
	}

	targetLocation := mgl32.Vec3{ledgeHit.Location.X(), ledgeHit.Location.Y(), ledgeHit.ImpactPoint.Z() + maxFloorDistance}
	targetCapsule := targetLocation.Add(mgl32.Vec3{0, 0, halfHeight})
	if w.OverlapCapsule(targetCapsule, radius, halfHeight) {
		c.Dbg().Notify(character.DebugModeMantling, true, "no room on ledge at %v", targetCapsule)
		return game.MantlingParameters{}, false
	}
	startCapsule := targetCapsule.Add(normal2D.Mul(trace.StartLocationOffset))
	if w.OverlapCapsule(startCapsule, radius, halfHeight) {
		c.Dbg().Notify(character.DebugModeMantling, true, "path blocked at %v", startCapsule)
		return game.MantlingParameters{}, false
	}

	height := targetLocation.Z() - bottom.Z()
	mantlingType := game.MantlingTypeLow
	switch {
	case c.LocomotionMode() != game.LocomotionModeGrounded:
		mantlingType = game.MantlingTypeInAir
	case height > s.HighHeightThreshold:
		mantlingType = game.MantlingTypeHigh
	}
	typeSettings := c.Policy().SelectMantlingSettings(c, mantlingType)

	target := game.NewTransform(targetCapsule, game.YawRotator(game.DirectionToAngleXY(normal2D.Mul(-1))))
	relative := target.RelativeTo(primitive.Transform)
	return game.MantlingParameters{
		TargetPrimitive:        primitive.ID,
		TargetRelativeLocation: relative.Location,
		TargetRelativeRotation: relative.Rotator(),
		MantlingHeight:         height,
		MantlingType:           mantlingType,
		Montage:                typeSettings.Montage,
		PlayRate:               typeSettings.PlayRate,
		StartTime:              typeSettings.StartTimeCurve.Eval(height),
	}, true
}

// Start plays back a mantle. Instances other than the authority start the montage ahead by the
// one-way latency so they finish at the same time.
func (m *MantlingComponent) Start(params game.MantlingParameters) {
	c := m.mChar
	if !params.Montage.Valid() {
		return
	}
	c.StopActions()

	if params.PlayRate <= 0 {
		params.PlayRate = 1
	}
	if c.Role() != character.RoleAuthority {
		params.StartTime += float32(c.Latency().Seconds()) * params.PlayRate
	}
	params.StartTime = game.Clamp(params.StartTime, 0, params.Montage.Length)

	mov := c.Movement()
	primitive := m.primitiveTransform(params.TargetPrimitive)
	m.state = character.MantlingState{
		Parameters:    params,
		Settings:      c.Policy().SelectMantlingSettings(c, params.MantlingType),
		RelativeStart: game.NewTransform(mov.Location(), mov.Rotation()).RelativeTo(primitive),
		Time:          params.StartTime,
	}

	mov.SetVelocity(mgl32.Vec3{})
	mov.SetMovementMode(game.MovementModeCustom)
	mov.SetMovementModeLocked(true)
	c.Animation().PlayMontage(params.Montage, params.PlayRate, params.StartTime)

	c.SetLocomotionAction(game.LocomotionActionMantling)
	c.Dbg().Notify(character.DebugModeMantling, true, "started %v mantle (height=%.2f start=%.2f)", params.MantlingType, params.MantlingHeight, params.StartTime)
	c.Handler().HandleMantlingStarted(params)
}

func (m *MantlingComponent) primitiveTransform(id string) game.Transform {
	if p, ok := m.mChar.World().Primitive(id); ok {
		return p.Transform
	}
	return game.IdentityTransform()
}

func (m *MantlingComponent) Tick(dt float32) {
	c := m.mChar
	if c.LocomotionAction() != game.LocomotionActionMantling {
		return
	}
	p := m.state.Parameters
	m.state.Time += dt * p.PlayRate
	if remaining := p.Montage.Length - p.StartTime; remaining > game.SmallNumber {
		m.state.Progress = game.Clamp01((m.state.Time - p.StartTime) / remaining)
	} else {
		m.state.Progress = 1
	}

	primitive := m.primitiveTransform(p.TargetPrimitive)
	start := m.state.RelativeStart.Compose(primitive)
	target := p.TargetRelativeTransform().Compose(primitive)

	horizontal := m.state.Settings.HorizontalCorrectionCurve.Eval(m.state.Progress)
	vertical := m.state.Settings.VerticalCorrectionCurve.Eval(m.state.Progress)
	rotation := m.state.Settings.InterpolationCurve.Eval(m.state.Progress)

	location := mgl32.Vec3{
		game.Lerp(start.Location.X(), target.Location.X(), horizontal),
		game.Lerp(start.Location.Y(), target.Location.Y(), horizontal),
		game.Lerp(start.Location.Z(), target.Location.Z(), vertical),
	}
	mov := c.Movement()
	mov.SetLocation(location)
	mov.SetVelocity(mgl32.Vec3{})
	mov.SetRotation(game.LerpRotator(start.Rotator(), target.Rotator(), rotation))
	c.RefreshLocomotionLocationAndRotation()
	c.RefreshTargetYawAngle(c.LocomotionState().Rotation.Yaw)

	c.Dbg().Notify(character.DebugModeMantling, true, "progress=%.2f location=%v", m.state.Progress, location)
	if m.state.Progress >= 1 {
		m.Stop(false)
	}
}

func (m *MantlingComponent) Stop(stopMontage bool) {
	c := m.mChar
	if c.LocomotionAction() != game.LocomotionActionMantling {
		return
	}
	if stopMontage {
		c.Animation().StopMontage(m.state.Parameters.Montage, game.MontageBlendOutTime)
	}
	m.state = character.MantlingState{}

	c.SetLocomotionAction(game.LocomotionActionNone)
	mov := c.Movement()
	mov.SetMovementModeLocked(false)
	prev := mov.MovementMode()
	mov.SetMovementMode(game.MovementModeWalking)
	c.OnMovementModeChanged(prev)

	c.Dbg().Notify(character.DebugModeMantling, true, "mantling ended")
	c.Handler().HandleMantlingEnded()
}
