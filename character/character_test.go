package character_test

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/character/component"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/oomph-ac/locomotion/world"
)

const dt = float32(1) / 60

type sentPacket struct {
	target packet.Target
	pk     packet.Packet
}

type mockNetwork struct {
	sent    []sentPacket
	latency time.Duration
}

func (n *mockNetwork) Send(target packet.Target, pk packet.Packet) {
	n.sent = append(n.sent, sentPacket{target: target, pk: pk})
}

func (n *mockNetwork) Latency() time.Duration {
	return n.latency
}

// find returns the last packet sent of the same type as pk.
func find[T packet.Packet](n *mockNetwork) (T, packet.Target, bool) {
	for i := len(n.sent) - 1; i >= 0; i-- {
		if pk, ok := n.sent[i].pk.(T); ok {
			return pk, n.sent[i].target, true
		}
	}
	var zero T
	return zero, 0, false
}

type countingHandler struct {
	character.NopHandler
	actionChanges int
	jumps         int
}

func (h *countingHandler) HandleLocomotionActionChanged(game.LocomotionAction) {
	h.actionChanges++
}

func (h *countingHandler) HandleJumped() {
	h.jumps++
}

type testCharacter struct {
	*character.Character
	world *world.BoxWorld
	body  *world.Body
	anim  *world.Animator
	net   *mockNetwork
}

func newTestCharacter(conf character.Config) *testCharacter {
	w := world.New()
	w.AddBox(world.Box{ID: "floor", BBox: cube.Box(-2000, -2000, -10, 2000, 2000, 0)})
	body := world.NewBody(w, mgl32.Vec3{0, 0, 90}, game.Rotator{})
	anim := world.NewAnimator()
	net := &mockNetwork{}

	conf.Movement, conf.Mesh, conf.Animation, conf.World, conf.Network = body, body, anim, w, net
	if conf.Settings.Standing.WalkSpeed == 0 {
		conf.Settings = game.DefaultCharacterSettings()
	}
	c := character.New(conf)
	component.Register(c)
	body.OnModeChange(c.OnMovementModeChanged)
	return &testCharacter{Character: c, world: w, body: body, anim: anim, net: net}
}

// step advances the body and then the character, the way a host does.
func (tc *testCharacter) step(n int) {
	for i := 0; i < n; i++ {
		tc.body.Step(dt)
		tc.anim.Tick(dt)
		tc.Tick(dt)
	}
}

func approxEq(a, b, tolerance float32) bool {
	return math32.Abs(a-b) <= tolerance
}

func TestCrouchedSprintFallsBackToRunning(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, LocallyControlled: true})
	tc.body.SetInput(mgl32.Vec3{1, 0, 0})

	tc.SetDesiredStance(game.StanceCrouching, false)
	tc.SetDesiredGait(game.GaitSprinting, false)
	tc.Tick(dt)

	if tc.Stance() != game.StanceCrouching {
		t.Fatalf("expected the authority to crouch, got %v", tc.Stance())
	}
	if tc.Gait() != game.GaitRunning {
		t.Fatalf("expected a crouched sprint to be limited to running, got %v", tc.Gait())
	}
	if tc.body.MaxSpeed() != tc.Settings().Crouching.RunSpeed {
		t.Fatalf("expected max speed %v, got %v", tc.Settings().Crouching.RunSpeed, tc.body.MaxSpeed())
	}
}

func TestSprintRequiresViewAlignedInput(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, LocallyControlled: true})
	tc.SetDesiredGait(game.GaitSprinting, false)

	tc.body.SetInput(mgl32.Vec3{0, -1, 0})
	tc.Tick(dt)
	if tc.Gait() != game.GaitRunning {
		t.Fatalf("sprinting sideways to the view must not be allowed, got %v", tc.Gait())
	}

	tc.body.SetInput(mgl32.Vec3{1, 0, 0})
	tc.Tick(dt)
	if tc.Gait() != game.GaitSprinting {
		t.Fatalf("expected sprinting toward the view, got %v", tc.Gait())
	}
}

func TestAutonomousProxyPredictsDesiredState(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAutonomousProxy, LocallyControlled: true})

	tc.SetDesiredGait(game.GaitWalking, true)
	if tc.DesiredGait() != game.GaitWalking {
		t.Fatalf("the desired gait must apply locally at once")
	}
	intent, target, ok := find[*packet.Intent](tc.net)
	if !ok || target != packet.TargetServer || intent.Kind != packet.IntentDesiredGait || intent.Value != uint8(game.GaitWalking) {
		t.Fatalf("expected a desired gait intent sent to the server, got %+v (%v, %v)", intent, target, ok)
	}

	sent := len(tc.net.sent)
	tc.SetDesiredGait(game.GaitWalking, true)
	if len(tc.net.sent) != sent {
		t.Fatalf("setting an unchanged value must not send anything")
	}
	if tc.Gait() != game.GaitWalking || tc.Stance() != game.StanceStanding {
		t.Fatalf("actual state must not be predicted by the owner")
	}
}

func TestSimulatedProxyIgnoresDesiredSetters(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleSimulatedProxy})
	tc.SetDesiredAiming(true, true)
	tc.SetOverlayMode(game.OverlayModeRifle, true)

	if tc.DesiredAiming() || tc.OverlayMode() != game.OverlayModeDefault || len(tc.net.sent) != 0 {
		t.Fatalf("a simulated proxy must not change desired state")
	}
}

func TestAuthorityAppliesOwnerIntent(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, RemotelyControlled: true})

	if !tc.HandlePacket(&packet.Intent{Kind: packet.IntentDesiredStance, Value: uint8(game.StanceCrouching)}) {
		t.Fatalf("expected the intent to be accepted")
	}
	if tc.DesiredStance() != game.StanceCrouching || tc.Stance() != game.StanceCrouching {
		t.Fatalf("expected the authority to crouch on a crouch intent")
	}
	if tc.HandlePacket(&packet.Intent{Kind: packet.IntentDesiredGait, Value: 200}) {
		t.Fatalf("an out of range intent must be refused")
	}
}

func TestActionsAreExclusive(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority})
	tc.SetLocomotionAction(game.LocomotionActionRolling)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected starting a second action to panic")
		}
	}()
	tc.SetLocomotionAction(game.LocomotionActionMantling)
}

func TestActionsCannotStartWhileAnotherRuns(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, LocallyControlled: true})
	tc.world.AddBox(world.Box{ID: "ledge", BBox: cube.Box(60, -200, 0, 300, 200, 100)})

	if !tc.StartRollingTowards(1, 0) {
		t.Fatalf("expected the roll to start")
	}
	sent := len(tc.net.sent)
	if tc.StartRagdolling() {
		t.Fatalf("ragdolling must not start during a roll")
	}
	if tc.StartMantlingGrounded() {
		t.Fatalf("mantling must not start during a roll")
	}
	if tc.StartRollingTowards(1, 90) {
		t.Fatalf("a second roll must not start during a roll")
	}
	if tc.LocomotionAction() != game.LocomotionActionRolling || tc.Rolling().State().TargetYawAngle != 0 {
		t.Fatalf("expected the first roll to continue, got %v", tc.LocomotionAction())
	}
	if len(tc.net.sent) != sent {
		t.Fatalf("refused actions must not send anything")
	}

	tc.Rolling().Stop()
	if !tc.StartRagdolling() {
		t.Fatalf("expected ragdolling to start once the roll ended")
	}
	if tc.StartRollingTowards(1, 90) || tc.StartMantlingGrounded() {
		t.Fatalf("no action may start while ragdolling")
	}
	if tc.LocomotionAction() != game.LocomotionActionRagdolling {
		t.Fatalf("expected the ragdoll to continue, got %v", tc.LocomotionAction())
	}
}

func TestStopsAreIdempotent(t *testing.T) {
	h := &countingHandler{}
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, Handler: h})

	tc.StopMantling(true)
	tc.StopMantling(false)
	tc.Rolling().Stop()
	tc.FinalizeRagdolling()
	tc.StopActions()
	if tc.StopRagdolling() {
		t.Fatalf("stopping a ragdoll that never started must fail")
	}
	if h.actionChanges != 0 || tc.LocomotionAction() != game.LocomotionActionNone {
		t.Fatalf("stopping inactive actions must not change anything (%d changes)", h.actionChanges)
	}
}

func TestRollFollowsRotationCurve(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, LocallyControlled: true})

	if !tc.StartRollingTowards(1, 90) {
		t.Fatalf("expected the roll to start")
	}
	if tc.LocomotionAction() != game.LocomotionActionRolling || tc.Stance() != game.StanceCrouching {
		t.Fatalf("expected a crouched roll, got %v / %v", tc.LocomotionAction(), tc.Stance())
	}
	if _, target, ok := find[*packet.StartRolling](tc.net); !ok || target != packet.TargetMulticast {
		t.Fatalf("expected the roll to be multicast")
	}

	tc.Tick(0.5)
	// The default curve reaches 0.8 at 0.3 and 1 at 1, so half way it is 0.8 + 0.2 * 0.2 / 0.7.
	if yaw := tc.body.Rotation().Yaw; !approxEq(yaw, 90*(0.8+0.2*0.2/0.7), 0.01) {
		t.Fatalf("expected yaw %.2f half way through the roll, got %.2f", 90*(0.8+0.2*0.2/0.7), yaw)
	}

	tc.Tick(0.5)
	if tc.LocomotionAction() != game.LocomotionActionNone || !approxEq(tc.body.Rotation().Yaw, 90, 0.01) {
		t.Fatalf("expected the roll to end facing 90, got %v at %.2f", tc.LocomotionAction(), tc.body.Rotation().Yaw)
	}
}

func TestAutonomousRollSendsRequest(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAutonomousProxy, LocallyControlled: true})

	if !tc.StartRollingTowards(1.3, 45) {
		t.Fatalf("expected the roll request to be sent")
	}
	req, target, ok := find[*packet.StartRollingRequest](tc.net)
	if !ok || target != packet.TargetServer || req.TargetYawAngle != 45 || req.PlayRate != 1.3 {
		t.Fatalf("unexpected roll request %+v (%v, %v)", req, target, ok)
	}
	if tc.LocomotionAction() != game.LocomotionActionNone {
		t.Fatalf("the owner must wait for the authority before rolling")
	}

	tc.HandlePacket(&packet.StartRolling{Montage: req.Montage, PlayRate: req.PlayRate, InitialYawAngle: req.InitialYawAngle, TargetYawAngle: req.TargetYawAngle})
	if tc.LocomotionAction() != game.LocomotionActionRolling {
		t.Fatalf("expected the broadcast to start the roll")
	}
}

func TestMantlingWithoutLedgeFails(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority})
	if tc.StartMantlingGrounded() {
		t.Fatalf("mantling must fail without a ledge")
	}
	if tc.StartMantlingInAir() {
		t.Fatalf("in air mantling must fail while grounded")
	}
	if tc.LocomotionAction() != game.LocomotionActionNone || len(tc.net.sent) != 0 {
		t.Fatalf("a failed mantle must not change or send anything")
	}
}

func TestRagdollGetsUpOnceSettled(t *testing.T) {
	h := &countingHandler{}
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, LocallyControlled: true, Handler: h})

	tc.Kill()
	if tc.Alive() || tc.LocomotionAction() != game.LocomotionActionRagdolling || tc.LocomotionMode() != game.LocomotionModeRagdoll {
		t.Fatalf("expected death to start ragdolling, got %v / %v", tc.LocomotionAction(), tc.LocomotionMode())
	}
	if tc.StopRagdolling() {
		t.Fatalf("a ragdoll that has not settled must not get up")
	}

	for i := 0; i < 120 && !tc.IsRagdollingAllowedToStop(); i++ {
		tc.step(1)
	}
	if !tc.StopRagdolling() {
		t.Fatalf("expected the settled ragdoll to get up")
	}
	if tc.LocomotionAction() != game.LocomotionActionRagdolling || !tc.Ragdolling().State().GettingUp {
		t.Fatalf("the action must stay active while getting up")
	}
	if !tc.anim.Playing(tc.Settings().Ragdolling.GetUpFront.Name) {
		t.Fatalf("expected the front get up montage, the pelvis faces down")
	}

	tc.step(int(tc.Settings().Ragdolling.GetUpFront.Length/dt) + 2)
	if tc.LocomotionAction() != game.LocomotionActionNone || tc.LocomotionMode() != game.LocomotionModeGrounded {
		t.Fatalf("expected the character to be back on its feet, got %v / %v", tc.LocomotionAction(), tc.LocomotionMode())
	}
}

func TestViewSmoothingIsSpeedLimited(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleSimulatedProxy})

	tc.HandlePacket(&packet.FieldUpdate{
		Mask:   packet.FieldMask(0).With(packet.FieldViewRotation),
		Fields: packet.Fields{ViewRotation: game.Rotator{Yaw: 170}},
	})
	tc.Tick(dt)

	maxStep := tc.Settings().View.MaxSmoothingSpeed * dt
	if yaw := tc.ViewState().Rotation.Yaw; !approxEq(yaw, maxStep, 0.01) {
		t.Fatalf("expected the view to turn by at most %.2f, got %.2f", maxStep, yaw)
	}
	tc.step(60)
	if yaw := tc.ViewState().Rotation.Yaw; !approxEq(yaw, 170, 0.01) {
		t.Fatalf("expected the view to reach the sample, got %.2f", yaw)
	}
}

func TestViewCorrectionMidSmoothingIsSpeedLimited(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleSimulatedProxy})
	sample := func(yaw float32) {
		tc.HandlePacket(&packet.FieldUpdate{
			Mask:   packet.FieldMask(0).With(packet.FieldViewRotation),
			Fields: packet.Fields{ViewRotation: game.Rotator{Yaw: yaw}},
		})
	}
	maxStep := tc.Settings().View.MaxSmoothingSpeed * dt

	sample(170)
	prev := tc.ViewState().Rotation.Yaw
	for i := 0; i < 90; i++ {
		if i == 3 {
			sample(-100)
		}
		tc.step(1)
		yaw := tc.ViewState().Rotation.Yaw
		if delta := math32.Abs(game.NormalizeAngle(yaw - prev)); delta > maxStep+0.001 {
			t.Fatalf("tick %d turned the view by %.3f, more than %.3f", i, delta, maxStep)
		}
		prev = yaw
	}
	if !approxEq(prev, -100, 0.01) {
		t.Fatalf("expected the view to reach the second sample, got %.2f", prev)
	}
}

func TestJumpNotifiesObservers(t *testing.T) {
	h := &countingHandler{}
	tc := newTestCharacter(character.Config{Role: character.RoleAutonomousProxy, LocallyControlled: true, Handler: h})

	if !tc.Jump() {
		t.Fatalf("expected the jump to start")
	}
	if h.jumps != 1 || tc.anim.Jumps() != 1 {
		t.Fatalf("expected the local jump to notify once")
	}
	tc.Tick(dt)
	move, _, ok := find[*packet.Move](tc.net)
	if !ok || !move.Jumped {
		t.Fatalf("expected the next move to carry the jump")
	}

	proxy := newTestCharacter(character.Config{Role: character.RoleSimulatedProxy, Handler: &countingHandler{}})
	if !proxy.HandlePacket(&packet.Jumped{}) || proxy.anim.Jumps() != 1 {
		t.Fatalf("expected the simulated proxy to play the jump")
	}
}

func TestPacketRoles(t *testing.T) {
	proxy := newTestCharacter(character.Config{Role: character.RoleSimulatedProxy})
	if proxy.HandlePacket(&packet.StartRollingRequest{}) {
		t.Fatalf("a simulated proxy must refuse requests")
	}
	if proxy.HandlePacket(&packet.Correction{}) {
		t.Fatalf("only the autonomous proxy takes corrections")
	}

	authority := newTestCharacter(character.Config{Role: character.RoleAuthority})
	if authority.HandlePacket(&packet.StartRagdolling{}) {
		t.Fatalf("the authority must refuse broadcasts")
	}
	if authority.HandlePacket(&packet.Move{Location: mgl32.Vec3{100, 0, 90}}) {
		t.Fatalf("an authority without a remote owner must refuse moves")
	}
}

func TestAuthorityRejectsActionOnlyMovementModes(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, RemotelyControlled: true})

	if tc.HandlePacket(&packet.Move{Location: mgl32.Vec3{0, 0, 500}, MovementMode: game.MovementModeCustom}) {
		t.Fatalf("a custom movement mode from the owner must be refused")
	}
	if _, target, ok := find[*packet.Correction](tc.net); !ok || target != packet.TargetOwner {
		t.Fatalf("expected a correction sent to the owner")
	}
	if tc.body.Location().Z() != 90 {
		t.Fatalf("the refused move must not be applied")
	}

	if !tc.HandlePacket(&packet.Move{Location: mgl32.Vec3{0, 0, 300}, MovementMode: game.MovementModeFalling}) {
		t.Fatalf("expected the move to be accepted")
	}
	if tc.LocomotionMode() != game.LocomotionModeInAir {
		t.Fatalf("expected the authority to follow the owner into the air, got %v", tc.LocomotionMode())
	}
}

func TestAuthorityValidatesRollRequests(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, RemotelyControlled: true})
	rolling := tc.Settings().Rolling

	for _, req := range []*packet.StartRollingRequest{
		{Montage: rolling.Montage, PlayRate: math32.NaN(), TargetYawAngle: 90},
		{Montage: rolling.Montage, PlayRate: -1, TargetYawAngle: 90},
		{Montage: rolling.Montage, PlayRate: math32.Inf(1), TargetYawAngle: 90},
		{Montage: rolling.Montage, PlayRate: 1, TargetYawAngle: math32.NaN()},
		{Montage: rolling.Montage, PlayRate: 1, InitialYawAngle: math32.Inf(-1), TargetYawAngle: 90},
	} {
		if tc.HandlePacket(req) {
			t.Fatalf("expected the roll request %+v to be refused", req)
		}
	}
	tc.step(600)
	if tc.LocomotionAction() != game.LocomotionActionNone || !tc.body.Rotation().Finite() {
		t.Fatalf("refused rolls must leave the character alone, got %v at %v", tc.LocomotionAction(), tc.body.Rotation())
	}
	if _, _, ok := find[*packet.StartRolling](tc.net); ok {
		t.Fatalf("refused rolls must not be broadcast")
	}

	req := &packet.StartRollingRequest{Montage: game.Montage{Name: "Forever", Length: 1000}, PlayRate: 50, TargetYawAngle: 90}
	if !tc.HandlePacket(req) {
		t.Fatalf("expected the roll request to be accepted")
	}
	roll, target, ok := find[*packet.StartRolling](tc.net)
	if !ok || target != packet.TargetMulticast {
		t.Fatalf("expected the roll to be multicast")
	}
	if roll.Montage != rolling.Montage || roll.PlayRate != rolling.MaxPlayRate {
		t.Fatalf("expected the configured montage at the maximum play rate, got %v at %v", roll.Montage, roll.PlayRate)
	}

	ticks := 0
	for ; ticks < 600 && tc.LocomotionAction() == game.LocomotionActionRolling; ticks++ {
		tc.step(1)
	}
	if limit := int(rolling.Montage.Length/rolling.MaxPlayRate/dt) + 2; ticks > limit {
		t.Fatalf("expected the roll to end within %d ticks, took %d", limit, ticks)
	}
	if !approxEq(tc.body.Rotation().Yaw, 90, 0.01) {
		t.Fatalf("expected the roll to end facing 90, got %.2f", tc.body.Rotation().Yaw)
	}
}

func TestNonFiniteMovementIsRefused(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, RemotelyControlled: true})
	nan := math32.NaN()

	if tc.HandlePacket(&packet.ViewRotation{Rotation: game.Rotator{Yaw: nan}}) {
		t.Fatalf("a view rotation that is not finite must be refused")
	}
	if !tc.ReplicatedFields().ViewRotation.Finite() {
		t.Fatalf("the replicated view rotation must stay finite")
	}

	for _, move := range []*packet.Move{
		{Location: mgl32.Vec3{nan, 0, 90}, MovementMode: game.MovementModeWalking},
		{Location: mgl32.Vec3{0, 0, 90}, Velocity: mgl32.Vec3{0, math32.Inf(1), 0}, MovementMode: game.MovementModeWalking},
		{Location: mgl32.Vec3{0, 0, 90}, Rotation: game.Rotator{Pitch: nan}, MovementMode: game.MovementModeWalking},
		{Location: mgl32.Vec3{0, 0, 90}, InputDirection: mgl32.Vec3{nan, 0, 0}, MovementMode: game.MovementModeWalking},
		{Location: mgl32.Vec3{0, 0, 90}, DesiredVelocityYawAngle: nan, MovementMode: game.MovementModeWalking},
	} {
		tc.net.sent = nil
		if tc.HandlePacket(move) {
			t.Fatalf("expected the move %+v to be refused", move)
		}
		if _, target, ok := find[*packet.Correction](tc.net); !ok || target != packet.TargetOwner {
			t.Fatalf("expected a correction for the refused move %+v", move)
		}
	}
	if !game.FiniteVec3(tc.body.Location()) || !game.FiniteVec3(tc.body.Velocity()) || !tc.body.Rotation().Finite() {
		t.Fatalf("refused moves must not be applied, got %v", tc.body.Location())
	}

	proxy := newTestCharacter(character.Config{Role: character.RoleSimulatedProxy})
	if proxy.HandlePacket(&packet.Move{Location: mgl32.Vec3{0, 0, nan}}) || len(proxy.net.sent) != 0 {
		t.Fatalf("a simulated proxy must drop moves that are not finite")
	}
	if proxy.HandlePacket(&packet.RagdollTargetLocation{Location: mgl32.Vec3{nan, 0, 0}}) {
		t.Fatalf("a ragdoll target location that is not finite must be refused")
	}
}

func TestLandingFrictionResets(t *testing.T) {
	tc := newTestCharacter(character.Config{Role: character.RoleAuthority, LocallyControlled: true})
	tc.body.SetLocation(mgl32.Vec3{0, 0, 150})
	tc.body.SetMovementMode(game.MovementModeFalling)
	tc.OnMovementModeChanged(game.MovementModeWalking)
	if tc.LocomotionMode() != game.LocomotionModeInAir {
		t.Fatalf("expected the character to be in air")
	}

	for i := 0; i < 60 && tc.LocomotionMode() != game.LocomotionModeGrounded; i++ {
		tc.step(1)
	}
	if tc.LocomotionMode() != game.LocomotionModeGrounded {
		t.Fatalf("expected the character to land")
	}
	if tc.body.BrakingFrictionFactor() != game.LandedWithoutInputBrakingFriction {
		t.Fatalf("expected landing friction, got %v", tc.body.BrakingFrictionFactor())
	}
	delay := game.LandedBrakingFrictionResetDelay
	tc.step(int(delay/dt) + 2)
	if tc.body.BrakingFrictionFactor() != 0 {
		t.Fatalf("expected the landing friction to be reset, got %v", tc.body.BrakingFrictionFactor())
	}
}
