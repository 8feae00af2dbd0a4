package component_test

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

type mockNetwork struct {
	sent    []packet.Packet
	latency time.Duration
}

func (n *mockNetwork) Send(_ packet.Target, pk packet.Packet) {
	n.sent = append(n.sent, pk)
}

func (n *mockNetwork) Latency() time.Duration {
	return n.latency
}

type mantlingHandler struct {
	character.NopHandler
	started []game.MantlingParameters
	ended   int
}

func (h *mantlingHandler) HandleMantlingStarted(params game.MantlingParameters) {
	h.started = append(h.started, params)
}

func (h *mantlingHandler) HandleMantlingEnded() {
	h.ended++
}

// ledgeWorld returns a world with a floor and a 100 units high block in front of a character
// standing at the origin and facing +X.
func ledgeWorld() *world.BoxWorld {
	w := world.New()
	w.AddBox(world.Box{ID: "floor", BBox: cube.Box(-2000, -2000, -10, 2000, 2000, 0)})
	w.AddBox(world.Box{ID: "ledge", BBox: cube.Box(60, -200, 0, 300, 200, 100)})
	return w
}

func newCharacter(w *world.BoxWorld, role character.Role, h character.Handler, net *mockNetwork) (*character.Character, *world.Body, *world.Animator) {
	body := world.NewBody(w, mgl32.Vec3{0, 0, 90}, game.Rotator{})
	anim := world.NewAnimator()
	c := character.New(character.Config{
		Role:      role,
		Settings:  game.DefaultCharacterSettings(),
		Handler:   h,
		Movement:  body,
		Mesh:      body,
		Animation: anim,
		World:     w,
		Network:   net,
	})
	component.Register(c)
	body.OnModeChange(c.OnMovementModeChanged)
	return c, body, anim
}

func TestMantleOntoLedge(t *testing.T) {
	h := &mantlingHandler{}
	net := &mockNetwork{}
	c, body, anim := newCharacter(ledgeWorld(), character.RoleAuthority, h, net)

	if !c.StartMantlingGrounded() {
		t.Fatalf("expected a mantle onto the ledge")
	}
	if c.LocomotionAction() != game.LocomotionActionMantling || body.MovementMode() != game.MovementModeCustom {
		t.Fatalf("expected mantling in custom movement, got %v / %v", c.LocomotionAction(), body.MovementMode())
	}
	if len(h.started) != 1 {
		t.Fatalf("expected one mantling start notification")
	}
	params := h.started[0]
	if params.TargetPrimitive != "ledge" || params.MantlingType != game.MantlingTypeLow {
		t.Fatalf("unexpected mantling parameters %+v", params)
	}
	if math32.Abs(params.MantlingHeight-102.4) > 0.1 {
		t.Fatalf("expected a mantling height of 102.4, got %v", params.MantlingHeight)
	}
	if !anim.Playing(params.Montage.Name) {
		t.Fatalf("expected the mantling montage to play")
	}
	var broadcast bool
	for _, pk := range net.sent {
		if _, ok := pk.(*packet.StartMantling); ok {
			broadcast = true
		}
	}
	if !broadcast {
		t.Fatalf("expected the mantle to be broadcast")
	}

	for i := 0; i < 120 && c.LocomotionAction() == game.LocomotionActionMantling; i++ {
		c.Tick(dt)
	}
	if c.LocomotionAction() != game.LocomotionActionNone || h.ended != 1 {
		t.Fatalf("expected the mantle to end once, got %v (%d ends)", c.LocomotionAction(), h.ended)
	}
	loc := body.Location()
	if math32.Abs(loc.X()-75) > 0.5 || math32.Abs(loc.Z()-192.4) > 0.5 {
		t.Fatalf("expected the character on top of the ledge, got %v", loc)
	}
	if body.MovementMode() != game.MovementModeWalking || c.LocomotionMode() != game.LocomotionModeGrounded {
		t.Fatalf("expected the character to walk on after mantling")
	}
}

func TestMantleBlockedByCeiling(t *testing.T) {
	w := ledgeWorld()
	w.AddBox(world.Box{ID: "ceiling", BBox: cube.Box(60, -200, 230, 300, 200, 240)})
	c, _, _ := newCharacter(w, character.RoleAuthority, nil, &mockNetwork{})

	if c.StartMantlingGrounded() {
		t.Fatalf("there is no room on the ledge below the ceiling")
	}
}

func TestOwnerMantleWaitsForAuthority(t *testing.T) {
	net := &mockNetwork{latency: 100 * time.Millisecond}
	c, body, anim := newCharacter(ledgeWorld(), character.RoleAutonomousProxy, nil, net)

	if !c.StartMantlingGrounded() {
		t.Fatalf("expected the mantle request to be sent")
	}
	if len(net.sent) != 1 {
		t.Fatalf("expected exactly one packet, got %d", len(net.sent))
	}
	if req, ok := net.sent[0].(*packet.StartMantlingRequest); !ok || req.InAir {
		t.Fatalf("expected a grounded mantle request, got %#v", net.sent[0])
	}
	if c.LocomotionAction() != game.LocomotionActionNone {
		t.Fatalf("the owner must not mantle before the authority does")
	}

	params := game.MantlingParameters{
		TargetPrimitive:        "ledge",
		TargetRelativeLocation: mgl32.Vec3{75, 0, 192.4},
		MantlingType:           game.MantlingTypeLow,
		Montage:                game.Montage{Name: "MantleLow", Length: 1.2},
		PlayRate:               1,
		StartTime:              0.2,
	}
	c.HandlePacket(&packet.StartMantling{Parameters: params})
	if c.LocomotionAction() != game.LocomotionActionMantling || body.MovementMode() != game.MovementModeCustom {
		t.Fatalf("expected the broadcast to start mantling")
	}
	if pos, _ := anim.Position("MantleLow"); math32.Abs(pos-0.3) > 0.001 {
		t.Fatalf("expected the montage to start ahead by the latency, got %v", pos)
	}
}

func TestRollInterruptedInAirStartsRagdoll(t *testing.T) {
	c, body, _ := newCharacter(ledgeWorld(), character.RoleAuthority, nil, &mockNetwork{})

	if !c.StartRollingTowards(1, 0) {
		t.Fatalf("expected the roll to start")
	}
	body.SetMovementMode(game.MovementModeFalling)
	c.OnMovementModeChanged(game.MovementModeWalking)

	if c.LocomotionAction() != game.LocomotionActionRagdolling {
		t.Fatalf("expected the interrupted roll to turn into a ragdoll, got %v", c.LocomotionAction())
	}
	if !body.SimulatingPhysics() {
		t.Fatalf("expected the body to simulate physics")
	}
}

func TestRemoteRagdollIsPulledTowardTarget(t *testing.T) {
	c, body, _ := newCharacter(ledgeWorld(), character.RoleSimulatedProxy, nil, &mockNetwork{})

	c.HandlePacket(&packet.StartRagdolling{})
	if c.LocomotionAction() != game.LocomotionActionRagdolling {
		t.Fatalf("expected the broadcast to start ragdolling")
	}
	target := mgl32.Vec3{-100, 0, 50}
	c.HandlePacket(&packet.RagdollTargetLocation{Location: target})

	start := body.PelvisLocation().Sub(target).Len()
	for i := 0; i < 30; i++ {
		body.Step(dt)
		c.Tick(dt)
	}
	if d := body.PelvisLocation().Sub(target).Len(); d >= start {
		t.Fatalf("expected the pelvis to move toward the target, distance %v -> %v", start, d)
	}
	if c.Ragdolling().State().PullForce <= 0 {
		t.Fatalf("expected the pull force to build up")
	}
}

func TestLandingHardStartsRagdoll(t *testing.T) {
	c, body, _ := newCharacter(ledgeWorld(), character.RoleAuthority, nil, &mockNetwork{})
	body.SetLocation(mgl32.Vec3{-500, 0, 2000})
	body.SetMovementMode(game.MovementModeFalling)
	c.OnMovementModeChanged(game.MovementModeWalking)

	for i := 0; i < 600 && c.LocomotionMode() == game.LocomotionModeInAir; i++ {
		body.Step(dt)
		c.Tick(dt)
	}
	if c.LocomotionAction() != game.LocomotionActionRagdolling {
		t.Fatalf("expected a hard landing to start ragdolling, got %v / %v", c.LocomotionMode(), c.LocomotionAction())
	}
}
