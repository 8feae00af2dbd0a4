package character

import (
	"io"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/packet"
	"github.com/sirupsen/logrus"
)

// Config holds everything needed to create a Character.
type Config struct {
	ID   uint64
	Role Role
	// LocallyControlled is set on the instance whose controller produces input.
	LocallyControlled bool
	// RemotelyControlled is set on an authority whose owner lives on another connection. Such an
	// authority takes movement from the owner instead of simulating it.
	RemotelyControlled bool

	Settings game.CharacterSettings
	// Policy decides whether actions may start. It defaults to DefaultPolicy.
	Policy  Policy
	Handler Handler

	Movement  Movement
	Mesh      Mesh
	Animation Animation
	World     World
	// Network defaults to NopNetwork.
	Network Network

	Log *logrus.Logger
}

// Character is a single networked character. It is not safe for concurrent use: the host ticks
// it and feeds it packets from the same goroutine.
type Character struct {
	id                 uint64
	role               Role
	locallyControlled  bool
	remotelyControlled bool

	settings game.CharacterSettings
	policy   Policy
	handler  Handler

	movement Movement
	mesh     Mesh
	anim     Animation
	world    World
	network  Network

	log       *logrus.Logger
	dbg       *Debugger
	scheduler *Scheduler

	mantling   MantlingComponent
	ragdolling RagdollingComponent
	rolling    RollingComponent

	alive bool
	// time is the amount of seconds the character has been ticked for.
	time float32

	desiredAiming       bool
	desiredRotationMode game.RotationMode
	desiredStance       game.Stance
	desiredGait         game.Gait
	viewMode            game.ViewMode
	overlayMode         game.OverlayMode

	locomotionMode   game.LocomotionMode
	rotationMode     game.RotationMode
	stance           game.Stance
	gait             game.Gait
	locomotionAction game.LocomotionAction

	controlRotation        game.Rotator
	replicatedViewRotation game.Rotator
	sentViewRotation       game.Rotator
	viewRotationSent       bool

	inputDirection          mgl32.Vec3
	desiredVelocityYawAngle float32
	jumped                  bool

	movementBase MovementBaseState
	view         ViewState
	locomotion   LocomotionState
}

// New creates a character from conf. The mantling, ragdolling and rolling components must be
// set before the first tick.
func New(conf Config) *Character {
	assert.IsTrue(conf.Movement != nil && conf.Mesh != nil && conf.Animation != nil && conf.World != nil, "character %d is missing collaborators", conf.ID)

	c := &Character{
		id:                 conf.ID,
		role:               conf.Role,
		locallyControlled:  conf.LocallyControlled,
		remotelyControlled: conf.RemotelyControlled && conf.Role == RoleAuthority,

		settings: conf.Settings,
		policy:   conf.Policy,
		handler:  conf.Handler,

		movement: conf.Movement,
		mesh:     conf.Mesh,
		anim:     conf.Animation,
		world:    conf.World,
		network:  conf.Network,

		log:       conf.Log,
		scheduler: NewScheduler(),

		alive: true,

		desiredRotationMode: game.RotationModeViewDirection,
		desiredGait:         game.GaitRunning,
		rotationMode:        game.RotationModeViewDirection,
		gait:                game.GaitWalking,
	}
	if c.policy == nil {
		c.policy = DefaultPolicy{}
	}
	if c.handler == nil {
		c.handler = NopHandler{}
	}
	if c.network == nil {
		c.network = NopNetwork{}
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	c.dbg = NewDebugger(c.log.WithFields(logrus.Fields{"character": c.id, "role": c.role}))

	switch c.movement.MovementMode() {
	case game.MovementModeFalling:
		c.locomotionMode = game.LocomotionModeInAir
	case game.MovementModeNone:
		c.locomotionMode = game.LocomotionModeRagdoll
	}

	rot := c.movement.Rotation()
	c.controlRotation = rot
	c.replicatedViewRotation = rot
	c.view.Rotation = rot
	c.view.PreviousYawAngle = rot.Yaw
	c.view.Smoothing = ViewSmoothing{Initial: rot, Target: rot, Current: rot}
	c.RefreshLocomotionLocationAndRotation()
	c.RefreshTargetYawAngle(rot.Yaw)
	return c
}

func (c *Character) ID() uint64 {
	return c.id
}

func (c *Character) Role() Role {
	return c.role
}

func (c *Character) LocallyControlled() bool {
	return c.locallyControlled
}

func (c *Character) RemotelyControlled() bool {
	return c.remotelyControlled
}

// OwnsMovement reports whether this instance simulates the movement of the character. Every
// other instance takes movement from the network.
func (c *Character) OwnsMovement() bool {
	return c.role == RoleAutonomousProxy || (c.role == RoleAuthority && !c.remotelyControlled)
}

func (c *Character) Settings() game.CharacterSettings {
	return c.settings
}

func (c *Character) Policy() Policy {
	return c.policy
}

func (c *Character) Handler() Handler {
	return c.handler
}

// Handle sets the handler of the character. A nil handler resets it to NopHandler.
func (c *Character) Handle(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	c.handler = h
}

func (c *Character) Movement() Movement {
	return c.movement
}

func (c *Character) Mesh() Mesh {
	return c.mesh
}

func (c *Character) Animation() Animation {
	return c.anim
}

func (c *Character) World() World {
	return c.world
}

func (c *Character) Log() *logrus.Logger {
	return c.log
}

func (c *Character) Dbg() *Debugger {
	return c.dbg
}

func (c *Character) Scheduler() *Scheduler {
	return c.scheduler
}

// Send sends a packet through the network of the character.
func (c *Character) Send(target packet.Target, pk packet.Packet) {
	c.network.Send(target, pk)
}

// Latency returns the one-way latency to the authority.
func (c *Character) Latency() time.Duration {
	return c.network.Latency()
}

// Time returns the amount of seconds the character has been ticked for.
func (c *Character) Time() float32 {
	return c.time
}

func (c *Character) Alive() bool {
	return c.alive
}

func (c *Character) LocomotionState() LocomotionState {
	return c.locomotion
}

func (c *Character) ViewState() ViewState {
	return c.view
}

func (c *Character) MovementBase() MovementBaseState {
	return c.movementBase
}

func (c *Character) InputDirection() mgl32.Vec3 {
	return c.inputDirection
}

func (c *Character) DesiredVelocityYawAngle() float32 {
	return c.desiredVelocityYawAngle
}

// SetViewRotation sets the rotation the controller looks in. Only the locally controlled
// instance uses it.
func (c *Character) SetViewRotation(rotation game.Rotator) {
	c.controlRotation = rotation.Normalize()
}

// ReplicatedViewRotation returns the raw view rotation of the owner.
func (c *Character) ReplicatedViewRotation() game.Rotator {
	return c.replicatedViewRotation
}

// Tick advances the character by dt seconds.
func (c *Character) Tick(dt float32) {
	assert.IsTrue(c.mantling != nil && c.ragdolling != nil && c.rolling != nil, "character %d ticked without components", c.id)
	if dt <= 0 {
		return
	}
	c.time += dt
	c.scheduler.Tick(c.time)

	c.refreshInput()
	c.refreshMovementBase()
	if c.role == RoleAuthority {
		c.refreshRotationMode()
	}
	c.refreshGait()
	c.refreshView(dt)
	c.RefreshLocomotionLocationAndRotation()

	if c.OwnsMovement() {
		c.refreshGroundedRotation(dt)
		c.refreshInAirRotation(dt)
	}
	if c.role == RoleAuthority && c.locomotionMode == game.LocomotionModeInAir && c.locomotionAction == game.LocomotionActionNone &&
		c.locomotion.HasInput && c.settings.Mantling.AllowInAir {
		c.StartMantlingInAir()
	}

	c.rolling.Tick(dt)
	c.mantling.Tick(dt)
	c.ragdolling.Tick(dt)

	c.replicateMovement()
}

// Teleport moves the character, stopping any action first.
func (c *Character) Teleport(location mgl32.Vec3) {
	c.StopActions()
	c.movement.SetLocation(location)
	c.movement.SetVelocity(mgl32.Vec3{})
	c.RefreshLocomotionLocationAndRotation()
	if c.role == RoleAuthority && c.remotelyControlled {
		c.sendCorrection()
	}
}

// Kill stops mantling and rolling and, if configured, starts ragdolling. Only the authority
// can kill a character.
func (c *Character) Kill() {
	if c.role != RoleAuthority || !c.alive {
		return
	}
	c.alive = false
	c.mantling.Stop(true)
	c.rolling.Stop()
	if c.settings.RagdollOnDeath {
		c.StartRagdolling()
	}
}

// Revive makes a killed character alive again.
func (c *Character) Revive() {
	c.alive = true
}

func (c *Character) sendCorrection() {
	c.network.Send(packet.TargetOwner, &packet.Correction{
		Location:     c.movement.Location(),
		Velocity:     c.movement.Velocity(),
		Rotation:     c.movement.Rotation(),
		MovementMode: c.movement.MovementMode(),
	})
}
