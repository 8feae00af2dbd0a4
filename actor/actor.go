package actor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/character/component"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/world"
)

// Actor is a character together with the body and animator that simulate it in a BoxWorld.
type Actor struct {
	*character.Character
	Body *world.Body
	Anim *world.Animator
}

// New creates an actor standing at location. The collaborators of conf are filled in from the
// world, so only the identity, role, settings and network need to be set.
func New(conf character.Config, w *world.BoxWorld, location mgl32.Vec3, rotation game.Rotator, mode game.MovementMode) *Actor {
	body := world.NewBody(w, location, rotation)
	body.SetMovementMode(mode)
	anim := world.NewAnimator()

	conf.Movement, conf.Mesh, conf.Animation, conf.World = body, body, anim, w
	c := character.New(conf)
	component.Register(c)
	body.OnModeChange(c.OnMovementModeChanged)
	return &Actor{Character: c, Body: body, Anim: anim}
}

// Step advances the body, the animator and then the character by dt seconds.
func (a *Actor) Step(dt float32) {
	a.Body.Step(dt)
	a.Anim.Tick(dt)
	a.Tick(dt)
}
