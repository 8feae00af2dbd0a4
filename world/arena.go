package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
)

const (
	// PlatformID is the rotating platform of the arena.
	PlatformID = "platform"
	// PlatformYawSpeed is the speed, in degrees per second, the platform rotates at.
	PlatformYawSpeed float32 = 30
)

// Arena creates the world shared by the server and its clients: a floor with a low ledge, a
// high wall and a rotating platform.
func Arena() *BoxWorld {
	w := New()
	w.AddBox(Box{ID: "floor", BBox: cube.Box(-5000, -5000, -10, 5000, 5000, 0)})
	w.AddBox(Box{ID: "ledge-low", BBox: cube.Box(400, -300, 0, 700, 300, 90)})
	w.AddBox(Box{ID: "wall-high", BBox: cube.Box(-700, -300, 0, -400, 300, 180)})
	w.AddBox(Box{
		ID:        PlatformID,
		BBox:      cube.Box(-200, -200, 0, 200, 200, 20),
		Transform: game.NewTransform(mgl32.Vec3{0, 900, 0}, game.Rotator{}),
		Movable:   true,
	})
	return w
}

// SpawnLocation returns where the n-th character of the arena spawns.
func SpawnLocation(n uint64) mgl32.Vec3 {
	return mgl32.Vec3{float32(n%8) * 150, -600, 90}
}

// Animate moves the dynamic boxes of the arena by dt seconds.
func Animate(w *BoxWorld, dt float32) {
	w.MoveBox(PlatformID, dt, PlatformYawSpeed)
}
