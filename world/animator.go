package world

import (
	"github.com/oomph-ac/locomotion/game"
)

// Animator keeps montage clocks and curve values in place of an animation graph. It implements
// character.Animation.
type Animator struct {
	montages map[string]*montageClock
	curves   map[string]float32
	jumps    int
}

type montageClock struct {
	montage  game.Montage
	playRate float32
	position float32
	// blendOut is the remaining blend out time of a stopping montage.
	blendOut float32
	stopping bool
}

func NewAnimator() *Animator {
	return &Animator{montages: make(map[string]*montageClock), curves: make(map[string]float32)}
}

func (a *Animator) PlayMontage(montage game.Montage, playRate, startTime float32) {
	if !montage.Valid() {
		return
	}
	if playRate <= 0 {
		playRate = 1
	}
	a.montages[montage.Name] = &montageClock{montage: montage, playRate: playRate, position: startTime}
}

func (a *Animator) StopMontage(montage game.Montage, blendOutTime float32) {
	if m, ok := a.montages[montage.Name]; ok {
		a.stop(montage.Name, m, blendOutTime)
	}
}

func (a *Animator) StopAllMontages(blendOutTime float32) {
	for name, m := range a.montages {
		a.stop(name, m, blendOutTime)
	}
}

func (a *Animator) stop(name string, m *montageClock, blendOutTime float32) {
	if blendOutTime <= 0 {
		delete(a.montages, name)
		return
	}
	m.stopping, m.blendOut = true, blendOutTime
}

// Playing reports whether a montage is playing and not blending out.
func (a *Animator) Playing(name string) bool {
	m, ok := a.montages[name]
	return ok && !m.stopping
}

// Position returns the playback position of a montage.
func (a *Animator) Position(name string) (float32, bool) {
	m, ok := a.montages[name]
	if !ok {
		return 0, false
	}
	return m.position, true
}

func (a *Animator) CurveValue(name string) float32 {
	return a.curves[name]
}

// SetCurveValue sets the value a curve reports.
func (a *Animator) SetCurveValue(name string, value float32) {
	a.curves[name] = value
}

func (a *Animator) Jumped() {
	a.jumps++
}

// Jumps returns how many times the character jumped.
func (a *Animator) Jumps() int {
	return a.jumps
}

// Tick advances every montage by dt seconds and removes finished ones.
func (a *Animator) Tick(dt float32) {
	for name, m := range a.montages {
		if m.stopping {
			if m.blendOut -= dt; m.blendOut <= 0 {
				delete(a.montages, name)
			}
			continue
		}
		if m.position += dt * m.playRate; m.position >= m.montage.Length {
			delete(a.montages, name)
		}
	}
}
