package character

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/sirupsen/logrus"
)

type DebugMode uint8

const (
	DebugModeRotation DebugMode = iota
	DebugModeView
	DebugModeLocomotion
	DebugModeMantling
	DebugModeRagdolling
	DebugModeRolling
	DebugModeNetwork
)

// DebugModeList contains the names of every debug mode, indexed by mode.
var DebugModeList = []string{"rotation", "view", "locomotion", "mantling", "ragdolling", "rolling", "network"}

// ParseDebugMode returns the debug mode with the given name.
func ParseDebugMode(name string) (DebugMode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range DebugModeList {
		if n == name {
			return DebugMode(i), true
		}
	}
	return 0, false
}

func (m DebugMode) String() string {
	if int(m) < len(DebugModeList) {
		return DebugModeList[m]
	}
	return "unknown"
}

// Debugger logs internal state for the debug modes that are enabled.
type Debugger struct {
	log   *logrus.Entry
	modes uint32
}

func NewDebugger(log *logrus.Entry) *Debugger {
	return &Debugger{log: log}
}

func (d *Debugger) Toggle(mode DebugMode) {
	d.modes ^= 1 << mode
}

func (d *Debugger) Enabled(mode DebugMode) bool {
	return d.modes&(1<<mode) != 0
}

// Notify logs the message if mode is enabled and cond holds.
func (d *Debugger) Notify(mode DebugMode, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	d.log.WithField("debug", mode.String()).Debugf(format, args...)
}

// DebugState returns a snapshot of the character state for debugging.
func (c *Character) DebugState() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("id", c.id)
	m.Set("role", c.role)
	m.Set("alive", c.alive)
	m.Set("locomotionMode", c.locomotionMode)
	m.Set("rotationMode", c.rotationMode)
	m.Set("stance", c.stance)
	m.Set("gait", c.gait)
	m.Set("action", c.locomotionAction)
	m.Set("desiredRotationMode", c.desiredRotationMode)
	m.Set("desiredStance", c.desiredStance)
	m.Set("desiredGait", c.desiredGait)
	m.Set("desiredAiming", c.desiredAiming)
	m.Set("viewMode", c.viewMode)
	m.Set("overlayMode", c.overlayMode)
	m.Set("location", c.locomotion.Location)
	m.Set("rotation", c.locomotion.Rotation)
	m.Set("speed", c.locomotion.Speed)
	m.Set("view", c.view.Rotation)
	if c.movementBase.Primitive != "" {
		m.Set("base", c.movementBase.Primitive)
	}
	return m
}

func (c *Character) String() string {
	return utils.OrderedMapToString(c.DebugState())
}
