package component

import "github.com/oomph-ac/locomotion/character"

// Register registers the components for the given character.
func Register(c *character.Character) {
	c.SetMantling(NewMantlingComponent(c))
	c.SetRagdolling(NewRagdollingComponent(c))
	c.SetRolling(NewRollingComponent(c))
}
