package game

import "fmt"

// Montage identifies an animation clip played by the animation collaborator. Only its name and
// length matter to locomotion; the clip content lives with the animation collaborator.
type Montage struct {
	Name   string
	Length float32
}

// Valid reports whether the montage can be played.
func (m Montage) Valid() bool {
	return m.Name != "" && m.Length > 0 && Finite(m.Length)
}

// Duration returns the playback time of the montage at the given play rate.
func (m Montage) Duration(playRate float32) float32 {
	if !(playRate > 0) {
		return m.Length
	}
	return m.Length / playRate
}

func (m Montage) String() string {
	return fmt.Sprintf("%s(%.2fs)", m.Name, m.Length)
}
