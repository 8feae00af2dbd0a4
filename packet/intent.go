package packet

import "github.com/sandertv/gophertunnel/minecraft/protocol"

// IntentKind is the desired state field an Intent sets.
type IntentKind uint8

const (
	IntentDesiredAiming IntentKind = iota
	IntentDesiredRotationMode
	IntentDesiredStance
	IntentDesiredGait
	IntentViewMode
	IntentOverlayMode
)

func (k IntentKind) String() string {
	switch k {
	case IntentDesiredAiming:
		return "DesiredAiming"
	case IntentDesiredRotationMode:
		return "DesiredRotationMode"
	case IntentDesiredStance:
		return "DesiredStance"
	case IntentDesiredGait:
		return "DesiredGait"
	case IntentViewMode:
		return "ViewMode"
	case IntentOverlayMode:
		return "OverlayMode"
	}
	return "Unknown"
}

// Intent sets one desired state field. The owner sends it to the server, and the server sends
// it to the owner when it changes a desired value itself.
type Intent struct {
	Kind  IntentKind
	Value uint8
}

func (*Intent) ID() uint32 {
	return IDIntent
}

func (pk *Intent) Marshal(io protocol.IO) {
	tag(io, &pk.Kind)
	io.Uint8(&pk.Value)
}
