package character

// Role is the network role of a character instance. Roles are ordered so that a role can be
// compared against the minimum role an operation needs.
type Role uint8

const (
	// RoleSimulatedProxy mirrors a character controlled elsewhere.
	RoleSimulatedProxy Role = iota
	// RoleAutonomousProxy is the non-authoritative instance owned by the local controller.
	RoleAutonomousProxy
	// RoleAuthority decides every actual state value of the character.
	RoleAuthority
)

func (r Role) String() string {
	switch r {
	case RoleSimulatedProxy:
		return "SimulatedProxy"
	case RoleAutonomousProxy:
		return "AutonomousProxy"
	case RoleAuthority:
		return "Authority"
	}
	return "Unknown"
}
