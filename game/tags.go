package game

// LocomotionMode is the physical state of the character.
type LocomotionMode uint8

const (
	LocomotionModeGrounded LocomotionMode = iota
	LocomotionModeInAir
	LocomotionModeRagdoll
)

func (m LocomotionMode) String() string {
	switch m {
	case LocomotionModeGrounded:
		return "Grounded"
	case LocomotionModeInAir:
		return "InAir"
	case LocomotionModeRagdoll:
		return "Ragdoll"
	}
	return "Unknown"
}

// RotationMode decides what the character rotates toward.
type RotationMode uint8

const (
	RotationModeViewDirection RotationMode = iota
	RotationModeVelocityDirection
	RotationModeAiming
)

func (m RotationMode) String() string {
	switch m {
	case RotationModeViewDirection:
		return "ViewDirection"
	case RotationModeVelocityDirection:
		return "VelocityDirection"
	case RotationModeAiming:
		return "Aiming"
	}
	return "Unknown"
}

type Stance uint8

const (
	StanceStanding Stance = iota
	StanceCrouching
)

func (s Stance) String() string {
	switch s {
	case StanceStanding:
		return "Standing"
	case StanceCrouching:
		return "Crouching"
	}
	return "Unknown"
}

// Gait values are ordered from slowest to fastest, so gaits can be compared and clamped.
type Gait uint8

const (
	GaitWalking Gait = iota
	GaitRunning
	GaitSprinting
)

func (g Gait) String() string {
	switch g {
	case GaitWalking:
		return "Walking"
	case GaitRunning:
		return "Running"
	case GaitSprinting:
		return "Sprinting"
	}
	return "Unknown"
}

// LocomotionAction is the exclusive action layered on top of the locomotion mode.
type LocomotionAction uint8

const (
	LocomotionActionNone LocomotionAction = iota
	LocomotionActionMantling
	LocomotionActionRagdolling
	LocomotionActionRolling
)

func (a LocomotionAction) String() string {
	switch a {
	case LocomotionActionNone:
		return "None"
	case LocomotionActionMantling:
		return "Mantling"
	case LocomotionActionRagdolling:
		return "Ragdolling"
	case LocomotionActionRolling:
		return "Rolling"
	}
	return "Unknown"
}

type ViewMode uint8

const (
	ViewModeThirdPerson ViewMode = iota
	ViewModeFirstPerson
)

func (m ViewMode) String() string {
	if m == ViewModeFirstPerson {
		return "FirstPerson"
	}
	return "ThirdPerson"
}

// OverlayMode selects the upper body pose layer. The animation collaborator is the only
// consumer; the locomotion rules never depend on it.
type OverlayMode uint8

const (
	OverlayModeDefault OverlayMode = iota
	OverlayModeMasculine
	OverlayModeFeminine
	OverlayModeInjured
	OverlayModeHandsTied
	OverlayModeRifle
	OverlayModePistolOneHanded
	OverlayModePistolTwoHanded
	OverlayModeBow
	OverlayModeTorch
	OverlayModeBinoculars
	OverlayModeBox
	OverlayModeBarrel
)

var overlayModeNames = [...]string{
	"Default", "Masculine", "Feminine", "Injured", "HandsTied", "Rifle", "PistolOneHanded",
	"PistolTwoHanded", "Bow", "Torch", "Binoculars", "Box", "Barrel",
}

func (m OverlayMode) String() string {
	if int(m) < len(overlayModeNames) {
		return overlayModeNames[m]
	}
	return "Unknown"
}

// MovementMode is the mode reported by the movement collaborator.
type MovementMode uint8

const (
	MovementModeNone MovementMode = iota
	MovementModeWalking
	MovementModeNavWalking
	MovementModeFalling
	MovementModeSwimming
	MovementModeFlying
	MovementModeCustom
)

func (m MovementMode) String() string {
	switch m {
	case MovementModeNone:
		return "None"
	case MovementModeWalking:
		return "Walking"
	case MovementModeNavWalking:
		return "NavWalking"
	case MovementModeFalling:
		return "Falling"
	case MovementModeSwimming:
		return "Swimming"
	case MovementModeFlying:
		return "Flying"
	case MovementModeCustom:
		return "Custom"
	}
	return "Unknown"
}

// InAirRotationMode decides how the character rotates while falling.
type InAirRotationMode uint8

const (
	InAirRotationModeRotateToVelocityOnJump InAirRotationMode = iota
	InAirRotationModeKeepRelativeRotation
	InAirRotationModeKeepWorldRotation
)

// MantlingType classifies a ledge by how it is reached.
type MantlingType uint8

const (
	MantlingTypeLow MantlingType = iota
	MantlingTypeHigh
	MantlingTypeInAir
)

func (t MantlingType) String() string {
	switch t {
	case MantlingTypeLow:
		return "Low"
	case MantlingTypeHigh:
		return "High"
	case MantlingTypeInAir:
		return "InAir"
	}
	return "Unknown"
}
