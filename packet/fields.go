package packet

import (
	"math/bits"

	"github.com/oomph-ac/locomotion/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Field identifies one replicated character field.
type Field uint8

const (
	FieldDesiredAiming Field = iota
	FieldDesiredRotationMode
	FieldDesiredStance
	FieldDesiredGait
	FieldViewMode
	FieldOverlayMode
	FieldLocomotionMode
	FieldRotationMode
	FieldStance
	FieldGait
	FieldLocomotionAction
	FieldViewRotation

	FieldCount
)

// FieldMask is a set of fields.
type FieldMask uint32

// Has reports whether f is in the mask.
func (m FieldMask) Has(f Field) bool {
	return m&(1<<f) != 0
}

// With returns the mask with f added.
func (m FieldMask) With(f Field) FieldMask {
	return m | 1<<f
}

// Len returns the number of fields in the mask.
func (m FieldMask) Len() int {
	return bits.OnesCount32(uint32(m))
}

// OwnerPredictedFields are the fields the owner predicts locally. They are never replicated back
// to the owner, so a late echo cannot overwrite a newer prediction.
const OwnerPredictedFields = FieldMask(1<<FieldDesiredAiming | 1<<FieldDesiredRotationMode | 1<<FieldDesiredStance |
	1<<FieldDesiredGait | 1<<FieldViewMode | 1<<FieldOverlayMode | 1<<FieldViewRotation)

// AllFields contains every replicated field.
const AllFields = FieldMask(1<<FieldCount - 1)

// Fields is the replicated state of a character.
type Fields struct {
	DesiredAiming       bool
	DesiredRotationMode game.RotationMode
	DesiredStance       game.Stance
	DesiredGait         game.Gait
	ViewMode            game.ViewMode
	OverlayMode         game.OverlayMode

	LocomotionMode   game.LocomotionMode
	RotationMode     game.RotationMode
	Stance           game.Stance
	Gait             game.Gait
	LocomotionAction game.LocomotionAction

	ViewRotation game.Rotator
}

// MarshalField marshals a single field of f.
func (f *Fields) MarshalField(io protocol.IO, field Field) {
	switch field {
	case FieldDesiredAiming:
		io.Bool(&f.DesiredAiming)
	case FieldDesiredRotationMode:
		tag(io, &f.DesiredRotationMode)
	case FieldDesiredStance:
		tag(io, &f.DesiredStance)
	case FieldDesiredGait:
		tag(io, &f.DesiredGait)
	case FieldViewMode:
		tag(io, &f.ViewMode)
	case FieldOverlayMode:
		tag(io, &f.OverlayMode)
	case FieldLocomotionMode:
		tag(io, &f.LocomotionMode)
	case FieldRotationMode:
		tag(io, &f.RotationMode)
	case FieldStance:
		tag(io, &f.Stance)
	case FieldGait:
		tag(io, &f.Gait)
	case FieldLocomotionAction:
		tag(io, &f.LocomotionAction)
	case FieldViewRotation:
		rotator(io, &f.ViewRotation)
	}
}

// FieldUpdate carries the fields in Mask. Fields outside the mask hold no meaning.
type FieldUpdate struct {
	Mask   FieldMask
	Fields Fields
}

func (*FieldUpdate) ID() uint32 {
	return IDFieldUpdate
}

func (pk *FieldUpdate) Marshal(io protocol.IO) {
	mask := uint32(pk.Mask)
	io.Varuint32(&mask)
	pk.Mask = FieldMask(mask)

	for field := Field(0); field < FieldCount; field++ {
		if pk.Mask.Has(field) {
			pk.Fields.MarshalField(io, field)
		}
	}
}
