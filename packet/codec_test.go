package packet

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
)

func TestEncodeDecodeMantling(t *testing.T) {
	in := &StartMantling{Parameters: game.MantlingParameters{
		TargetPrimitive:        "ledge",
		TargetRelativeLocation: mgl32.Vec3{1, 2, 3},
		TargetRelativeRotation: game.YawRotator(45),
		MantlingHeight:         140,
		MantlingType:           game.MantlingTypeHigh,
		Montage:                game.Montage{Name: "MantleHigh", Length: 1.6},
		PlayRate:               1,
		StartTime:              0.2,
	}}

	pk, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	out, ok := pk.(*StartMantling)
	if !ok {
		t.Fatalf("expected *StartMantling, got %T", pk)
	}
	if out.Parameters != in.Parameters {
		t.Fatalf("expected %+v, got %+v", in.Parameters, out.Parameters)
	}
}

func TestRagdollTargetLocationIsQuantized(t *testing.T) {
	pk, err := Decode(Encode(&RagdollTargetLocation{Location: mgl32.Vec3{10.4, -3.6, 99.5}}))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if loc := pk.(*RagdollTargetLocation).Location; loc != (mgl32.Vec3{10, -4, 100}) {
		t.Fatalf("expected the location to be rounded to whole units, got %v", loc)
	}
}

func TestFieldUpdateOnlyCarriesMaskedFields(t *testing.T) {
	in := &FieldUpdate{Mask: FieldMask(0).With(FieldGait).With(FieldViewRotation)}
	in.Fields.Gait = game.GaitSprinting
	in.Fields.Stance = game.StanceCrouching
	in.Fields.ViewRotation = game.Rotator{Pitch: -10, Yaw: 30}

	pk, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	out := pk.(*FieldUpdate)
	if out.Mask != in.Mask {
		t.Fatalf("expected mask %b, got %b", in.Mask, out.Mask)
	}
	if out.Fields.Gait != game.GaitSprinting || out.Fields.ViewRotation != in.Fields.ViewRotation {
		t.Fatalf("masked fields were not carried: %+v", out.Fields)
	}
	if out.Fields.Stance != game.StanceStanding {
		t.Fatalf("expected the unmasked stance to stay at its zero value, got %v", out.Fields.Stance)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}); err == nil {
		t.Fatalf("expected an unknown packet id to fail")
	}

	b := Encode(&StartRolling{Montage: game.Montage{Name: "Roll", Length: 1}, PlayRate: 1})
	if _, err := Decode(b[:len(b)-2]); err == nil {
		t.Fatalf("expected a truncated packet to fail")
	}
	if _, err := Decode(append(b, 0)); err == nil {
		t.Fatalf("expected trailing bytes to fail")
	}
}

func TestUnreliableTier(t *testing.T) {
	if !Unreliable(&ViewRotation{}) || !Unreliable(&RagdollTargetLocation{}) || !Unreliable(&Move{}) {
		t.Fatalf("expected continuous values to be unreliable")
	}
	if Unreliable(&StartMantling{}) || Unreliable(&StopRagdolling{}) || Unreliable(&Jumped{}) || Unreliable(&FieldUpdate{}) {
		t.Fatalf("expected discrete events to be reliable")
	}
}
