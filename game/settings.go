package game

import (
	"github.com/oomph-ac/locomotion/oerror"
)

// CharacterSettings holds every tunable of a character. The values are resolved once, from
// configuration, and never change while a character is alive.
type CharacterSettings struct {
	// MovingSpeedThreshold is the horizontal speed above which a character counts as moving
	// even without input.
	MovingSpeedThreshold float32
	// RotateTowardsDesiredVelocity makes velocity direction rotation use the velocity the input
	// asks for instead of the current one.
	RotateTowardsDesiredVelocity  bool
	RotateToVelocityWhenSprinting bool
	SprintHasPriorityOverAiming   bool
	AllowAimingWhenInAir          bool
	InAirRotationMode             InAirRotationMode
	// LimitGaitBySpeed derives the gait from the measured speed as well as from the desired gait,
	// so a decelerating character keeps its faster gait until it slows down.
	LimitGaitBySpeed bool
	// WalkableFloorZ is the minimum Z of a surface normal that can be stood on.
	WalkableFloorZ float32
	// RagdollOnDeath starts ragdolling when the character is killed.
	RagdollOnDeath bool

	View       ViewSettings
	Standing   GaitSettings
	Crouching  GaitSettings
	Mantling   MantlingSettings
	Ragdolling RagdollingSettings
	Rolling    RollingSettings
}

type ViewSettings struct {
	NetworkSmoothingEnabled bool
	// NetworkSmoothingDuration is the window, in seconds, over which a received view rotation is
	// blended in.
	NetworkSmoothingDuration float32
	// MaxSmoothingSpeed caps how fast, in degrees per second, the smoothed view may turn.
	MaxSmoothingSpeed float32
}

type GaitSettings struct {
	WalkSpeed   float32
	RunSpeed    float32
	SprintSpeed float32
	// RotationInterpolationSpeedCurve maps the gait amount (0 idle, 1 walk, 2 run, 3 sprint) to
	// the grounded rotation interpolation speed.
	RotationInterpolationSpeedCurve Curve
}

// Speed returns the maximum speed of a gait.
func (s GaitSettings) Speed(gait Gait) float32 {
	switch gait {
	case GaitWalking:
		return s.WalkSpeed
	case GaitSprinting:
		return s.SprintSpeed
	}
	return s.RunSpeed
}

// GaitAmount maps a speed onto the continuous gait scale used by the rotation speed curve.
func (s GaitSettings) GaitAmount(speed float32) float32 {
	switch {
	case speed <= s.WalkSpeed:
		if s.WalkSpeed <= 0 {
			return 0
		}
		return speed / s.WalkSpeed
	case speed <= s.RunSpeed:
		return 1 + (speed-s.WalkSpeed)/(s.RunSpeed-s.WalkSpeed)
	}
	return 2 + Clamp01((speed-s.RunSpeed)/(s.SprintSpeed-s.RunSpeed))
}

// MantlingTraceSettings bound the ledge search of a single mantling attempt.
type MantlingTraceSettings struct {
	LedgeHeightMin float32
	LedgeHeightMax float32
	ReachDistance  float32
	// TargetLocationOffset moves the downward trace past the wall onto the ledge.
	TargetLocationOffset float32
	// StartLocationOffset places the start overlap check in front of the wall.
	StartLocationOffset float32
}

// MantlingTypeSettings are selected per mantling type.
type MantlingTypeSettings struct {
	Montage  Montage
	PlayRate float32
	// StartTimeCurve maps the ledge height to the montage position playback starts at.
	StartTimeCurve Curve
	// The following curves are sampled with the mantling progress in [0, 1].
	InterpolationCurve        Curve
	HorizontalCorrectionCurve Curve
	VerticalCorrectionCurve   Curve
}

type MantlingSettings struct {
	// AllowInAir enables automatic mantling while falling with input.
	AllowInAir                    bool
	TraceAngleThreshold           float32
	MaxReachAngle                 float32
	TargetPrimitiveSpeedThreshold float32
	HighHeightThreshold           float32

	GroundedTrace MantlingTraceSettings
	InAirTrace    MantlingTraceSettings

	Low   MantlingTypeSettings
	High  MantlingTypeSettings
	InAir MantlingTypeSettings
}

// Type returns the settings of a mantling type.
func (s MantlingSettings) Type(t MantlingType) MantlingTypeSettings {
	switch t {
	case MantlingTypeHigh:
		return s.High
	case MantlingTypeInAir:
		return s.InAir
	}
	return s.Low
}

type RagdollingSettings struct {
	StartOnLand               bool
	StartOnLandSpeedThreshold float32
	// SettledSpeedThreshold is the pelvis speed below which a ragdoll may get up.
	SettledSpeedThreshold float32
	GetUpFront            Montage
	GetUpBack             Montage
}

type RollingSettings struct {
	Montage  Montage
	PlayRate float32
	// MinPlayRate and MaxPlayRate bound the play rate a roll may be started with.
	MinPlayRate               float32
	MaxPlayRate               float32
	CrouchOnStart             bool
	RotateToInputOnStart      bool
	InterruptWhenInAir        bool
	StartOnLand               bool
	StartOnLandSpeedThreshold float32
	// RotationCurve maps the roll progress in [0, 1] to the fraction of the yaw delta applied.
	RotationCurve Curve
}

// DefaultCharacterSettings returns the settings used when nothing is configured.
func DefaultCharacterSettings() CharacterSettings {
	return CharacterSettings{
		MovingSpeedThreshold:          50,
		RotateTowardsDesiredVelocity:  true,
		RotateToVelocityWhenSprinting: false,
		SprintHasPriorityOverAiming:   false,
		AllowAimingWhenInAir:          true,
		InAirRotationMode:             InAirRotationModeRotateToVelocityOnJump,
		WalkableFloorZ:                0.71,
		RagdollOnDeath:                true,
		View: ViewSettings{
			NetworkSmoothingEnabled:  true,
			NetworkSmoothingDuration: 0.1,
			MaxSmoothingSpeed:        1080,
		},
		Standing: GaitSettings{
			WalkSpeed:   175,
			RunSpeed:    375,
			SprintSpeed: 650,
			RotationInterpolationSpeedCurve: NewCurve(
				Key{Time: 0, Value: 5}, Key{Time: 1, Value: 5}, Key{Time: 2, Value: 10}, Key{Time: 3, Value: 20},
			),
		},
		Crouching: GaitSettings{
			WalkSpeed:   150,
			RunSpeed:    200,
			SprintSpeed: 300,
			RotationInterpolationSpeedCurve: NewCurve(
				Key{Time: 0, Value: 5}, Key{Time: 1, Value: 5}, Key{Time: 2, Value: 8}, Key{Time: 3, Value: 10},
			),
		},
		Mantling: MantlingSettings{
			AllowInAir:                    true,
			TraceAngleThreshold:           110,
			MaxReachAngle:                 50,
			TargetPrimitiveSpeedThreshold: 10,
			HighHeightThreshold:           125,
			GroundedTrace: MantlingTraceSettings{
				LedgeHeightMin: 50, LedgeHeightMax: 225, ReachDistance: 75, TargetLocationOffset: 15, StartLocationOffset: 55,
			},
			InAirTrace: MantlingTraceSettings{
				LedgeHeightMin: 50, LedgeHeightMax: 150, ReachDistance: 70, TargetLocationOffset: 15, StartLocationOffset: 55,
			},
			Low:   defaultMantlingType(Montage{Name: "MantleLow", Length: 1.2}, Key{Time: 50, Value: 0}, Key{Time: 125, Value: 0.3}),
			High:  defaultMantlingType(Montage{Name: "MantleHigh", Length: 1.6}, Key{Time: 125, Value: 0}, Key{Time: 225, Value: 0.4}),
			InAir: defaultMantlingType(Montage{Name: "MantleInAir", Length: 1.4}, Key{Time: 50, Value: 0}, Key{Time: 150, Value: 0.3}),
		},
		Ragdolling: RagdollingSettings{
			StartOnLand:               true,
			StartOnLandSpeedThreshold: 1000,
			SettledSpeedThreshold:     10,
			GetUpFront:                Montage{Name: "GetUpFront", Length: 1.5},
			GetUpBack:                 Montage{Name: "GetUpBack", Length: 1.8},
		},
		Rolling: RollingSettings{
			Montage:                   Montage{Name: "Roll", Length: 1},
			PlayRate:                  1,
			MinPlayRate:               0.5,
			MaxPlayRate:               2,
			CrouchOnStart:             true,
			RotateToInputOnStart:      true,
			InterruptWhenInAir:        true,
			StartOnLand:               true,
			StartOnLandSpeedThreshold: 700,
			RotationCurve:             NewCurve(Key{Time: 0, Value: 0}, Key{Time: 0.3, Value: 0.8}, Key{Time: 1, Value: 1}),
		},
	}
}

// ClampPlayRate clamps a requested play rate into the allowed range. A play rate that is not a
// positive finite number falls back to the configured play rate.
func (s RollingSettings) ClampPlayRate(playRate float32) float32 {
	if !(playRate > 0) || !Finite(playRate) {
		return s.PlayRate
	}
	return Clamp(playRate, s.MinPlayRate, s.MaxPlayRate)
}

func defaultMantlingType(montage Montage, startTimeKeys ...Key) MantlingTypeSettings {
	return MantlingTypeSettings{
		Montage:                   montage,
		PlayRate:                  1,
		StartTimeCurve:            NewCurve(startTimeKeys...),
		InterpolationCurve:        NewCurve(Key{Time: 0, Value: 0}, Key{Time: 0.5, Value: 1}),
		HorizontalCorrectionCurve: NewCurve(Key{Time: 0, Value: 0}, Key{Time: 0.3, Value: 0}, Key{Time: 1, Value: 1}),
		VerticalCorrectionCurve:   NewCurve(Key{Time: 0, Value: 0}, Key{Time: 0.6, Value: 1}),
	}
}

// Validate returns an error describing the first invalid setting.
func (s CharacterSettings) Validate() error {
	if s.View.NetworkSmoothingEnabled {
		if s.View.NetworkSmoothingDuration <= 0 {
			return oerror.New("view: network smoothing duration must be positive, got %v", s.View.NetworkSmoothingDuration)
		}
		if s.View.MaxSmoothingSpeed <= 0 {
			return oerror.New("view: max smoothing speed must be positive, got %v", s.View.MaxSmoothingSpeed)
		}
	}
	for name, g := range map[string]GaitSettings{"standing": s.Standing, "crouching": s.Crouching} {
		if g.WalkSpeed <= 0 || g.RunSpeed <= g.WalkSpeed || g.SprintSpeed <= g.RunSpeed {
			return oerror.New("%s gait: speeds must be positive and increasing (walk=%v run=%v sprint=%v)", name, g.WalkSpeed, g.RunSpeed, g.SprintSpeed)
		}
		if err := g.RotationInterpolationSpeedCurve.Validate(); err != nil {
			return oerror.New("%s gait: rotation interpolation speed curve: %w", name, err)
		}
	}
	for name, trace := range map[string]MantlingTraceSettings{"grounded": s.Mantling.GroundedTrace, "in air": s.Mantling.InAirTrace} {
		if trace.LedgeHeightMin < 0 || trace.LedgeHeightMax <= trace.LedgeHeightMin {
			return oerror.New("mantling %s trace: ledge height range [%v, %v] is empty", name, trace.LedgeHeightMin, trace.LedgeHeightMax)
		}
		if trace.ReachDistance <= 0 {
			return oerror.New("mantling %s trace: reach distance must be positive", name)
		}
	}
	for _, t := range []MantlingType{MantlingTypeLow, MantlingTypeHigh, MantlingTypeInAir} {
		if err := s.Mantling.Type(t).Validate(); err != nil {
			return oerror.New("mantling %s: %w", t, err)
		}
	}
	if s.Ragdolling.SettledSpeedThreshold < 0 {
		return oerror.New("ragdolling: settled speed threshold must not be negative")
	}
	if !(s.Rolling.MinPlayRate > 0) || !(s.Rolling.MaxPlayRate >= s.Rolling.MinPlayRate) {
		return oerror.New("rolling: play rate range [%v, %v] is empty", s.Rolling.MinPlayRate, s.Rolling.MaxPlayRate)
	}
	if s.Rolling.PlayRate < s.Rolling.MinPlayRate || s.Rolling.PlayRate > s.Rolling.MaxPlayRate {
		return oerror.New("rolling: play rate %v is outside [%v, %v]", s.Rolling.PlayRate, s.Rolling.MinPlayRate, s.Rolling.MaxPlayRate)
	}
	if err := s.Rolling.RotationCurve.Validate(); err != nil {
		return oerror.New("rolling: rotation curve: %w", err)
	}
	return nil
}

// Validate checks a single mantling type.
func (s MantlingTypeSettings) Validate() error {
	if !s.Montage.Valid() {
		return oerror.New("montage %q is not playable", s.Montage.Name)
	}
	if s.PlayRate <= 0 {
		return oerror.New("play rate must be positive, got %v", s.PlayRate)
	}
	for name, c := range map[string]Curve{
		"start time":            s.StartTimeCurve,
		"interpolation":         s.InterpolationCurve,
		"horizontal correction": s.HorizontalCorrectionCurve,
		"vertical correction":   s.VerticalCorrectionCurve,
	} {
		if err := c.Validate(); err != nil {
			return oerror.New("%s curve: %w", name, err)
		}
	}
	if !s.StartTimeCurve.NonDecreasing() {
		return oerror.New("start time curve must not decrease with ledge height")
	}
	return nil
}
