package game

import "github.com/oomph-ac/locomotion/oerror"

// Key is a single point of a Curve.
type Key struct {
	Time  float32
	Value float32
}

// Curve is a piecewise linear function. Values before the first key and after the last key
// are clamped to the value of that key. Tunable shapes such as the mantling start time or the
// rolling rotation profile are expressed as curves so they stay configuration data.
type Curve struct {
	Keys []Key
}

// NewCurve creates a curve from keys that are already sorted by time.
func NewCurve(keys ...Key) Curve {
	return Curve{Keys: keys}
}

// ConstantCurve returns a curve that evaluates to v everywhere.
func ConstantCurve(v float32) Curve {
	return Curve{Keys: []Key{{Time: 0, Value: v}}}
}

// LinearCurve returns the identity curve on [0, 1].
func LinearCurve() Curve {
	return Curve{Keys: []Key{{Time: 0, Value: 0}, {Time: 1, Value: 1}}}
}

// Eval samples the curve at t. An empty curve evaluates to 0.
func (c Curve) Eval(t float32) float32 {
	switch len(c.Keys) {
	case 0:
		return 0
	case 1:
		return c.Keys[0].Value
	}

	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	last := c.Keys[len(c.Keys)-1]
	if t >= last.Time {
		return last.Value
	}

	for i := 1; i < len(c.Keys); i++ {
		next := c.Keys[i]
		if t > next.Time {
			continue
		}
		prev := c.Keys[i-1]
		span := next.Time - prev.Time
		if span <= 0 {
			return next.Value
		}
		return Lerp(prev.Value, next.Value, (t-prev.Time)/span)
	}
	return last.Value
}

// Range returns the time of the first and last key.
func (c Curve) Range() (float32, float32) {
	if len(c.Keys) == 0 {
		return 0, 0
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time
}

// NonDecreasing reports whether the curve never yields a smaller value for a larger time.
func (c Curve) NonDecreasing() bool {
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Value < c.Keys[i-1].Value {
			return false
		}
	}
	return true
}

// Validate checks that the keys are strictly sorted by time.
func (c Curve) Validate() error {
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Time <= c.Keys[i-1].Time {
			return oerror.New("curve keys must be sorted by time: key %d (t=%v) follows t=%v", i, c.Keys[i].Time, c.Keys[i-1].Time)
		}
	}
	return nil
}
