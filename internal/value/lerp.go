package value

import (
	"fmt"
	"math"
)

// Lerp interpolates between a and b at t in [0, 1]; t is clamped.
//
// Float, double, color and vector kinds interpolate per component; integer
// kinds round to nearest; quaternions use normalized lerp along the shorter
// arc. Every other kind is discrete and switches from a to b at t == 1.
// a and b must have the same kind. The result borrows any reference from a
// or b.
func Lerp(a, b Value, t float64) Value {
	if a.Kind() != b.Kind() {
		Violate("lerp", "kind mismatch: %v and %v", a.Kind(), b.Kind())
	}
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y float64) float64 { return x + (y-x)*t }
	mix32 := func(x, y float32) float32 { return float32(mix(float64(x), float64(y))) }

	switch av := a.(type) {
	case Float:
		return Float(mix32(float32(av), float32(b.(Float))))
	case Double:
		return Double(mix(float64(av), float64(b.(Double))))
	case Integer:
		return Integer(math.Round(mix(float64(av), float64(b.(Integer)))))
	case UInt32:
		return UInt32(math.Round(mix(float64(av), float64(b.(UInt32)))))
	case Color:
		bv := b.(Color)
		return Color{R: mix32(av.R, bv.R), G: mix32(av.G, bv.G), B: mix32(av.B, bv.B), A: mix32(av.A, bv.A)}
	case Vec3:
		bv := b.(Vec3)
		return Vec3{mix32(av[0], bv[0]), mix32(av[1], bv[1]), mix32(av[2], bv[2])}
	case Vec4:
		bv := b.(Vec4)
		return Vec4{mix32(av[0], bv[0]), mix32(av[1], bv[1]), mix32(av[2], bv[2]), mix32(av[3], bv[3])}
	case Quaternion:
		return nlerp(av, b.(Quaternion), t)
	case Enum, Boolean, Object, Asset, Pointer, Text:
		if t >= 1 {
			return b
		}
		return a
	default:
		panic(fmt.Sprintf("value.Lerp: unknown value type %T", a))
	}
}

func nlerp(a, b Quaternion, t float64) Quaternion {
	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	if dot < 0 {
		b = Quaternion{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
	}
	ft := float32(t)
	q := Quaternion{
		X: a.X + (b.X-a.X)*ft,
		Y: a.Y + (b.Y-a.Y)*ft,
		Z: a.Z + (b.Z-a.Z)*ft,
		W: a.W + (b.W-a.W)*ft,
	}
	n := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if n == 0 {
		return Quaternion{W: 1}
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}
