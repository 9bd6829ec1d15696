package value

import (
	"fmt"
	"math"
)

// CoerceScalar converts src to kind dst through a float64 intermediate.
//
// Booleans convert to 0 or 1; numbers convert to boolean as != 0. Conversions
// to integer kinds truncate toward zero and saturate at the target range;
// NaN becomes 0. Both dst and src's kind must be scalar, otherwise this is a
// contract violation.
//
// The returned box is new and owned by the caller.
func CoerceScalar(dst Kind, src *Box) *Box {
	src.mustLive("coerce")
	if !dst.IsScalar() {
		Violate("coerce", "destination kind %v is not scalar", dst)
	}
	if !src.v.Kind().IsScalar() {
		Violate("coerce", "source kind %v is not scalar", src.v.Kind())
	}
	return NewBox(FromFloat64(dst, ToFloat64(src.v)))
}

// ToFloat64 returns the numeric value of a scalar payload.
func ToFloat64(v Value) float64 {
	switch val := v.(type) {
	case Float:
		return float64(val)
	case Double:
		return float64(val)
	case Integer:
		return float64(val)
	case Enum:
		return float64(val)
	case UInt32:
		return float64(val)
	case Boolean:
		if val {
			return 1
		}
		return 0
	case Object, Asset, Pointer, Quaternion, Color, Vec3, Vec4, Text:
		Violate("coerce", "kind %v is not scalar", v.Kind())
		return 0
	default:
		panic(fmt.Sprintf("value.ToFloat64: unknown value type %T", v))
	}
}

// FromFloat64 builds a payload of scalar kind k from f.
func FromFloat64(k Kind, f float64) Value {
	switch k {
	case KindFloat:
		return Float(f)
	case KindDouble:
		return Double(f)
	case KindInteger:
		return Integer(saturate(f, math.MinInt32, math.MaxInt32))
	case KindEnum:
		return Enum(saturate(f, math.MinInt32, math.MaxInt32))
	case KindUInt32:
		return UInt32(saturate(f, 0, math.MaxUint32))
	case KindBoolean:
		return Boolean(f != 0)
	case KindObject, KindAsset, KindPointer, KindQuaternion, KindColor, KindVec3, KindVec4, KindText:
		Violate("coerce", "kind %v is not scalar", k)
		return nil
	default:
		panic(fmt.Sprintf("value.FromFloat64: unknown kind %v", k))
	}
}

// saturate truncates f toward zero and clamps it to [lo, hi].
func saturate(f, lo, hi float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Trunc(f)
	if f < lo {
		return int64(lo)
	}
	if f > hi {
		return int64(hi)
	}
	return int64(f)
}
