package value

import (
	"fmt"
	"math"
	"strconv"
)

// EnumTable maps enum ordinals to display names.
type EnumTable map[int32]string

// DisplayString renders a box for humans. enums, if non-nil, supplies names
// for KindEnum; unknown ordinals fall back to the number.
// Not intended for the hot path.
func DisplayString(b *Box, enums EnumTable) string {
	b.mustLive("display")
	return formatValue(b.v, enums)
}

func formatValue(v Value, enums EnumTable) string {
	switch val := v.(type) {
	case Float:
		return formatFloat(float64(val), 32)
	case Double:
		return formatFloat(float64(val), 64)
	case Integer:
		return strconv.FormatInt(int64(val), 10)
	case Enum:
		if name, ok := enums[int32(val)]; ok {
			return name
		}
		return strconv.FormatInt(int64(val), 10)
	case UInt32:
		return strconv.FormatUint(uint64(val), 10)
	case Boolean:
		return strconv.FormatBool(bool(val))
	case Object:
		return formatRef("object", val.Ref)
	case Asset:
		return formatRef("asset", val.Ref)
	case Pointer:
		if val.P == nil {
			return "null"
		}
		return fmt.Sprintf("pointer(%p)", val.P)
	case Quaternion:
		axis, angle := AxisAngle(val)
		return fmt.Sprintf("axis=(%s, %s, %s) angle=%sdeg",
			formatFloat(axis[0], 32), formatFloat(axis[1], 32), formatFloat(axis[2], 32),
			formatFloat(angle*180/math.Pi, 32))
	case Color:
		return fmt.Sprintf("rgba(%s, %s, %s, %s)",
			formatFloat(float64(val.R), 32), formatFloat(float64(val.G), 32),
			formatFloat(float64(val.B), 32), formatFloat(float64(val.A), 32))
	case Vec3:
		return fmt.Sprintf("(%s, %s, %s)",
			formatFloat(float64(val[0]), 32), formatFloat(float64(val[1]), 32), formatFloat(float64(val[2]), 32))
	case Vec4:
		return fmt.Sprintf("(%s, %s, %s, %s)",
			formatFloat(float64(val[0]), 32), formatFloat(float64(val[1]), 32),
			formatFloat(float64(val[2]), 32), formatFloat(float64(val[3]), 32))
	case Text:
		return strconv.Quote(string(val))
	default:
		panic(fmt.Sprintf("value.DisplayString: unknown value type %T", v))
	}
}

func formatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func formatRef(label string, r *Ref) string {
	if r == nil {
		return "null"
	}
	return fmt.Sprintf("%s(%v)", label, r.Target())
}

// AxisAngle decomposes q into a unit rotation axis and an angle in radians.
// q is normalized first. A rotation with no well-defined axis reports (1, 0, 0).
func AxisAngle(q Quaternion) (axis [3]float64, angle float64) {
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n == 0 {
		return [3]float64{1, 0, 0}, 0
	}
	x, y, z, w = x/n, y/n, z/n, w/n
	if w < 0 {
		x, y, z, w = -x, -y, -z, -w
	}
	angle = 2 * math.Acos(math.Min(w, 1))
	s := math.Sqrt(1 - w*w)
	if s < 1e-6 {
		return [3]float64{1, 0, 0}, angle
	}
	return [3]float64{x / s, y / s, z / s}, angle
}
