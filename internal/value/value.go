package value

import (
	"fmt"
	"unsafe"
)

// Value is a sealed interface over the payload of one property kind.
// Only the types declared in this file implement it.
type Value interface {
	// Kind returns the kind this payload belongs to.
	Kind() Kind

	value() // Sealed
}

// Float is a 32-bit floating point payload.
type Float float32

// Double is a 64-bit floating point payload.
type Double float64

// Integer is a signed 32-bit payload.
type Integer int32

// Enum is an enumeration ordinal. Display names come from the property's EnumTable.
type Enum int32

// UInt32 is an unsigned 32-bit payload.
type UInt32 uint32

// Boolean is a truth value.
type Boolean bool

// Object references a shared scene object. A nil Ref is the null object.
type Object struct {
	Ref *Ref
}

// Asset references a shared asset. A nil Ref is the null asset.
type Asset struct {
	Ref *Ref
}

// Pointer is a raw, unowned pointer. Nothing retains or releases it.
type Pointer struct {
	P unsafe.Pointer
}

// Quaternion is a rotation stored as (X, Y, Z, W).
type Quaternion struct {
	X, Y, Z, W float32
}

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// Vec3 is a fixed three component vector.
type Vec3 [3]float32

// Vec4 is a fixed four component vector.
type Vec4 [4]float32

// Text is an owned string.
type Text string

func (Float) Kind() Kind      { return KindFloat }
func (Double) Kind() Kind     { return KindDouble }
func (Integer) Kind() Kind    { return KindInteger }
func (Enum) Kind() Kind       { return KindEnum }
func (UInt32) Kind() Kind     { return KindUInt32 }
func (Boolean) Kind() Kind    { return KindBoolean }
func (Object) Kind() Kind     { return KindObject }
func (Asset) Kind() Kind      { return KindAsset }
func (Pointer) Kind() Kind    { return KindPointer }
func (Quaternion) Kind() Kind { return KindQuaternion }
func (Color) Kind() Kind      { return KindColor }
func (Vec3) Kind() Kind       { return KindVec3 }
func (Vec4) Kind() Kind       { return KindVec4 }
func (Text) Kind() Kind       { return KindText }

func (Float) value()      {}
func (Double) value()     {}
func (Integer) value()    {}
func (Enum) value()       {}
func (UInt32) value()     {}
func (Boolean) value()    {}
func (Object) value()     {}
func (Asset) value()      {}
func (Pointer) value()    {}
func (Quaternion) value() {}
func (Color) value()      {}
func (Vec3) value()       {}
func (Vec4) value()       {}
func (Text) value()       {}

// Zero returns the zero payload of kind k.
// The identity quaternion is used for KindQuaternion.
func Zero(k Kind) Value {
	switch k {
	case KindFloat:
		return Float(0)
	case KindDouble:
		return Double(0)
	case KindInteger:
		return Integer(0)
	case KindEnum:
		return Enum(0)
	case KindUInt32:
		return UInt32(0)
	case KindBoolean:
		return Boolean(false)
	case KindObject:
		return Object{}
	case KindAsset:
		return Asset{}
	case KindPointer:
		return Pointer{}
	case KindQuaternion:
		return Quaternion{W: 1}
	case KindColor:
		return Color{}
	case KindVec3:
		return Vec3{}
	case KindVec4:
		return Vec4{}
	case KindText:
		return Text("")
	default:
		panic(fmt.Sprintf("value.Zero: unknown kind %v", k))
	}
}

// Retain takes a new reference on any shared payload v carries and returns v.
// The caller owns the returned reference and must hand it to Release later.
func Retain(v Value) Value {
	switch val := v.(type) {
	case Object:
		retainRef(val.Ref)
	case Asset:
		retainRef(val.Ref)
	case Float, Double, Integer, Enum, UInt32, Boolean,
		Pointer, Quaternion, Color, Vec3, Vec4, Text:
	default:
		panic(fmt.Sprintf("value.Retain: unknown value type %T", v))
	}
	return v
}

// Release drops the reference a shared payload in v carries.
func Release(v Value) {
	switch val := v.(type) {
	case Object:
		releaseRef(val.Ref)
	case Asset:
		releaseRef(val.Ref)
	case Float, Double, Integer, Enum, UInt32, Boolean,
		Pointer, Quaternion, Color, Vec3, Vec4, Text:
	default:
		panic(fmt.Sprintf("value.Release: unknown value type %T", v))
	}
}

// Equal reports whether a and b hold the same kind and the same payload.
// Object and asset payloads compare by reference identity.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Float:
		return av == b.(Float)
	case Double:
		return av == b.(Double)
	case Integer:
		return av == b.(Integer)
	case Enum:
		return av == b.(Enum)
	case UInt32:
		return av == b.(UInt32)
	case Boolean:
		return av == b.(Boolean)
	case Object:
		return av.Ref == b.(Object).Ref
	case Asset:
		return av.Ref == b.(Asset).Ref
	case Pointer:
		return av.P == b.(Pointer).P
	case Quaternion:
		return av == b.(Quaternion)
	case Color:
		return av == b.(Color)
	case Vec3:
		return av == b.(Vec3)
	case Vec4:
		return av == b.(Vec4)
	case Text:
		return av == b.(Text)
	default:
		panic(fmt.Sprintf("value.Equal: unknown value type %T", a))
	}
}
