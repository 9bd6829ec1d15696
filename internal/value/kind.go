package value

import "fmt"

// Kind identifies one of the closed set of property value kinds.
// The zero Kind is invalid.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat
	KindDouble
	KindInteger
	KindEnum
	KindUInt32
	KindBoolean
	KindObject
	KindAsset
	KindPointer
	KindQuaternion
	KindColor
	KindVec3
	KindVec4
	KindText
)

// kindNames are the lowercase names used in schemas, scenarios and the wire format.
var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindFloat:      "float",
	KindDouble:     "double",
	KindInteger:    "integer",
	KindEnum:       "enum",
	KindUInt32:     "uint32",
	KindBoolean:    "boolean",
	KindObject:     "object",
	KindAsset:      "asset",
	KindPointer:    "pointer",
	KindQuaternion: "quaternion",
	KindColor:      "color",
	KindVec3:       "vec3",
	KindVec4:       "vec4",
	KindText:       "text",
}

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{
	KindFloat, KindDouble, KindInteger, KindEnum, KindUInt32, KindBoolean,
	KindObject, KindAsset, KindPointer,
	KindQuaternion, KindColor, KindVec3, KindVec4,
	KindText,
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindText
}

// IsScalar reports whether k is one of the six mutually coercible kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case KindFloat, KindDouble, KindInteger, KindEnum, KindUInt32, KindBoolean:
		return true
	}
	return false
}

// IsCounted reports whether k carries a shared-ownership *Ref.
func (k Kind) IsCounted() bool {
	return k == KindObject || k == KindAsset
}

// ParseKind converts a kind name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if k != int(KindInvalid) && n == name {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown property kind %q", name)
}
