package property

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/roach88/proplink/internal/value"
)

// Flags describe how a property may be used.
type Flags uint8

const (
	// Readable allows the typed getters.
	Readable Flags = 1 << iota
	// Writable allows the typed setters.
	Writable
	// LoggedForExport records every mutation in the session change log.
	LoggedForExport
	// Animatable allows Animate.
	Animatable
)

// DefaultFlags is Readable|Writable.
const DefaultFlags = Readable | Writable

// Has reports whether all bits of x are set in f.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

var flagNames = []struct {
	bit  Flags
	name string
}{
	{Readable, "readable"},
	{Writable, "writable"},
	{LoggedForExport, "logged"},
	{Animatable, "animatable"},
}

// String lists the set flags, e.g. "readable|writable".
func (f Flags) String() string {
	var parts []string
	for _, fl := range flagNames {
		if f.Has(fl.bit) {
			parts = append(parts, fl.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseFlags combines flag names as printed by String.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, n := range names {
		found := false
		for _, fl := range flagNames {
			if fl.name == n {
				f |= fl.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown property flag %q", n)
		}
	}
	return f, nil
}

// Storage says where an instance's value lives. It is a closed variant:
// either Offset or Accessor.
type Storage interface {
	storage() // Sealed
}

// Offset stores the value in a field of the owner, which must be a non-nil
// pointer to a struct. Bytes is normally computed with unsafe.Offsetof.
//
// The field's Go type must match the kind:
//
//	float      float32 / value.Float
//	double     float64 / value.Double
//	integer    int32 / value.Integer
//	enum       int32 / value.Enum
//	uint32     uint32 / value.UInt32
//	boolean    bool / value.Boolean
//	object     *value.Ref
//	asset      *value.Ref
//	pointer    unsafe.Pointer
//	quaternion value.Quaternion
//	color      value.Color
//	vec3       value.Vec3
//	vec4       value.Vec4
//	text       string / value.Text
type Offset struct {
	Bytes uintptr
}

// Accessor stores the value behind a getter/setter pair.
// Get returns a borrowed payload; Set stores v as-is. Reference counting of
// object and asset payloads is handled by the engine around these calls.
type Accessor struct {
	Get func(owner any) value.Value
	Set func(owner any, v value.Value)
}

func (Offset) storage()   {}
func (Accessor) storage() {}

// Spec is the immutable description of one property of an owner class.
type Spec struct {
	name    string
	kind    value.Kind
	storage Storage
	flags   Flags
	enums   value.EnumTable
}

// SpecOption configures optional Spec fields.
type SpecOption func(*Spec)

// WithEnumNames attaches a display name table to an enum property.
func WithEnumNames(names value.EnumTable) SpecOption {
	return func(s *Spec) {
		s.enums = names
	}
}

// NewSpec creates a property descriptor. An empty name, an invalid kind, a
// nil storage or an Accessor missing either function is a contract violation.
func NewSpec(name string, kind value.Kind, storage Storage, flags Flags, opts ...SpecOption) *Spec {
	if name == "" {
		value.Violate("spec", "property name is required")
	}
	if !kind.Valid() {
		value.Violate("spec", "property %q has invalid kind %v", name, kind)
	}
	switch st := storage.(type) {
	case Offset:
	case Accessor:
		if st.Get == nil || st.Set == nil {
			value.Violate("spec", "property %q accessor needs both Get and Set", name)
		}
	case nil:
		value.Violate("spec", "property %q has no storage", name)
	default:
		value.Violate("spec", "property %q has unknown storage %T", name, storage)
	}

	s := &Spec{name: name, kind: kind, storage: storage, flags: flags}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the property name.
func (s *Spec) Name() string { return s.name }

// Kind returns the value kind.
func (s *Spec) Kind() value.Kind { return s.kind }

// Storage returns the storage strategy.
func (s *Spec) Storage() Storage { return s.storage }

// Flags returns the property flags.
func (s *Spec) Flags() Flags { return s.flags }

// EnumNames returns the display name table, or nil.
func (s *Spec) EnumNames() value.EnumTable { return s.enums }

// read returns the payload currently stored for owner. The payload is
// borrowed from storage.
func (s *Spec) read(owner any) value.Value {
	switch st := s.storage.(type) {
	case Offset:
		return readField(s.kind, fieldPtr(owner, s.kind, st.Bytes))
	case Accessor:
		v := st.Get(owner)
		if v == nil || v.Kind() != s.kind {
			value.Violate("get", "accessor for %q returned %v, want %v", s.name, v, s.kind)
		}
		return v
	default:
		panic("property: unknown storage")
	}
}

// write stores v for owner. v's reference, if any, is transferred to storage.
func (s *Spec) write(owner any, v value.Value) {
	switch st := s.storage.(type) {
	case Offset:
		writeField(fieldPtr(owner, s.kind, st.Bytes), v)
	case Accessor:
		st.Set(owner, v)
	default:
		panic("property: unknown storage")
	}
}

// fieldPtr returns the address of the k-kinded field at off inside owner.
// The whole field must lie inside the struct.
func fieldPtr(owner any, k value.Kind, off uintptr) unsafe.Pointer {
	rv := reflect.ValueOf(owner)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		value.Violate("storage", "offset storage needs a non-nil struct pointer owner, got %T", owner)
	}
	size := rv.Elem().Type().Size()
	if w := fieldSize(k); off > size || w > size-off {
		value.Violate("storage", "%v field at offset %d (%d bytes) outside %v", k, off, w, rv.Elem().Type())
	}
	return unsafe.Add(rv.UnsafePointer(), off)
}

// fieldSize is the width of the Go field that stores a k payload.
func fieldSize(k value.Kind) uintptr {
	switch k {
	case value.KindFloat:
		return unsafe.Sizeof(float32(0))
	case value.KindDouble:
		return unsafe.Sizeof(float64(0))
	case value.KindInteger, value.KindEnum:
		return unsafe.Sizeof(int32(0))
	case value.KindUInt32:
		return unsafe.Sizeof(uint32(0))
	case value.KindBoolean:
		return unsafe.Sizeof(false)
	case value.KindObject, value.KindAsset:
		return unsafe.Sizeof((*value.Ref)(nil))
	case value.KindPointer:
		return unsafe.Sizeof(unsafe.Pointer(nil))
	case value.KindQuaternion:
		return unsafe.Sizeof(value.Quaternion{})
	case value.KindColor:
		return unsafe.Sizeof(value.Color{})
	case value.KindVec3:
		return unsafe.Sizeof(value.Vec3{})
	case value.KindVec4:
		return unsafe.Sizeof(value.Vec4{})
	case value.KindText:
		return unsafe.Sizeof("")
	default:
		panic(fmt.Sprintf("property: no field size for kind %v", k))
	}
}

func readField(k value.Kind, p unsafe.Pointer) value.Value {
	switch k {
	case value.KindFloat:
		return value.Float(*(*float32)(p))
	case value.KindDouble:
		return value.Double(*(*float64)(p))
	case value.KindInteger:
		return value.Integer(*(*int32)(p))
	case value.KindEnum:
		return value.Enum(*(*int32)(p))
	case value.KindUInt32:
		return value.UInt32(*(*uint32)(p))
	case value.KindBoolean:
		return value.Boolean(*(*bool)(p))
	case value.KindObject:
		return value.Object{Ref: *(**value.Ref)(p)}
	case value.KindAsset:
		return value.Asset{Ref: *(**value.Ref)(p)}
	case value.KindPointer:
		return value.Pointer{P: *(*unsafe.Pointer)(p)}
	case value.KindQuaternion:
		return *(*value.Quaternion)(p)
	case value.KindColor:
		return *(*value.Color)(p)
	case value.KindVec3:
		return *(*value.Vec3)(p)
	case value.KindVec4:
		return *(*value.Vec4)(p)
	case value.KindText:
		return value.Text(*(*string)(p))
	default:
		panic("property: readField: unknown kind " + k.String())
	}
}

func writeField(p unsafe.Pointer, v value.Value) {
	switch val := v.(type) {
	case value.Float:
		*(*float32)(p) = float32(val)
	case value.Double:
		*(*float64)(p) = float64(val)
	case value.Integer:
		*(*int32)(p) = int32(val)
	case value.Enum:
		*(*int32)(p) = int32(val)
	case value.UInt32:
		*(*uint32)(p) = uint32(val)
	case value.Boolean:
		*(*bool)(p) = bool(val)
	case value.Object:
		*(**value.Ref)(p) = val.Ref
	case value.Asset:
		*(**value.Ref)(p) = val.Ref
	case value.Pointer:
		*(*unsafe.Pointer)(p) = val.P
	case value.Quaternion:
		*(*value.Quaternion)(p) = val
	case value.Color:
		*(*value.Color)(p) = val
	case value.Vec3:
		*(*value.Vec3)(p) = val
	case value.Vec4:
		*(*value.Vec4)(p) = val
	case value.Text:
		*(*string)(p) = string(val)
	default:
		panic("property: writeField: unknown value type")
	}
}
