package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/value"
)

// DefaultFlags applies to properties that declare no flags.
const DefaultFlags = property.Readable | property.Writable | property.LoggedForExport

// PropertyDef is one compiled property declaration.
type PropertyDef struct {
	Name    string
	ID      uint32
	Kind    value.Kind
	Flags   property.Flags
	Enum    []string    // enum display names, indexed by value
	Default value.Value // zero value of Kind unless declared
	Pos     token.Pos
}

// Class is a compiled owner class.
type Class struct {
	Name       string
	Properties []PropertyDef

	specs  []*property.Spec
	byName map[string]int
}

// Property returns the definition of the named property.
func (c *Class) Property(name string) (PropertyDef, bool) {
	i, ok := c.byName[name]
	if !ok {
		return PropertyDef{}, false
	}
	return c.Properties[i], true
}

// Spec returns the descriptor shared by every node's instance of property i.
func (c *Class) Spec(i int) *property.Spec {
	return c.specs[i]
}

// CompileClass parses a CUE class value. The class name is the value's last
// path selector, e.g. "Rect" for class.Rect.
func CompileClass(v cue.Value) (*Class, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed)
	}

	c := &Class{byName: make(map[string]int)}
	if sels := v.Path().Selectors(); len(sels) > 0 {
		c.Name = sels[len(sels)-1].String()
	}

	propsVal := v.LookupPath(cue.ParsePath("property"))
	if !propsVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoProperties, Message: fmt.Sprintf("class %s declares no properties", c.Name), Pos: v.Pos()}
	}
	iter, err := propsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeGeneric)
	}
	for iter.Next() {
		def, err := compileProperty(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		def.ID = uint32(len(c.Properties) + 1)
		c.byName[def.Name] = len(c.Properties)
		c.Properties = append(c.Properties, def)
	}
	if len(c.Properties) == 0 {
		return nil, &LoadError{Code: ErrCodeNoProperties, Message: fmt.Sprintf("class %s declares no properties", c.Name), Pos: v.Pos()}
	}

	for i, def := range c.Properties {
		var opts []property.SpecOption
		if len(def.Enum) > 0 {
			names := make(value.EnumTable, len(def.Enum))
			for n, name := range def.Enum {
				names[int32(n)] = name
			}
			opts = append(opts, property.WithEnumNames(names))
		}
		c.specs = append(c.specs, property.NewSpec(def.Name, def.Kind, slotStorage(i), def.Flags, opts...))
	}
	return c, nil
}

func compileProperty(name string, v cue.Value) (PropertyDef, error) {
	def := PropertyDef{Name: name, Flags: DefaultFlags, Pos: v.Pos()}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return def, &LoadError{Code: ErrCodeKind, Message: fmt.Sprintf("property %s: kind is required", name), Pos: v.Pos()}
	}
	kindName, err := kindVal.String()
	if err != nil {
		return def, formatCUEError(err, ErrCodeKind)
	}
	def.Kind, err = value.ParseKind(kindName)
	if err != nil {
		return def, &LoadError{Code: ErrCodeKind, Message: fmt.Sprintf("property %s: %v", name, err), Pos: kindVal.Pos()}
	}

	if flagsVal := v.LookupPath(cue.ParsePath("flags")); flagsVal.Exists() {
		var names []string
		if err := flagsVal.Decode(&names); err != nil {
			return def, formatCUEError(err, ErrCodeFlags)
		}
		def.Flags, err = property.ParseFlags(names)
		if err != nil {
			return def, &LoadError{Code: ErrCodeFlags, Message: fmt.Sprintf("property %s: %v", name, err), Pos: flagsVal.Pos()}
		}
	}

	if enumVal := v.LookupPath(cue.ParsePath("enum")); enumVal.Exists() {
		if def.Kind != value.KindEnum {
			return def, &LoadError{Code: ErrCodeEnum, Message: fmt.Sprintf("property %s: enum names on a %v property", name, def.Kind), Pos: enumVal.Pos()}
		}
		if err := enumVal.Decode(&def.Enum); err != nil {
			return def, formatCUEError(err, ErrCodeEnum)
		}
	}

	def.Default = value.Zero(def.Kind)
	if defVal := v.LookupPath(cue.ParsePath("default")); defVal.Exists() {
		d, err := compileDefault(def, defVal)
		if err != nil {
			return def, &LoadError{Code: ErrCodeDefault, Message: fmt.Sprintf("property %s: %v", name, err), Pos: defVal.Pos()}
		}
		def.Default = d
	}
	return def, nil
}

// compileDefault converts a CUE default to a payload of def.Kind. Enum
// defaults may be given by number or by name.
func compileDefault(def PropertyDef, v cue.Value) (value.Value, error) {
	switch def.Kind {
	case value.KindFloat, value.KindDouble:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		if def.Kind == value.KindFloat {
			return value.Float(f), nil
		}
		return value.Double(f), nil
	case value.KindInteger, value.KindUInt32:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		if def.Kind == value.KindUInt32 {
			if n < 0 || n > 1<<32-1 {
				return nil, fmt.Errorf("default %d out of uint32 range", n)
			}
			return value.UInt32(n), nil
		}
		if n < -1<<31 || n > 1<<31-1 {
			return nil, fmt.Errorf("default %d out of int32 range", n)
		}
		return value.Integer(n), nil
	case value.KindEnum:
		if name, err := v.String(); err == nil {
			for i, n := range def.Enum {
				if n == name {
					return value.Enum(i), nil
				}
			}
			return nil, fmt.Errorf("default %q is not one of %v", name, def.Enum)
		}
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return value.Enum(n), nil
	case value.KindBoolean:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return value.Boolean(b), nil
	case value.KindText:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return value.Text(s), nil
	case value.KindQuaternion, value.KindColor, value.KindVec3, value.KindVec4:
		var fs []float32
		if err := v.Decode(&fs); err != nil {
			return nil, err
		}
		return vectorDefault(def.Kind, fs)
	default:
		return nil, fmt.Errorf("%v properties cannot declare a default", def.Kind)
	}
}

func vectorDefault(k value.Kind, fs []float32) (value.Value, error) {
	want := 4
	if k == value.KindVec3 {
		want = 3
	}
	if len(fs) != want {
		return nil, fmt.Errorf("%v default needs %d components, got %d", k, want, len(fs))
	}
	switch k {
	case value.KindQuaternion:
		return value.Quaternion{X: fs[0], Y: fs[1], Z: fs[2], W: fs[3]}, nil
	case value.KindColor:
		return value.Color{R: fs[0], G: fs[1], B: fs[2], A: fs[3]}, nil
	case value.KindVec3:
		return value.Vec3{fs[0], fs[1], fs[2]}, nil
	default:
		return value.Vec4{fs[0], fs[1], fs[2], fs[3]}, nil
	}
}
