package harness

import (
	"fmt"
	"math"

	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/value"
)

// refResolver returns the borrowed shared reference of a named object.
type refResolver func(name string) (*value.Ref, error)

// toValue converts a YAML scalar or list into a payload of p's kind.
// Object and asset payloads name another scenario object; "" or a missing
// value is the null reference. The result borrows any reference it holds.
func toValue(p *property.Instance, raw any, refs refResolver) (value.Value, error) {
	k := p.Kind()
	switch k {
	case value.KindFloat:
		f, err := number(raw)
		return value.Float(f), err
	case value.KindDouble:
		f, err := number(raw)
		return value.Double(f), err
	case value.KindInteger:
		n, err := integer(raw, math.MinInt32, math.MaxInt32)
		return value.Integer(n), err
	case value.KindUInt32:
		n, err := integer(raw, 0, math.MaxUint32)
		return value.UInt32(n), err
	case value.KindEnum:
		if name, ok := raw.(string); ok {
			for ord, n := range p.Spec().EnumNames() {
				if n == name {
					return value.Enum(ord), nil
				}
			}
			return nil, fmt.Errorf("%s has no enum value %q", p.Name(), name)
		}
		n, err := integer(raw, math.MinInt32, math.MaxInt32)
		return value.Enum(n), err
	case value.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return value.Boolean(b), nil
	case value.KindText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return value.Text(s), nil
	case value.KindObject, value.KindAsset:
		ref, err := reference(raw, refs)
		if err != nil {
			return nil, err
		}
		if k == value.KindAsset {
			return value.Asset{Ref: ref}, nil
		}
		return value.Object{Ref: ref}, nil
	case value.KindQuaternion:
		fs, err := components(raw, 4)
		if err != nil {
			return nil, err
		}
		return value.Quaternion{X: fs[0], Y: fs[1], Z: fs[2], W: fs[3]}, nil
	case value.KindColor:
		fs, err := components(raw, 4)
		if err != nil {
			return nil, err
		}
		return value.Color{R: fs[0], G: fs[1], B: fs[2], A: fs[3]}, nil
	case value.KindVec3:
		fs, err := components(raw, 3)
		if err != nil {
			return nil, err
		}
		return value.Vec3{fs[0], fs[1], fs[2]}, nil
	case value.KindVec4:
		fs, err := components(raw, 4)
		if err != nil {
			return nil, err
		}
		return value.Vec4{fs[0], fs[1], fs[2], fs[3]}, nil
	default:
		return nil, fmt.Errorf("%s: kind %v cannot be written by a scenario", p.Name(), k)
	}
}

func number(raw any) (float64, error) {
	switch n := raw.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

func integer(raw any, lo, hi int64) (int64, error) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("integer %d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func components(raw any, n int) ([]float32, error) {
	list, ok := raw.([]any)
	if !ok || len(list) != n {
		return nil, fmt.Errorf("expected a list of %d numbers", n)
	}
	fs := make([]float32, n)
	for i, c := range list {
		f, err := number(c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		fs[i] = float32(f)
	}
	return fs, nil
}

func reference(raw any, refs refResolver) (*value.Ref, error) {
	if raw == nil {
		return nil, nil
	}
	name, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected object name, got %T", raw)
	}
	if name == "" {
		return nil, nil
	}
	return refs(name)
}
