package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/proplink/internal/value"
)

// ErrUnsupportedKind is returned for payloads that have no wire form:
// pointers always, objects and assets when no RefCodec is configured.
var ErrUnsupportedKind = errors.New("kind has no wire representation")

// RefCodec maps shared object and asset references to stable string keys
// and back. A nil reference is encoded as the empty key and never reaches
// the codec.
type RefCodec interface {
	RefKey(r *value.Ref) (string, error)
	// LookupRef returns a borrowed reference.
	LookupRef(key string) (*value.Ref, error)
}

// EncodeValue converts v to its canonical JSON tree.
//
//	float, double            shortest round-trip decimal string
//	integer, enum, uint32    number
//	boolean                  true / false
//	object, asset            reference key string ("" for null)
//	quaternion               ["x","y","z","w"]
//	color                    ["r","g","b","a"]
//	vec3, vec4               array of decimal strings
//	text                     string, byte for byte
func EncodeValue(v value.Value, refs RefCodec) (any, error) {
	switch val := v.(type) {
	case value.Float:
		return formatFloat32(float32(val)), nil
	case value.Double:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), nil
	case value.Integer:
		return int64(val), nil
	case value.Enum:
		return int64(val), nil
	case value.UInt32:
		return int64(val), nil
	case value.Boolean:
		return bool(val), nil
	case value.Object:
		return encodeRef(val.Ref, refs)
	case value.Asset:
		return encodeRef(val.Ref, refs)
	case value.Pointer:
		return nil, fmt.Errorf("pointer: %w", ErrUnsupportedKind)
	case value.Quaternion:
		return floats32(val.X, val.Y, val.Z, val.W), nil
	case value.Color:
		return floats32(val.R, val.G, val.B, val.A), nil
	case value.Vec3:
		return floats32(val[:]...), nil
	case value.Vec4:
		return floats32(val[:]...), nil
	case value.Text:
		return string(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// DecodeValue parses the JSON form of a k payload. References come from
// refs.LookupRef and are borrowed; boxing the result takes a reference.
func DecodeValue(k value.Kind, raw json.RawMessage, refs RefCodec) (value.Value, error) {
	switch k {
	case value.KindFloat:
		f, err := decodeFloat(raw, 32)
		return value.Float(f), err
	case value.KindDouble:
		f, err := decodeFloat(raw, 64)
		return value.Double(f), err
	case value.KindInteger:
		n, err := decodeInt(raw, math.MinInt32, math.MaxInt32)
		return value.Integer(n), err
	case value.KindEnum:
		n, err := decodeInt(raw, math.MinInt32, math.MaxInt32)
		return value.Enum(n), err
	case value.KindUInt32:
		n, err := decodeInt(raw, 0, math.MaxUint32)
		return value.UInt32(n), err
	case value.KindBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("boolean: %w", err)
		}
		return value.Boolean(b), nil
	case value.KindObject:
		r, err := decodeRef(raw, refs)
		if err != nil {
			return nil, err
		}
		return value.Object{Ref: r}, nil
	case value.KindAsset:
		r, err := decodeRef(raw, refs)
		if err != nil {
			return nil, err
		}
		return value.Asset{Ref: r}, nil
	case value.KindPointer:
		return nil, fmt.Errorf("pointer: %w", ErrUnsupportedKind)
	case value.KindQuaternion:
		f, err := decodeFloats(raw, 4)
		if err != nil {
			return nil, err
		}
		return value.Quaternion{X: f[0], Y: f[1], Z: f[2], W: f[3]}, nil
	case value.KindColor:
		f, err := decodeFloats(raw, 4)
		if err != nil {
			return nil, err
		}
		return value.Color{R: f[0], G: f[1], B: f[2], A: f[3]}, nil
	case value.KindVec3:
		f, err := decodeFloats(raw, 3)
		if err != nil {
			return nil, err
		}
		return value.Vec3{f[0], f[1], f[2]}, nil
	case value.KindVec4:
		f, err := decodeFloats(raw, 4)
		if err != nil {
			return nil, err
		}
		return value.Vec4{f[0], f[1], f[2], f[3]}, nil
	case value.KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		return value.Text(s), nil
	default:
		return nil, fmt.Errorf("unknown kind %v", k)
	}
}

func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func floats32(fs ...float32) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = formatFloat32(f)
	}
	return out
}

func decodeFloat(raw json.RawMessage, bits int) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("float must be a decimal string: %w", err)
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, fmt.Errorf("parse float %q: %w", s, err)
	}
	return f, nil
}

func decodeFloats(raw json.RawMessage, n int) ([]float32, error) {
	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("vector must be an array of decimal strings: %w", err)
	}
	if len(parts) != n {
		return nil, fmt.Errorf("vector has %d components, want %d", len(parts), n)
	}
	out := make([]float32, n)
	for i, s := range parts {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("component %d: parse float %q: %w", i, s, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func decodeInt(raw json.RawMessage, lo, hi int64) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("integer: %w", err)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("integer %q: %w", n, err)
	}
	if i < lo || i > hi {
		return 0, fmt.Errorf("integer %d out of range [%d, %d]", i, lo, hi)
	}
	return i, nil
}

func encodeRef(r *value.Ref, refs RefCodec) (any, error) {
	if r == nil {
		return "", nil
	}
	if refs == nil {
		return nil, fmt.Errorf("reference without codec: %w", ErrUnsupportedKind)
	}
	key, err := refs.RefKey(r)
	if err != nil {
		return nil, fmt.Errorf("reference key: %w", err)
	}
	return key, nil
}

func decodeRef(raw json.RawMessage, refs RefCodec) (*value.Ref, error) {
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("reference must be a key string: %w", err)
	}
	if key == "" {
		return nil, nil
	}
	if refs == nil {
		return nil, fmt.Errorf("reference without codec: %w", ErrUnsupportedKind)
	}
	r, err := refs.LookupRef(key)
	if err != nil {
		return nil, fmt.Errorf("lookup reference %q: %w", key, err)
	}
	return r, nil
}
