package value

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireViolation runs fn and asserts it panics with a *ContractViolation for op.
func requireViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected contract violation in %s", op)
		cv, ok := r.(*ContractViolation)
		require.True(t, ok, "panic payload should be *ContractViolation, got %T", r)
		assert.Equal(t, op, cv.Op)
	}()
	fn()
}

func TestValueSealed(t *testing.T) {
	var _ Value = Float(0)
	var _ Value = Double(0)
	var _ Value = Integer(0)
	var _ Value = Enum(0)
	var _ Value = UInt32(0)
	var _ Value = Boolean(false)
	var _ Value = Object{}
	var _ Value = Asset{}
	var _ Value = Pointer{}
	var _ Value = Quaternion{}
	var _ Value = Color{}
	var _ Value = Vec3{}
	var _ Value = Vec4{}
	var _ Value = Text("")
}

func TestZeroCoversEveryKind(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			z := Zero(k)
			require.NotNil(t, z)
			assert.Equal(t, k, z.Kind())
		})
	}
	assert.Equal(t, Quaternion{W: 1}, Zero(KindQuaternion))
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("invalid")
	assert.Error(t, err)
	_, err = ParseKind("matrix")
	assert.Error(t, err)
}

func TestKindClassification(t *testing.T) {
	scalars := []Kind{KindFloat, KindDouble, KindInteger, KindEnum, KindUInt32, KindBoolean}
	for _, k := range Kinds {
		assert.Equal(t, contains(scalars, k), k.IsScalar(), "IsScalar(%v)", k)
		assert.Equal(t, k == KindObject || k == KindAsset, k.IsCounted(), "IsCounted(%v)", k)
		assert.True(t, k.Valid())
	}
	assert.False(t, KindInvalid.Valid())
	assert.False(t, Kind(200).Valid())
}

func contains(ks []Kind, k Kind) bool {
	for _, c := range ks {
		if c == k {
			return true
		}
	}
	return false
}

func sampleValues(obj, asset *Ref) []Value {
	x := 7
	return []Value{
		Float(1.5),
		Double(-2.25),
		Integer(-42),
		Enum(3),
		UInt32(4000000000),
		Boolean(true),
		Object{Ref: obj},
		Asset{Ref: asset},
		Pointer{P: unsafe.Pointer(&x)},
		Quaternion{X: 0, Y: 0, Z: 0, W: 1},
		Color{R: 1, G: 0.5, B: 0.25, A: 1},
		Vec3{1, 2, 3},
		Vec4{1, 2, 3, 4},
		Text("hello"),
	}
}

func TestCopyRoundTripEveryKind(t *testing.T) {
	obj := NewRef("obj", nil)
	asset := NewRef("asset", nil)

	for _, v := range sampleValues(obj, asset) {
		t.Run(v.Kind().String(), func(t *testing.T) {
			src := NewBox(v)
			dst := NewBox(Zero(v.Kind()))

			Copy(dst, src)
			assert.True(t, BoxEqual(dst, src))
			assert.True(t, Equal(v, dst.Value()))

			dst.Destroy()
			src.Destroy()
		})
	}

	// Every box has been destroyed: only the creator's references remain.
	assert.Equal(t, 1, obj.Count())
	assert.Equal(t, 1, asset.Count())
}

func TestTextCopyIsIndependent(t *testing.T) {
	source := []byte("original")
	src := NewBox(Text(string(source)))
	dst := NewBox(Text(""))
	Copy(dst, src)

	source[0] = 'X'
	src.Destroy()

	assert.Equal(t, Text("original"), dst.Value())
	dst.Destroy()
}

func TestRefCountTracksLiveBoxes(t *testing.T) {
	released := 0
	ref := NewRef("mesh", func(any) { released++ })

	a := NewBox(Object{Ref: ref})
	assert.Equal(t, 2, ref.Count())

	b := a.Clone()
	assert.Equal(t, 3, ref.Count())

	c := NewBox(Object{})
	Copy(c, b)
	assert.Equal(t, 4, ref.Count())

	// Overwriting a counted payload releases the previous reference.
	Copy(c, NewBox(Object{}))
	assert.Equal(t, 3, ref.Count())

	a.Destroy()
	b.Destroy()
	c.Destroy()
	assert.Equal(t, 1, ref.Count())
	assert.Equal(t, 0, released)

	ref.Release()
	assert.Equal(t, 1, released)
	assert.False(t, ref.Alive())
}

func TestRefOverRelease(t *testing.T) {
	ref := NewRef("x", nil)
	ref.Release()
	requireViolation(t, "release", func() { ref.Release() })
	requireViolation(t, "retain", func() { ref.Retain() })
}

func TestCopyKindMismatch(t *testing.T) {
	requireViolation(t, "copy", func() {
		Copy(NewBox(Float(1)), NewBox(Double(1)))
	})
}

func TestDoubleDestroy(t *testing.T) {
	b := NewBox(Text("x"))
	b.Destroy()
	assert.False(t, b.Live())
	requireViolation(t, "destroy", func() { b.Destroy() })
	requireViolation(t, "value", func() { b.Value() })
	assert.Equal(t, "<destroyed>", b.String())
}

func TestNilBox(t *testing.T) {
	requireViolation(t, "box", func() { NewBox(nil) })
}

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		name string
		dst  Kind
		src  Value
		want Value
	}{
		{"bool true to integer", KindInteger, Boolean(true), Integer(1)},
		{"bool false to float", KindFloat, Boolean(false), Float(0)},
		{"integer to bool", KindBoolean, Integer(5), Boolean(true)},
		{"zero to bool", KindBoolean, Double(0), Boolean(false)},
		{"float truncates", KindInteger, Float(2.75), Integer(2)},
		{"negative truncates toward zero", KindInteger, Double(-2.75), Integer(-2)},
		{"uint32 saturates negative", KindUInt32, Integer(-3), UInt32(0)},
		{"integer saturates", KindInteger, Double(1e12), Integer(math.MaxInt32)},
		{"enum from uint32", KindEnum, UInt32(4), Enum(4)},
		{"double keeps precision", KindDouble, Integer(123456789), Double(123456789)},
		{"nan to integer", KindInteger, Double(math.NaN()), Integer(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewBox(tt.src)
			got := CoerceScalar(tt.dst, src)
			assert.Equal(t, tt.want, got.Value())
			got.Destroy()
			src.Destroy()
		})
	}
}

func TestCoerceScalarRejectsNonScalar(t *testing.T) {
	requireViolation(t, "coerce", func() { CoerceScalar(KindText, NewBox(Integer(1))) })
	requireViolation(t, "coerce", func() { CoerceScalar(KindInteger, NewBox(Vec3{})) })
}

func TestDisplayString(t *testing.T) {
	names := EnumTable{0: "start", 1: "center", 2: "end"}

	tests := []struct {
		name  string
		v     Value
		enums EnumTable
		want  string
	}{
		{"float", Float(1.5), nil, "1.5"},
		{"double", Double(0.1), nil, "0.1"},
		{"integer", Integer(-7), nil, "-7"},
		{"enum named", Enum(1), names, "center"},
		{"enum unnamed", Enum(9), names, "9"},
		{"enum without table", Enum(2), nil, "2"},
		{"uint32", UInt32(12), nil, "12"},
		{"boolean", Boolean(true), nil, "true"},
		{"null object", Object{}, nil, "null"},
		{"null asset", Asset{}, nil, "null"},
		{"null pointer", Pointer{}, nil, "null"},
		{"identity quaternion", Quaternion{W: 1}, nil, "axis=(1, 0, 0) angle=0deg"},
		{"color", Color{R: 1, G: 0.5, B: 0, A: 1}, nil, "rgba(1, 0.5, 0, 1)"},
		{"vec3", Vec3{1, 2, 3}, nil, "(1, 2, 3)"},
		{"vec4", Vec4{1, 2, 3, 4}, nil, "(1, 2, 3, 4)"},
		{"text", Text(`say "hi"`), nil, `"say \"hi\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBox(tt.v)
			defer b.Destroy()
			assert.Equal(t, tt.want, DisplayString(b, tt.enums))
		})
	}
}

func TestDisplayStringObject(t *testing.T) {
	ref := NewRef("camera", nil)
	b := NewBox(Object{Ref: ref})
	defer b.Destroy()
	assert.Equal(t, "object(camera)", DisplayString(b, nil))
}

func TestAxisAngle(t *testing.T) {
	half := math.Pi / 4
	q := Quaternion{Z: float32(math.Sin(half)), W: float32(math.Cos(half))}

	axis, angle := AxisAngle(q)
	assert.InDelta(t, 0, axis[0], 1e-6)
	assert.InDelta(t, 0, axis[1], 1e-6)
	assert.InDelta(t, 1, axis[2], 1e-6)
	assert.InDelta(t, math.Pi/2, angle, 1e-6)

	// Unnormalized input decomposes the same way.
	axis2, angle2 := AxisAngle(Quaternion{Z: q.Z * 3, W: q.W * 3})
	assert.InDelta(t, axis[2], axis2[2], 1e-6)
	assert.InDelta(t, angle, angle2, 1e-6)

	// The zero quaternion has no rotation.
	axis, angle = AxisAngle(Quaternion{})
	assert.Equal(t, [3]float64{1, 0, 0}, axis)
	assert.Equal(t, 0.0, angle)
}
