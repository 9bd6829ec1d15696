package property

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proplink/internal/value"
)

// rect is an owner whose properties live in struct fields.
type rect struct {
	Width   float32
	Height  float32
	Area    float32
	Count   int32
	Visible bool
	Label   string
	Mesh    *value.Ref
	Tint    value.Color
	Spin    value.Quaternion
	Scale   float64

	width, height, area, count, visible, label, mesh, tint, spin, scale *Instance
}

var (
	widthSpec   = NewSpec("width", value.KindFloat, Offset{unsafe.Offsetof(rect{}.Width)}, DefaultFlags|LoggedForExport|Animatable)
	heightSpec  = NewSpec("height", value.KindFloat, Offset{unsafe.Offsetof(rect{}.Height)}, DefaultFlags|LoggedForExport)
	areaSpec    = NewSpec("area", value.KindFloat, Offset{unsafe.Offsetof(rect{}.Area)}, Readable|LoggedForExport)
	countSpec   = NewSpec("count", value.KindInteger, Offset{unsafe.Offsetof(rect{}.Count)}, DefaultFlags)
	visibleSpec = NewSpec("visible", value.KindBoolean, Offset{unsafe.Offsetof(rect{}.Visible)}, DefaultFlags)
	labelSpec   = NewSpec("label", value.KindText, Offset{unsafe.Offsetof(rect{}.Label)}, DefaultFlags|LoggedForExport)
	meshSpec    = NewSpec("mesh", value.KindAsset, Offset{unsafe.Offsetof(rect{}.Mesh)}, DefaultFlags)
	tintSpec    = NewSpec("tint", value.KindColor, Offset{unsafe.Offsetof(rect{}.Tint)}, DefaultFlags|Animatable)
	spinSpec    = NewSpec("spin", value.KindQuaternion, Offset{unsafe.Offsetof(rect{}.Spin)}, DefaultFlags|Animatable)
	scaleSpec   = NewSpec("scale", value.KindDouble, Offset{unsafe.Offsetof(rect{}.Scale)}, DefaultFlags)
)

func newRect() *rect {
	r := &rect{Spin: value.Quaternion{W: 1}}
	r.width = New(widthSpec, r, 1)
	r.height = New(heightSpec, r, 2)
	r.area = New(areaSpec, r, 3)
	r.count = New(countSpec, r, 4)
	r.visible = New(visibleSpec, r, 5)
	r.label = New(labelSpec, r, 6)
	r.mesh = New(meshSpec, r, 7)
	r.tint = New(tintSpec, r, 8)
	r.spin = New(spinSpec, r, 9)
	r.scale = New(scaleSpec, r, 10)
	return r
}

// intProp is a standalone integer property with its own owner.
func intProp(name string) *Instance {
	owner := &struct{ V int32 }{}
	return New(NewSpec(name, value.KindInteger, Offset{0}, DefaultFlags|LoggedForExport), owner, 1)
}

// requireViolation runs fn and asserts it panics with a *value.ContractViolation for op.
func requireViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected contract violation in %s", op)
		cv, ok := r.(*value.ContractViolation)
		require.True(t, ok, "panic payload should be *value.ContractViolation, got %T: %v", r, r)
		assert.Equal(t, op, cv.Op)
	}()
	fn()
}

// counter returns a callback that counts its invocations.
func counter(n *int) Callback {
	return func(*Session, *Instance, any) { *n++ }
}
