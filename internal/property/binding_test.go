package property

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proplink/internal/value"
)

func squareWidth(s *Session, target *Instance, data any) {
	w := data.(*rect).width.GetFloat()
	target.SetBoxed(s, value.NewBox(value.Float(w*w)))
}

func TestBinding_DerivedAreaUpdatesImmediately(t *testing.T) {
	s := NewSession()
	r := newRect()
	r.area.Attach(s, squareWidth, r, nil, r.width)

	r.width.SetFloat(s, 4)
	assert.Equal(t, float32(16), r.area.GetFloat())

	r.width.SetFloat(s, -2)
	assert.Equal(t, float32(4), r.area.GetFloat())
}

func TestBinding_ZeroSourceFiresOnce(t *testing.T) {
	s := NewSession()
	r := newRect()
	fired := 0
	notified := 0

	r.count.Attach(s, counter(&fired), nil, func(any) { notified++ })
	assert.Equal(t, 1, fired, "fires at attach time")

	r.width.SetFloat(s, 1)
	r.height.SetFloat(s, 2)
	r.count.SetInteger(s, 3)
	assert.Equal(t, 1, fired, "never fires again")
	assert.True(t, r.count.Bound(), "kept for its destroy notify")

	r.count.Detach()
	assert.Equal(t, 1, notified)
}

func TestBinding_TwoSources(t *testing.T) {
	s := NewSession()
	a, b, target := intProp("a"), intProp("b"), intProp("sum")
	fired := 0
	target.Attach(s, counter(&fired), nil, nil, a, b)

	assert.Equal(t, 0, fired, "attach with sources does not fire")
	a.SetInteger(s, 1)
	assert.Equal(t, 1, fired)
	b.SetInteger(s, 2)
	assert.Equal(t, 2, fired)

	target.Detach()
	a.SetInteger(s, 3)
	b.SetInteger(s, 4)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 0, a.Dependants())
	assert.Equal(t, 0, b.Dependants())
}

func TestBinding_RepeatedSourceRegistersOnce(t *testing.T) {
	s := NewSession()
	a, target := intProp("a"), intProp("t")
	fired := 0
	target.Attach(s, counter(&fired), nil, nil, a, a)

	assert.Equal(t, 1, a.Dependants())
	a.SetInteger(s, 1)
	assert.Equal(t, 1, fired)
	assert.Len(t, target.Binding().Sources(), 2)

	target.Detach()
	assert.Equal(t, 0, a.Dependants())
}

func TestBinding_ReattachReplaces(t *testing.T) {
	s := NewSession()
	a, b, target := intProp("a"), intProp("b"), intProp("t")
	var released []string

	target.Attach(s, counter(new(int)), "first", func(d any) { released = append(released, d.(string)) }, a)
	target.Attach(s, counter(new(int)), "second", func(d any) { released = append(released, d.(string)) }, b)

	assert.Equal(t, []string{"first"}, released)
	assert.Equal(t, 0, a.Dependants())
	assert.Equal(t, 1, b.Dependants())

	// A nil callback is a detach.
	target.Attach(s, nil, "ignored", nil, a)
	assert.Equal(t, []string{"first", "second"}, released)
	assert.False(t, target.Bound())
	assert.Equal(t, 0, b.Dependants())
}

func TestBinding_DetachWithoutBindingIsNoop(t *testing.T) {
	p := intProp("p")
	p.Detach()
	p.Detach()
	assert.False(t, p.Bound())
}

func TestBinding_PropertyWithoutDependants(t *testing.T) {
	s := NewSession()
	p := intProp("p")
	p.SetInteger(s, 9)
	assert.Equal(t, int32(9), p.GetInteger())
}

func TestDestroy_CascadesToDependants(t *testing.T) {
	s := NewSession()
	p, d1, d2 := intProp("p"), intProp("d1"), intProp("d2")
	notified := 0
	notify := func(any) { notified++ }

	BindCopy(s, d1, p)
	d2.Attach(s, counter(new(int)), nil, notify, p)
	p.SetInteger(s, 7)
	require.Equal(t, int32(7), d1.GetInteger())

	p.Destroy()

	assert.True(t, p.Destroyed())
	assert.False(t, d1.Bound())
	assert.False(t, d2.Bound())
	assert.Equal(t, 1, notified)
	assert.Equal(t, 0, p.Dependants())

	// Dependants stay usable and keep their last value.
	assert.Equal(t, int32(7), d1.GetInteger())
	d1.SetInteger(s, 8)
	d2.SetInteger(s, 9)
	assert.Equal(t, int32(8), d1.GetInteger())
}

func TestDestroy_DetachesOwnBinding(t *testing.T) {
	s := NewSession()
	src, p := intProp("src"), intProp("p")
	BindCopy(s, p, src)
	require.Equal(t, 1, src.Dependants())

	p.Destroy()
	assert.Equal(t, 0, src.Dependants())
	src.SetInteger(s, 1)
}

func TestBindCast(t *testing.T) {
	s := NewSession()
	flag := New(NewSpec("flag", value.KindBoolean, Offset{0}, DefaultFlags), &struct{ V bool }{V: true}, 1)
	n := intProp("n")

	BindCast(s, n, flag)
	assert.Equal(t, int32(1), n.GetInteger(), "computed at bind time")

	flag.SetBoolean(s, false)
	assert.Equal(t, int32(0), n.GetInteger())

	back := New(NewSpec("back", value.KindBoolean, Offset{0}, DefaultFlags), &struct{ V bool }{}, 1)
	BindCast(s, back, n)
	n.SetInteger(s, 5)
	assert.True(t, back.GetBoolean())

	requireViolation(t, "bind_cast", func() { BindCast(s, intProp("x"), intProp("y")) })
	requireViolation(t, "bind_cast", func() { BindCast(s, newRect().label, n) })
}

func TestBindCopy_KindMismatch(t *testing.T) {
	s := NewSession()
	r := newRect()
	requireViolation(t, "bind_copy", func() { BindCopy(s, r.count, r.width) })
}

func TestBindMirror_SettlesWithoutHanging(t *testing.T) {
	s := NewSession()
	prop0, prop1 := intProp("prop0"), intProp("prop1")
	prop0.SetInteger(s, 3)

	BindMirror(s, prop0, prop1)
	assert.Equal(t, int32(3), prop1.GetInteger(), "prop1 adopts prop0's value")

	fires0, fires1 := 0, 0
	obs0 := prop0.Observe(func(*Session, *Instance, any) { fires0++ }, nil, nil)
	obs1 := prop1.Observe(func(*Session, *Instance, any) { fires1++ }, nil, nil)
	defer obs0.Destroy()
	defer obs1.Destroy()

	prop0.SetInteger(s, 5)
	assert.Equal(t, int32(5), prop1.GetInteger())
	assert.Equal(t, 1, fires0)
	assert.Equal(t, 1, fires1, "copy back to prop0 is skipped: values already equal")
	assert.Equal(t, 0, s.Depth())

	prop1.SetInteger(s, 6)
	assert.Equal(t, int32(6), prop0.GetInteger())
}

func TestSetter_RedundantWriteRefires(t *testing.T) {
	s := NewSession()
	prop0, prop1 := intProp("prop0"), intProp("prop1")
	BindMirror(s, prop0, prop1)
	prop0.SetInteger(s, 5)

	fires0, fires1 := 0, 0
	obs0 := prop0.Observe(func(*Session, *Instance, any) { fires0++ }, nil, nil)
	obs1 := prop1.Observe(func(*Session, *Instance, any) { fires1++ }, nil, nil)
	defer obs0.Destroy()
	defer obs1.Destroy()

	// Setters always propagate, even when the value does not change.
	prop0.SetInteger(s, 5)
	assert.Equal(t, 1, fires0)
	// The copy binding does not rewrite an equal value, so prop1 is not dirtied.
	assert.Equal(t, 0, fires1)
}

func TestDepthGuard_RunawayCycle(t *testing.T) {
	s := NewSession(WithMaxDepth(50))
	a, b := intProp("a"), intProp("b")
	increment := func(s *Session, target *Instance, data any) {
		src := data.(*Instance)
		target.SetInteger(s, src.GetInteger()+1)
	}
	a.Attach(s, increment, b, nil, b)
	b.Attach(s, increment, a, nil, a)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		a.SetInteger(s, 0)
	}()

	require.NotNil(t, recovered)
	err, ok := recovered.(error)
	require.True(t, ok)
	assert.True(t, IsDepthError(err))
	assert.Contains(t, err.Error(), "DEPTH_EXCEEDED")
	assert.Equal(t, 0, s.Depth(), "depth unwinds with the panic")
}

func TestDepthGuard_DeepAcyclicChain(t *testing.T) {
	s := NewSession(WithMaxDepth(100))
	chain := make([]*Instance, 60)
	for i := range chain {
		chain[i] = intProp("link")
		if i > 0 {
			BindCopy(s, chain[i], chain[i-1])
		}
	}

	chain[0].SetInteger(s, 42)
	assert.Equal(t, int32(42), chain[len(chain)-1].GetInteger())
}

func TestTraversal_DetachLaterDependantMidWave(t *testing.T) {
	s := NewSession()
	src, first, second := intProp("src"), intProp("first"), intProp("second")
	secondFired := 0

	first.Attach(s, func(*Session, *Instance, any) { second.Detach() }, nil, nil, src)
	second.Attach(s, counter(&secondFired), nil, nil, src)

	src.SetInteger(s, 1)
	assert.Equal(t, 0, secondFired, "a dependant removed mid-wave is skipped")
	assert.Equal(t, 1, src.Dependants())
}

func TestTraversal_SelfDetachMidWave(t *testing.T) {
	s := NewSession()
	src, once, after := intProp("src"), intProp("once"), intProp("after")
	onceFired, afterFired := 0, 0

	once.Attach(s, func(_ *Session, target *Instance, _ any) {
		onceFired++
		target.Detach()
	}, nil, nil, src)
	after.Attach(s, counter(&afterFired), nil, nil, src)

	src.SetInteger(s, 1)
	src.SetInteger(s, 2)
	assert.Equal(t, 1, onceFired)
	assert.Equal(t, 2, afterFired, "traversal continues past a self-detaching dependant")
}

func TestTraversal_AttachMidWaveNotVisited(t *testing.T) {
	s := NewSession()
	src, adder, late := intProp("src"), intProp("adder"), intProp("late")
	lateFired := 0

	adder.Attach(s, func(s *Session, _ *Instance, _ any) {
		if !late.Bound() {
			late.Attach(s, counter(&lateFired), nil, nil, src)
		}
	}, nil, nil, src)

	src.SetInteger(s, 1)
	assert.Equal(t, 0, lateFired, "added during the wave")
	src.SetInteger(s, 2)
	assert.Equal(t, 1, lateFired)
}

func TestDependants_AreWeak(t *testing.T) {
	s := NewSession()
	src := intProp("src")

	func() {
		d := intProp("transient")
		BindCopy(s, d, src)
	}()
	require.Equal(t, 1, src.Dependants())

	runtime.GC()
	runtime.GC()

	src.SetInteger(s, 1)
	assert.Equal(t, 0, src.Dependants(), "collected dependant is pruned on propagation")
}

func TestDependants_CollectedTargetReleasesBinding(t *testing.T) {
	s := NewSession()
	src := intProp("src")
	var released []any

	func() {
		d := intProp("transient")
		d.Attach(s, func(*Session, *Instance, any) {}, "user data", func(data any) {
			released = append(released, data)
		}, src)
	}()
	require.Equal(t, 1, src.Dependants())

	runtime.GC()
	runtime.GC()

	src.SetInteger(s, 1)
	assert.Equal(t, []any{"user data"}, released)
	assert.Equal(t, 0, src.Dependants())

	src.SetInteger(s, 2)
	assert.Len(t, released, 1, "notify runs once")
}

func TestDependants_CollectedTargetReleasedOnSourceDestroy(t *testing.T) {
	s := NewSession()
	a := intProp("a")
	b := intProp("b")
	notified := 0

	func() {
		d := intProp("transient")
		d.Attach(s, func(*Session, *Instance, any) {}, nil, func(any) { notified++ }, a, b)
	}()

	runtime.GC()
	runtime.GC()

	a.Destroy()
	assert.Equal(t, 1, notified)
	assert.Equal(t, 0, b.Dependants(), "released binding leaves every source")

	b.SetInteger(s, 1)
	assert.Equal(t, 1, notified)
}
