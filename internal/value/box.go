package value

// Box is a type-tagged, self-contained snapshot of a property value,
// independent of the storage it was read from.
//
// A live Box owns one reference on any object or asset it carries. Destroy
// releases it; every Box must be destroyed exactly once.
type Box struct {
	v    Value
	live bool
}

// NewBox boxes v, taking a new reference on any shared payload.
// v must not be nil.
func NewBox(v Value) *Box {
	if v == nil {
		Violate("box", "cannot box a nil value")
	}
	return &Box{v: Retain(v), live: true}
}

// Kind returns the kind tag of the box.
func (b *Box) Kind() Kind {
	b.mustLive("kind")
	return b.v.Kind()
}

// Value returns the boxed payload. The payload stays owned by the box;
// callers that keep it beyond the box's lifetime must Retain it.
func (b *Box) Value() Value {
	b.mustLive("value")
	return b.v
}

// Live reports whether the box has not been destroyed.
func (b *Box) Live() bool {
	return b != nil && b.live
}

// Destroy releases the payload's reference, if any.
// Destroying a box twice is a contract violation.
func (b *Box) Destroy() {
	if b == nil {
		Violate("destroy", "nil box")
	}
	if !b.live {
		Violate("destroy", "box of kind %v destroyed twice", b.v.Kind())
	}
	Release(b.v)
	b.live = false
}

// Clone returns an independent box holding the same payload and its own reference.
func (b *Box) Clone() *Box {
	b.mustLive("clone")
	return NewBox(b.v)
}

// String renders the box without an enum name table.
func (b *Box) String() string {
	if !b.Live() {
		return "<destroyed>"
	}
	return DisplayString(b, nil)
}

func (b *Box) mustLive(op string) {
	if b == nil {
		Violate(op, "nil box")
	}
	if !b.live {
		Violate(op, "use of destroyed box")
	}
}

// Copy deep-copies src into dst. Both boxes must be live and of the same kind.
// dst's previous payload is released; the copied payload gains a reference.
func Copy(dst, src *Box) {
	dst.mustLive("copy")
	src.mustLive("copy")
	if dst.v.Kind() != src.v.Kind() {
		Violate("copy", "kind mismatch: dst is %v, src is %v", dst.v.Kind(), src.v.Kind())
	}
	next := Retain(src.v)
	Release(dst.v)
	dst.v = next
}

// BoxEqual reports whether two live boxes hold equal payloads of the same kind.
func BoxEqual(a, b *Box) bool {
	a.mustLive("equal")
	b.mustLive("equal")
	return Equal(a.v, b.v)
}
