package property

import (
	"github.com/roach88/proplink/internal/value"
)

// Instance is a property descriptor bound to one live owner.
//
// The owner is a back-reference only; an Instance never keeps it alive on
// purpose and never owns it. Instances must be allocated individually (New or
// new(Instance) followed by Init) because dependant sets hold weak pointers
// to them.
type Instance struct {
	spec  *Spec
	owner any
	id    uint32

	dependants dependantList
	binding    *Binding
	destroyed  bool
}

// New creates an instance of spec for owner. See Init.
func New(spec *Spec, owner any, id uint32) *Instance {
	p := new(Instance)
	p.Init(spec, owner, id)
	return p
}

// Init binds spec to owner. id must be unique within owner and stable for the
// session; it identifies the property in the change log.
//
// The storage spec describes must stay valid for the instance's whole lifetime.
func (p *Instance) Init(spec *Spec, owner any, id uint32) {
	if spec == nil {
		value.Violate("init", "nil spec")
	}
	if owner == nil {
		value.Violate("init", "property %q has no owner", spec.name)
	}
	*p = Instance{spec: spec, owner: owner, id: id}
}

// Spec returns the descriptor.
func (p *Instance) Spec() *Spec { return p.spec }

// Owner returns the owning object.
func (p *Instance) Owner() any { return p.owner }

// ID returns the small per-owner id.
func (p *Instance) ID() uint32 { return p.id }

// Name returns the property name.
func (p *Instance) Name() string { return p.spec.name }

// Kind returns the property kind.
func (p *Instance) Kind() value.Kind { return p.spec.kind }

// Destroyed reports whether Destroy has been called.
func (p *Instance) Destroyed() bool { return p.destroyed }

// Dependants returns the number of bindings and observers reading p.
func (p *Instance) Dependants() int { return p.dependants.len() }

// Bound reports whether p has a binding attached.
func (p *Instance) Bound() bool { return p.binding != nil }

// Destroy tears the instance down.
//
// It detaches p's own binding and the binding of every dependant reading p,
// and closes every observer of p. Dependants keep whatever value they last
// computed. Using p afterwards is a contract violation.
func (p *Instance) Destroy() {
	p.mustLive("destroy")
	p.Detach()
	p.dependants.each(func(d *dependant) {
		switch {
		case d.obs != nil:
			d.obs.detach()
		case d.prop.Value() != nil:
			d.prop.Value().Detach()
		default:
			d.binding.release()
		}
		p.dependants.remove(d)
	})
	p.destroyed = true
}

func (p *Instance) mustLive(op string) {
	if p == nil {
		value.Violate(op, "nil property instance")
	}
	if p.spec == nil {
		value.Violate(op, "property instance used before Init")
	}
	if p.destroyed {
		value.Violate(op, "property %q used after destroy", p.spec.name)
	}
}

func (p *Instance) mustKind(op string, k value.Kind) {
	p.mustLive(op)
	if p.spec.kind != k {
		value.Violate(op, "property %q is %v, not %v", p.spec.name, p.spec.kind, k)
	}
}

// Get returns the current payload, borrowed from storage.
func (p *Instance) Get() value.Value {
	p.mustLive("get")
	if !p.spec.flags.Has(Readable) {
		value.Violate("get", "property %q is not readable", p.spec.name)
	}
	return p.spec.read(p.owner)
}

// Box snapshots the current value. The caller owns the box.
// Box ignores the Readable flag; it is how the change log and replication read.
func (p *Instance) Box() *value.Box {
	p.mustLive("box")
	return value.NewBox(p.spec.read(p.owner))
}

// Set writes v and propagates. p must be Writable and v must match its kind.
func (p *Instance) Set(s *Session, v value.Value) {
	p.mustLive("set")
	if v == nil || v.Kind() != p.spec.kind {
		value.Violate("set", "property %q is %v, got %v", p.spec.name, p.spec.kind, v)
	}
	if !p.spec.flags.Has(Writable) {
		value.Violate("set", "property %q is not writable", p.spec.name)
	}
	p.assign(v)
	s.dirty(p)
}

// SetBoxed writes a boxed value and propagates. It is the entry point for
// replication and bindings, so it ignores the Writable flag. b stays owned by
// the caller.
func (p *Instance) SetBoxed(s *Session, b *value.Box) {
	p.mustLive("set_boxed")
	if b.Kind() != p.spec.kind {
		value.Violate("set_boxed", "property %q is %v, got %v", p.spec.name, p.spec.kind, b.Kind())
	}
	p.assign(b.Value())
	s.dirty(p)
}

// Dirty propagates without writing, for owners that changed storage directly.
func (p *Instance) Dirty(s *Session) {
	p.mustLive("dirty")
	s.dirty(p)
}

// assign stores v, moving references: storage gains one on v and drops the
// one it held on the previous payload.
func (p *Instance) assign(v value.Value) {
	next := value.Retain(v)
	prev := p.spec.read(p.owner)
	p.spec.write(p.owner, next)
	value.Release(prev)
}

func (p *Instance) set(s *Session, op string, v value.Value) {
	p.mustKind(op, v.Kind())
	if !p.spec.flags.Has(Writable) {
		value.Violate(op, "property %q is not writable", p.spec.name)
	}
	p.assign(v)
	s.dirty(p)
}

func (p *Instance) get(op string, k value.Kind) value.Value {
	p.mustKind(op, k)
	if !p.spec.flags.Has(Readable) {
		value.Violate(op, "property %q is not readable", p.spec.name)
	}
	return p.spec.read(p.owner)
}
