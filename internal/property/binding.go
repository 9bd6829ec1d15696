package property

import (
	"log/slog"
	"weak"

	"github.com/roach88/proplink/internal/value"
)

// Callback recomputes target from its binding's sources. It usually calls
// one of target's setters. data is the binding's user data.
type Callback func(s *Session, target *Instance, data any)

// DestroyNotify releases a binding's user data when the binding goes away.
type DestroyNotify func(data any)

// Binding recomputes one property from a fixed list of sources.
// It owns its source list and its user data, not the source instances.
type Binding struct {
	callback Callback
	data     any
	notify   DestroyNotify
	sources  []*Instance
	links    []*dependant // links[i] is target's node in sources[i]; nil for repeated sources
	released bool
}

// release unlinks the binding from its sources and runs its destroy notify.
// Only the first call has any effect.
func (b *Binding) release() {
	if b.released {
		return
	}
	b.released = true
	for i, src := range b.sources {
		src.dependants.remove(b.links[i])
	}
	if b.notify != nil {
		b.notify(b.data)
	}
}

// Sources returns a copy of the binding's source list.
func (b *Binding) Sources() []*Instance {
	out := make([]*Instance, len(b.sources))
	copy(out, b.sources)
	return out
}

// Attach installs a binding on p, replacing (and detaching) any existing one.
//
// p is registered as a dependant of each source; a source listed twice is
// registered once. Sources hold p weakly. If p is collected without being
// destroyed, the binding is released, notify included, the next time a
// source propagates or is destroyed. Attach does not run the callback, except for a binding
// with no sources: that one runs exactly once, immediately, and is kept only
// so notify runs when it is detached.
//
// A nil callback detaches and leaves data with the caller.
func (p *Instance) Attach(s *Session, callback Callback, data any, notify DestroyNotify, sources ...*Instance) {
	p.mustLive("attach")
	p.Detach()
	if callback == nil {
		return
	}
	for _, src := range sources {
		src.mustLive("attach")
	}

	b := &Binding{
		callback: callback,
		data:     data,
		notify:   notify,
		sources:  append([]*Instance(nil), sources...),
		links:    make([]*dependant, len(sources)),
	}
	self := weak.Make(p)
	for i, src := range b.sources {
		if indexOf(b.sources[:i], src) >= 0 {
			continue
		}
		d := &dependant{prop: self, binding: b}
		src.dependants.add(d)
		b.links[i] = d
	}
	p.binding = b

	slog.Debug("binding attached", "property", p.spec.name, "id", p.id, "sources", len(sources))

	if len(b.sources) == 0 {
		callback(s, p, data)
	}
}

// Detach removes p's binding: p leaves every source's dependant set, the
// destroy notify runs, and the binding is dropped. No-op without a binding.
func (p *Instance) Detach() {
	if p == nil || p.binding == nil {
		return
	}
	b := p.binding
	p.binding = nil
	slog.Debug("binding detached", "property", p.spec.name, "id", p.id)
	b.release()
}

// Binding returns p's binding, or nil.
func (p *Instance) Binding() *Binding {
	return p.binding
}

func indexOf(list []*Instance, p *Instance) int {
	for i, q := range list {
		if q == p {
			return i
		}
	}
	return -1
}

// BindCopy makes target mirror source through value.Copy. Both must have
// the same kind. target takes source's value immediately.
//
// The callback skips the write when target already equals source, so a pair
// of copy bindings (BindMirror) settles after one round trip.
func BindCopy(s *Session, target, source *Instance) {
	target.mustLive("bind_copy")
	source.mustLive("bind_copy")
	if target.spec.kind != source.spec.kind {
		value.Violate("bind_copy", "kind mismatch: %q is %v, %q is %v",
			target.spec.name, target.spec.kind, source.spec.name, source.spec.kind)
	}
	target.Attach(s, copyCallback, source, nil, source)
	copyCallback(s, target, source)
}

func copyCallback(s *Session, target *Instance, data any) {
	source := data.(*Instance)
	src := source.Box()
	defer src.Destroy()
	dst := target.Box()
	defer dst.Destroy()
	if value.BoxEqual(dst, src) {
		return
	}
	value.Copy(dst, src)
	target.SetBoxed(s, dst)
}

// BindMirror copy-binds a and b to each other. b takes a's value first.
//
// Mirroring relies on the copy callback reaching a fixed point, not on cycle
// detection: setting a writes b, whose propagation finds a already equal and
// stops.
func BindMirror(s *Session, a, b *Instance) {
	BindCopy(s, b, a)
	BindCopy(s, a, b)
}

// BindCast recomputes target from source with value.CoerceScalar. Both
// kinds must be scalar and different. target is computed immediately.
func BindCast(s *Session, target, source *Instance) {
	target.mustLive("bind_cast")
	source.mustLive("bind_cast")
	if !target.spec.kind.IsScalar() || !source.spec.kind.IsScalar() {
		value.Violate("bind_cast", "cast needs scalar kinds, got %v <- %v", target.spec.kind, source.spec.kind)
	}
	if target.spec.kind == source.spec.kind {
		value.Violate("bind_cast", "cast between identical kinds %v; use BindCopy", target.spec.kind)
	}
	target.Attach(s, castCallback, source, nil, source)
	castCallback(s, target, source)
}

func castCallback(s *Session, target *Instance, data any) {
	src := data.(*Instance).Box()
	defer src.Destroy()
	cast := value.CoerceScalar(target.spec.kind, src)
	defer cast.Destroy()
	target.SetBoxed(s, cast)
}
