package property

import (
	"log/slog"

	"github.com/roach88/proplink/internal/value"
)

// ObserverFunc runs after the observed property changes.
type ObserverFunc func(s *Session, source *Instance, data any)

// Observer lets code outside the graph react to one property through the
// same propagation as derived properties. Observers never write to the
// change log.
//
// The source holds the observer strongly, so dropping the handle does not
// stop notifications. The observer lives until it or its source is
// destroyed.
type Observer struct {
	source    *Instance
	link      *dependant
	fn        ObserverFunc
	data      any
	notify    DestroyNotify
	closed    bool // detached from source, by Destroy or by the source's destroy
	destroyed bool
}

// Observe registers fn to run whenever p is dirtied.
func (p *Instance) Observe(fn ObserverFunc, data any, notify DestroyNotify) *Observer {
	p.mustLive("observe")
	if fn == nil {
		value.Violate("observe", "nil observer func for %q", p.spec.name)
	}
	o := &Observer{source: p, fn: fn, data: data, notify: notify}
	o.link = &dependant{obs: o}
	p.dependants.add(o.link)
	slog.Debug("observer attached", "property", p.spec.name, "id", p.id)
	return o
}

// Source returns the observed property.
func (o *Observer) Source() *Instance {
	return o.source
}

// Active reports whether the observer still receives notifications. It
// turns false when the observer or its source is destroyed.
func (o *Observer) Active() bool {
	return !o.closed
}

// Destroy detaches the observer and runs its destroy notify, unless the
// source's destroy already did. Destroying twice is a contract violation.
func (o *Observer) Destroy() {
	if o.destroyed {
		value.Violate("observer_destroy", "observer of %q destroyed twice", o.source.spec.name)
	}
	o.destroyed = true
	o.detach()
}

func (o *Observer) detach() {
	if o.closed {
		return
	}
	o.closed = true
	o.source.dependants.remove(o.link)
	slog.Debug("observer detached", "property", o.source.spec.name, "id", o.source.id)
	if o.notify != nil {
		o.notify(o.data)
	}
}

func (o *Observer) fire(s *Session) {
	if o.closed {
		return
	}
	o.fn(s, o.source, o.data)
}
