package property

import "github.com/roach88/proplink/internal/value"

// Animate sets p to the interpolation of from and to at t (see value.Lerp)
// and propagates. The animation layer calls it once per tick on leaf
// properties. p must be Animatable and Writable.
func (p *Instance) Animate(s *Session, from, to value.Value, t float64) {
	p.mustKind("animate", from.Kind())
	if !p.spec.flags.Has(Animatable) {
		value.Violate("animate", "property %q is not animatable", p.spec.name)
	}
	p.set(s, "animate", value.Lerp(from, to, t))
}
