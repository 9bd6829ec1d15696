package value

// Ref is the explicit shared-ownership handle carried by object and asset
// payloads. The holder of each reference must Release it exactly once.
//
// Ref is not safe for concurrent use; the property engine is single-threaded.
type Ref struct {
	target  any
	count   int
	release func(target any)
}

// NewRef creates a Ref holding one reference to target. release, if non-nil,
// runs when the last reference is released.
func NewRef(target any, release func(target any)) *Ref {
	return &Ref{target: target, count: 1, release: release}
}

// Target returns the referenced object.
func (r *Ref) Target() any {
	return r.target
}

// Count returns the number of outstanding references.
func (r *Ref) Count() int {
	return r.count
}

// Alive reports whether at least one reference is outstanding.
func (r *Ref) Alive() bool {
	return r.count > 0
}

// Retain adds a reference and returns r for chaining.
// Retaining a released Ref is a contract violation.
func (r *Ref) Retain() *Ref {
	if r.count <= 0 {
		Violate("retain", "reference to %v already released", r.target)
	}
	r.count++
	return r
}

// Release drops a reference, running the release hook when the count reaches zero.
// Releasing more references than were taken is a contract violation.
func (r *Ref) Release() {
	if r.count <= 0 {
		Violate("release", "reference to %v released too many times", r.target)
	}
	r.count--
	if r.count == 0 && r.release != nil {
		r.release(r.target)
	}
}

// retainRef retains r unless it is nil.
func retainRef(r *Ref) *Ref {
	if r == nil {
		return nil
	}
	return r.Retain()
}

// releaseRef releases r unless it is nil.
func releaseRef(r *Ref) {
	if r != nil {
		r.Release()
	}
}
