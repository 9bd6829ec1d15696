package property

import "weak"

// dependant is one node in a source's dependant list. It is a closed
// variant: either prop and binding are set, or obs is.
//
// A derived property is held weakly; its binding is held strongly so the
// binding can still be released after the property has been collected.
// Observers are handles owned by their source and are held strongly.
//
// A removed node keeps its next pointer so a traversal that captured it can
// still move forward.
type dependant struct {
	prop    weak.Pointer[Instance]
	binding *Binding
	obs     *Observer

	prev, next *dependant
	order      uint64
	removed    bool
}

// dependantList is an intrusive, insertion-ordered list of dependants.
type dependantList struct {
	head, tail *dependant
	n          int
	seq        uint64
}

func (l *dependantList) add(d *dependant) {
	l.seq++
	d.order = l.seq
	d.prev = l.tail
	d.next = nil
	if l.tail != nil {
		l.tail.next = d
	} else {
		l.head = d
	}
	l.tail = d
	l.n++
}

// remove unlinks d. It is safe to call during a traversal and on a node
// that was already removed.
func (l *dependantList) remove(d *dependant) {
	if d == nil || d.removed {
		return
	}
	if d.prev != nil {
		d.prev.next = d.next
	} else {
		l.head = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		l.tail = d.prev
	}
	d.prev = nil
	d.removed = true
	l.n--
}

func (l *dependantList) len() int {
	return l.n
}

// each visits the live nodes present when it was called, in insertion order.
//
// The next node is captured before fn runs, so fn may add or remove any
// dependant, including the current and the captured next one. Nodes removed
// before they are reached are skipped; nodes added while walking are not
// visited.
func (l *dependantList) each(fn func(*dependant)) {
	if l.tail == nil {
		return
	}
	limit := l.tail.order
	for d := l.head; d != nil && d.order <= limit; {
		next := d.next
		if !d.removed {
			fn(d)
		}
		d = next
	}
}
