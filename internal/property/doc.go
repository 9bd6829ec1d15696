// Package property implements typed, observable properties and the runtime
// binding graph that keeps derived properties up to date.
//
// ARCHITECTURE:
//
// A Spec describes one property of an owner class: name, kind, storage and
// flags. It is created once at registration and never mutated. An Instance
// binds a Spec to one live owner. Setters write through the Spec's storage
// and then dirty the instance, which:
//
//  1. appends a snapshot to the Session's change log when logging is on and
//     the Spec is LoggedForExport
//  2. walks the instance's dependants and runs each one's binding callback,
//     which usually calls another setter, recursing
//
// Propagation is synchronous and single-threaded. A setter does not return
// until the whole induced propagation has finished, so the graph is settled
// after every mutation.
//
// CRITICAL PATTERNS:
//
// No cycle detection:
// A callback that dirties a property feeding back into its own chain
// re-enters propagation. Nothing breaks the loop except the callbacks
// themselves (the copy binding skips writes that would not change the
// target). The Session's depth guard turns a runaway loop into a
// *RuntimeError panic instead of a stack overflow.
//
// Weak dependants:
// Dependant sets never keep a dependant alive. A dependant that becomes
// unreachable without being destroyed is pruned the next time its source
// propagates.
//
// Cascading destroy:
// Destroying an instance detaches its own binding and the binding of every
// dependant that reads it, so no binding is left with a dangling source.
//
// Nothing here is safe for concurrent use.
package property
