// Package value provides the closed set of property value kinds and the
// boxed, self-contained snapshot representation used by bindings, the
// change log and replication.
//
// This package imports nothing internal. property, changelog and wire all
// build on it.
//
// Key design constraints:
//   - Value is sealed: only the payload types in this package implement it
//   - Every operation type-switches over all kinds; an unknown kind panics
//   - Object and asset payloads hold a *Ref; a Box owns exactly one
//     reference for as long as it is live
//   - A Box must be destroyed exactly once; a second Destroy panics
//   - Contract violations panic with *ContractViolation, they are never
//     returned as errors
package value
