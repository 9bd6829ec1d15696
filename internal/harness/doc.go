// Package harness runs property binding scenarios and compares their
// replicated output against golden traces.
//
// A scenario declares classes in CUE, instantiates named objects, wires
// bindings between their properties and then executes steps: writes,
// replication ticks and expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: |
//	  class: Rect: property: {
//	      width: {kind: "float"}
//	      area:  {kind: "float", flags: ["readable", "logged"]}
//	  }
//	objects:
//	  - {name: r, class: Rect}
//	bindings:
//	  - {type: square, target: r.area, sources: [r.width]}
//	steps:
//	  - {set: r.width, value: 4}
//	  - expect: {r.area: 16}
//	  - {log: 2}
//	  - {tick: true}
//
// Instead of an inline schema a scenario may name a schema_dir holding a
// CUE package, resolved relative to the scenario file.
//
// # Binding Types
//
//   - copy: target takes the source's value
//   - mirror: target and source keep each other's value
//   - cast: scalar target takes the source converted to its kind
//   - square: scalar target is the square of the source
//   - sum: scalar target is the sum of all sources
//
// Every binding computes its target once when it is wired. Changes made
// while wiring are not logged; logging starts with the first step.
//
// # Steps
//
// Each step does exactly one of:
//
//   - set: write value to a property path (object.property)
//   - tick: drain the change log into a replicated batch
//   - expect: compare property values
//   - log: compare the number of pending change log entries
//   - detach: remove the binding of a property path
//
// A set step may carry error, a substring the propagation failure must
// contain. The depth guard of the scenario session is max_depth.
//
// # Deterministic Testing
//
// Tick numbers come from testutil.DeterministicClock, owner keys are the
// object names and the session id is derived from the scenario name, so
// the same scenario always produces the same trace.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/rect_area.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
