package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/proplink/internal/wire"
)

// TraceSnapshot captures the replicated output of a scenario execution.
// It is serialized as canonical JSON for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string      `json:"scenario"`
	Ticks        []TickTrace `json:"ticks"`
}

// toCanonicalMap converts a TraceSnapshot to a tree wire.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	ticks := make([]any, len(s.Ticks))
	for i, t := range s.Ticks {
		records := make([]any, len(t.Records))
		for j, r := range t.Records {
			records[j] = map[string]any{
				"seq":   r.Seq,
				"owner": r.Owner,
				"prop":  r.Property,
				"name":  r.Name,
				"kind":  r.Kind,
				"value": r.Value,
			}
		}
		ticks[i] = map[string]any{
			"tick":    t.Tick,
			"records": records,
		}
	}
	return map[string]any{
		"scenario": s.ScenarioName,
		"ticks":    ticks,
	}
}

// MarshalTrace renders a result's ticks as canonical JSON.
func MarshalTrace(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Ticks: result.Ticks}
	return wire.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass and Final.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
