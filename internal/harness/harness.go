package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/replicate"
	"github.com/roach88/proplink/internal/schema"
	"github.com/roach88/proplink/internal/testutil"
	"github.com/roach88/proplink/internal/value"
	"github.com/roach88/proplink/internal/wire"
)

// Harness is the scenario execution engine.
// It runs one scenario against a fresh session with a deterministic clock.
type Harness struct {
	session  *property.Session
	registry *replicate.Registry
	repl     *replicate.Replicator
	clock    *testutil.DeterministicClock
	nodes    map[string]*schema.Node
	order    []*schema.Node
	logger   *slog.Logger
}

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	store  replicate.Store
	logger *slog.Logger
}

// WithStore persists the run's session, owners and batches to s.
func WithStore(s replicate.Store) Option {
	return func(c *runConfig) {
		c.store = s
	}
}

// WithLogger sets the step logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// SessionID returns the replication session id of a scenario.
func SessionID(scenarioName string) string {
	return "scenario/" + scenarioName
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Compile the classes
// 2. Instantiate and track every object
// 3. Wire the bindings with logging disabled
// 4. Enable logging and execute the steps
// 5. Snapshot every property's final value
//
// Failed expectations land in Result.Errors. Run only returns an error when
// the scenario cannot be set up or the store fails.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	sch, err := loadSchema(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to load classes: %w", err)
	}

	var sessOpts []property.SessionOption
	if sc.MaxDepth != 0 {
		sessOpts = append(sessOpts, property.WithMaxDepth(sc.MaxDepth))
	}
	session := property.NewSession(sessOpts...)
	defer session.Close()

	registry := replicate.NewRegistry(replicate.NewFixedGenerator())
	clock := testutil.NewDeterministicClock()
	replOpts := []replicate.Option{
		replicate.WithClock(clock),
		replicate.WithSessionID(SessionID(sc.Name)),
		replicate.WithLabel(sc.Description),
	}
	if cfg.store != nil {
		replOpts = append(replOpts, replicate.WithStore(cfg.store))
	}

	h := &Harness{
		session:  session,
		registry: registry,
		repl:     replicate.New(session, registry, replOpts...),
		clock:    clock,
		nodes:    make(map[string]*schema.Node),
		logger:   cfg.logger,
	}
	defer h.teardown()

	if err := h.repl.Start(ctx); err != nil {
		return nil, err
	}
	for i, o := range sc.Objects {
		class, ok := sch.Class(o.Class)
		if !ok {
			return nil, fmt.Errorf("objects[%d]: unknown class %q", i, o.Class)
		}
		node := class.New(o.Name)
		h.nodes[o.Name] = node
		h.order = append(h.order, node)
		if _, err := h.repl.Track(ctx, node, o.Name); err != nil {
			return nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
	}
	for i, b := range sc.Bindings {
		if err := h.bind(b); err != nil {
			return nil, fmt.Errorf("bindings[%d]: %w", i, err)
		}
	}

	session.Log().Enable()
	result := NewResult()
	for i, step := range sc.Steps {
		if err := h.execute(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	h.snapshot(result)
	return result, nil
}

func loadSchema(sc *Scenario) (*schema.Schema, error) {
	if sc.SchemaDir != "" {
		return schema.Load(sc.SchemaDir)
	}
	return schema.Compile(sc.Schema, sc.Name+".cue")
}

// teardown destroys every node, then drops the registry's references.
func (h *Harness) teardown() {
	for _, n := range h.order {
		n.Destroy()
	}
	for _, n := range h.order {
		h.registry.Unregister(n)
	}
}

// resolve finds the instance named by an object.property path.
func (h *Harness) resolve(path string) (*property.Instance, error) {
	obj, prop, ok := strings.Cut(path, ".")
	if !ok {
		return nil, fmt.Errorf("property path %q is not object.property", path)
	}
	n, ok := h.nodes[obj]
	if !ok {
		return nil, fmt.Errorf("property path %q: unknown object %q", path, obj)
	}
	p := n.Property(prop)
	if p == nil {
		return nil, fmt.Errorf("property path %q: %s has no property %q", path, n.ClassName(), prop)
	}
	return p, nil
}

// ref returns the registry's shared reference to a named object.
func (h *Harness) ref(name string) (*value.Ref, error) {
	n, ok := h.nodes[name]
	if !ok {
		return nil, fmt.Errorf("unknown object %q", name)
	}
	return h.registry.Ref(n)
}

func (h *Harness) bind(b Binding) error {
	target, err := h.resolve(b.Target)
	if err != nil {
		return err
	}
	sources := make([]*property.Instance, len(b.Sources))
	for i, s := range b.Sources {
		if sources[i], err = h.resolve(s); err != nil {
			return err
		}
	}

	switch b.Type {
	case BindingSquare, BindingSum:
		for _, p := range append([]*property.Instance{target}, sources...) {
			if !p.Kind().IsScalar() {
				return fmt.Errorf("%s binding needs scalar kinds, %s is %v", b.Type, p.Name(), p.Kind())
			}
		}
	}

	return protect(func() {
		switch b.Type {
		case BindingCopy:
			property.BindCopy(h.session, target, sources[0])
		case BindingMirror:
			property.BindMirror(h.session, sources[0], target)
		case BindingCast:
			property.BindCast(h.session, target, sources[0])
		case BindingSquare:
			target.Attach(h.session, squareCallback, sources[0], nil, sources[0])
			if !b.Lazy {
				squareCallback(h.session, target, sources[0])
			}
		case BindingSum:
			target.Attach(h.session, sumCallback, sources, nil, sources...)
			if !b.Lazy {
				sumCallback(h.session, target, sources)
			}
		}
	})
}

func squareCallback(s *property.Session, target *property.Instance, data any) {
	src := data.(*property.Instance).Box()
	defer src.Destroy()
	x := value.ToFloat64(src.Value())
	out := value.NewBox(value.FromFloat64(target.Kind(), x*x))
	defer out.Destroy()
	target.SetBoxed(s, out)
}

func sumCallback(s *property.Session, target *property.Instance, data any) {
	total := 0.0
	for _, p := range data.([]*property.Instance) {
		b := p.Box()
		total += value.ToFloat64(b.Value())
		b.Destroy()
	}
	out := value.NewBox(value.FromFloat64(target.Kind(), total))
	defer out.Destroy()
	target.SetBoxed(s, out)
}

// protect runs fn, turning propagation and contract panics into errors.
func protect(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && (value.IsContractViolation(e) || property.IsDepthError(e)) {
			err = e
			return
		}
		panic(r)
	}()
	fn()
	return nil
}

// execute runs one step. Failed expectations are added to result; the
// returned error aborts the run.
func (h *Harness) execute(ctx context.Context, i int, step Step, result *Result) error {
	switch {
	case step.Set != "":
		p, err := h.resolve(step.Set)
		if err != nil {
			return err
		}
		v, err := toValue(p, step.Value, h.ref)
		if err != nil {
			return fmt.Errorf("set %s: %w", step.Set, err)
		}
		h.logger.Debug("set", "step", i, "path", step.Set, "value", step.Value)
		err = protect(func() { p.Set(h.session, v) })
		switch {
		case err == nil && step.Error != "":
			result.AddError(fmt.Sprintf("steps[%d]: set %s succeeded, expected error containing %q", i, step.Set, step.Error))
		case err != nil && step.Error == "":
			result.AddError(fmt.Sprintf("steps[%d]: set %s: %v", i, step.Set, err))
		case err != nil && !strings.Contains(err.Error(), step.Error):
			result.AddError(fmt.Sprintf("steps[%d]: set %s: error %q does not contain %q", i, step.Set, err, step.Error))
		}

	case step.Tick:
		b, err := h.repl.Tick(ctx)
		if err != nil {
			return err
		}
		if b == nil {
			h.logger.Debug("tick", "step", i, "records", 0)
			return nil
		}
		defer b.Release()
		trace := TickTrace{Tick: b.Tick, Records: make([]RecordTrace, 0, b.Len())}
		for _, rec := range b.Records {
			rt, err := h.traceRecord(rec.Seq, rec.Owner, rec.Property, rec.Value)
			if err != nil {
				return err
			}
			trace.Records = append(trace.Records, rt)
		}
		result.Ticks = append(result.Ticks, trace)
		h.logger.Debug("tick", "step", i, "tick", b.Tick, "records", b.Len())

	case step.Expect != nil:
		paths := make([]string, 0, len(step.Expect))
		for path := range step.Expect {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			if msg, err := h.expect(path, step.Expect[path]); err != nil {
				return err
			} else if msg != "" {
				result.AddError(fmt.Sprintf("steps[%d]: %s", i, msg))
			}
		}

	case step.Log != nil:
		if got := h.session.Log().Len(); got != *step.Log {
			result.AddError(fmt.Sprintf("steps[%d]: change log has %d entries, expected %d", i, got, *step.Log))
		}

	case step.Detach != "":
		p, err := h.resolve(step.Detach)
		if err != nil {
			return err
		}
		p.Detach()
	}
	return nil
}

// expect compares one property against an expected YAML value. It returns
// a mismatch message, or an error when the expectation itself is invalid.
func (h *Harness) expect(path string, raw any) (string, error) {
	p, err := h.resolve(path)
	if err != nil {
		return "", err
	}
	want, err := toValue(p, raw, h.ref)
	if err != nil {
		return "", fmt.Errorf("expect %s: %w", path, err)
	}
	got := p.Box()
	defer got.Destroy()
	if value.Equal(got.Value(), want) {
		return "", nil
	}
	wantBox := value.NewBox(want)
	defer wantBox.Destroy()
	enums := p.Spec().EnumNames()
	return fmt.Sprintf("%s = %s, expected %s", path,
		value.DisplayString(got, enums), value.DisplayString(wantBox, enums)), nil
}

// snapshot records the display string of every property of every object.
func (h *Harness) snapshot(result *Result) {
	for _, n := range h.order {
		for _, p := range n.Properties() {
			b := p.Box()
			result.Final[n.Name()+"."+p.Name()] = value.DisplayString(b, p.Spec().EnumNames())
			b.Destroy()
		}
	}
}

// traceRecord renders one batch record with its wire-form value.
func (h *Harness) traceRecord(seq int64, owner string, id uint32, b *value.Box) (RecordTrace, error) {
	v, err := wire.EncodeValue(b.Value(), h.registry)
	if err != nil {
		return RecordTrace{}, fmt.Errorf("record %d: %w", seq, err)
	}
	rt := RecordTrace{Seq: seq, Owner: owner, Property: id, Kind: b.Kind().String(), Value: v}
	if o, ok := h.registry.Lookup(owner); ok {
		if p := o.PropertyByID(id); p != nil {
			rt.Name = p.Name()
		}
	}
	return rt, nil
}
