package replicate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/proplink/internal/changelog"
	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/store"
	"github.com/roach88/proplink/internal/wire"
)

// Store is the persistence a Replicator needs. *store.Store implements it.
type Store interface {
	CreateSession(ctx context.Context, sess store.Session) error
	WriteOwner(ctx context.Context, sessionID string, o store.Owner) error
	WriteBatch(ctx context.Context, b store.Batch) error
}

// Replicator drains one session's change log once per tick.
type Replicator struct {
	session   *property.Session
	registry  *Registry
	clock     Sequencer
	sessionID string
	label     string
	store     Store
}

// Option configures a Replicator.
type Option func(*Replicator)

// WithStore persists every tick's batch, plus the session and its owners.
func WithStore(s Store) Option {
	return func(r *Replicator) {
		r.store = s
	}
}

// WithClock sets the tick sequencer.
//
// Default: a new Clock starting at 0.
func WithClock(c Sequencer) Option {
	return func(r *Replicator) {
		r.clock = c
	}
}

// WithSessionID sets the session id.
//
// Default: a new UUIDv7.
func WithSessionID(id string) Option {
	return func(r *Replicator) {
		r.sessionID = id
	}
}

// WithLabel sets the human-readable session label stored with the session.
func WithLabel(label string) Option {
	return func(r *Replicator) {
		r.label = label
	}
}

// New creates a Replicator for session. Owners are keyed by registry.
func New(session *property.Session, registry *Registry, opts ...Option) *Replicator {
	r := &Replicator{
		session:  session,
		registry: registry,
		clock:    NewClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sessionID == "" {
		r.sessionID = UUIDv7Generator{}.Generate()
	}
	return r
}

// SessionID returns the session id.
func (r *Replicator) SessionID() string {
	return r.sessionID
}

// Registry returns the owner registry.
func (r *Replicator) Registry() *Registry {
	return r.registry
}

// Start records the session in the store, if any.
func (r *Replicator) Start(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	err := r.store.CreateSession(ctx, store.Session{
		ID:       r.sessionID,
		Label:    r.label,
		MaxDepth: r.session.MaxDepth(),
	})
	if err != nil {
		return fmt.Errorf("start replication: %w", err)
	}
	return nil
}

// Track registers o under key (a generated key if empty) and records it in
// the store, if any. It returns the key.
func (r *Replicator) Track(ctx context.Context, o Owner, key string) (string, error) {
	var err error
	if key == "" {
		key, err = r.registry.Register(o)
	} else {
		err = r.registry.RegisterAs(o, key)
	}
	if err != nil {
		return "", err
	}
	if r.store != nil {
		err := r.store.WriteOwner(ctx, r.sessionID, store.Owner{Key: key, Class: o.ClassName(), Name: o.Name()})
		if err != nil {
			return "", fmt.Errorf("track %s: %w", o.Name(), err)
		}
	}
	return key, nil
}

// Tick drains the change log into a batch, persists it and rewinds the log.
//
// An empty log produces no batch and consumes no tick; Tick returns nil.
// Entries of unregistered owners and values without a wire form are
// skipped. If persisting fails the log is left intact and the error is
// returned; the tick number is still consumed.
//
// The caller owns the returned batch and must Release it.
func (r *Replicator) Tick(ctx context.Context) (*wire.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := r.session.Log()
	if log.Len() == 0 {
		return nil, nil
	}

	batch := &wire.Batch{Session: r.sessionID, Tick: r.clock.Next()}
	skipped := 0
	log.Each(func(e *changelog.Entry) bool {
		key, ok := r.registry.Key(e.Owner)
		if !ok {
			skipped++
			return true
		}
		if _, err := wire.EncodeValue(e.Value.Value(), r.registry); err != nil {
			slog.Debug("skipping record", "owner", key, "prop", e.PropertyID, "error", err)
			skipped++
			return true
		}
		batch.Records = append(batch.Records, wire.Record{
			Seq:      int64(len(batch.Records) + 1),
			Owner:    key,
			Property: e.PropertyID,
			Value:    e.Value.Clone(),
		})
		return true
	})

	if r.store != nil {
		if err := r.persist(ctx, batch); err != nil {
			batch.Release()
			return nil, err
		}
	}

	drained := log.Len()
	log.Rewind()
	slog.Info("replication tick",
		"session", r.sessionID,
		"tick", batch.Tick,
		"entries", drained,
		"records", batch.Len(),
		"skipped", skipped)
	return batch, nil
}

func (r *Replicator) persist(ctx context.Context, b *wire.Batch) error {
	data, err := b.Marshal(r.registry)
	if err != nil {
		return fmt.Errorf("tick %d: encode: %w", b.Tick, err)
	}
	blob, err := wire.Compress(data)
	if err != nil {
		return fmt.Errorf("tick %d: %w", b.Tick, err)
	}
	err = r.store.WriteBatch(ctx, store.Batch{
		SessionID:   r.sessionID,
		Tick:        b.Tick,
		RecordCount: b.Len(),
		Hash:        wire.Hash(data),
		Payload:     blob,
	})
	if err != nil {
		return fmt.Errorf("tick %d: %w", b.Tick, err)
	}
	return nil
}

// Apply writes every record of b through SetBoxed with the change log
// disabled, then restores the log's previous state.
//
// Records that cannot be applied (unknown owner, unknown property, kind
// mismatch) are skipped and reported together in the returned error; the
// remaining records are still applied. Apply returns the number applied.
func (r *Replicator) Apply(ctx context.Context, b *wire.Batch) (int, error) {
	log := r.session.Log()
	prev := log.SetEnabled(false)
	defer log.SetEnabled(prev)

	var errs []error
	applied := 0
	for _, rec := range b.Records {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p, err := r.resolve(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.SetBoxed(r.session, rec.Value)
		applied++
	}
	slog.Debug("applied batch", "session", b.Session, "tick", b.Tick, "applied", applied, "failed", len(errs))
	return applied, errors.Join(errs...)
}

func (r *Replicator) resolve(rec wire.Record) (*property.Instance, error) {
	o, ok := r.registry.Lookup(rec.Owner)
	if !ok {
		return nil, fmt.Errorf("record %d: owner %q: %w", rec.Seq, rec.Owner, ErrUnknownOwner)
	}
	p := o.PropertyByID(rec.Property)
	if p == nil || p.Destroyed() {
		return nil, fmt.Errorf("record %d: %s has no live property %d", rec.Seq, o.Name(), rec.Property)
	}
	if p.Kind() != rec.Value.Kind() {
		return nil, fmt.Errorf("record %d: %s.%s is %v, record is %v", rec.Seq, o.Name(), p.Name(), p.Kind(), rec.Value.Kind())
	}
	return p, nil
}

// ApplyPacked decodes a compressed batch and applies it.
func (r *Replicator) ApplyPacked(ctx context.Context, blob []byte) (int, error) {
	b, err := wire.Unpack(blob, r.registry)
	if err != nil {
		return 0, err
	}
	defer b.Release()
	return r.Apply(ctx, b)
}
