package replicate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/value"
)

var (
	// ErrUnknownOwner is returned for a key no owner is registered under.
	ErrUnknownOwner = errors.New("unknown owner")

	// ErrDuplicateKey is returned when a key is registered twice.
	ErrDuplicateKey = errors.New("owner key already registered")
)

// Owner is an object whose properties are replicated.
type Owner interface {
	Name() string
	ClassName() string
	PropertyByID(id uint32) *property.Instance
}

// Registry maps owners to stable keys. It also acts as the wire.RefCodec for
// object references whose target is a registered owner.
type Registry struct {
	gen    KeyGenerator
	keys   map[Owner]string
	owners map[string]Owner
	refs   map[string]*value.Ref
}

// NewRegistry creates an empty registry that keys owners with gen.
func NewRegistry(gen KeyGenerator) *Registry {
	return &Registry{
		gen:    gen,
		keys:   make(map[Owner]string),
		owners: make(map[string]Owner),
		refs:   make(map[string]*value.Ref),
	}
}

// Register keys o with the next generated key. Registering an owner again
// returns its existing key.
func (r *Registry) Register(o Owner) (string, error) {
	if key, ok := r.keys[o]; ok {
		return key, nil
	}
	key := r.gen.Generate()
	if err := r.RegisterAs(o, key); err != nil {
		return "", err
	}
	return key, nil
}

// RegisterAs keys o with key.
func (r *Registry) RegisterAs(o Owner, key string) error {
	if key == "" {
		return fmt.Errorf("register %s: empty key", o.Name())
	}
	if existing, ok := r.keys[o]; ok {
		if existing == key {
			return nil
		}
		return fmt.Errorf("register %s as %q: already registered as %q", o.Name(), key, existing)
	}
	if _, ok := r.owners[key]; ok {
		return fmt.Errorf("register %s: %q: %w", o.Name(), key, ErrDuplicateKey)
	}
	r.keys[o] = key
	r.owners[key] = o
	return nil
}

// Unregister forgets o and releases the registry's reference to it.
func (r *Registry) Unregister(o Owner) {
	key, ok := r.keys[o]
	if !ok {
		return
	}
	delete(r.keys, o)
	delete(r.owners, key)
	if ref, ok := r.refs[key]; ok {
		delete(r.refs, key)
		ref.Release()
	}
}

// Key returns o's key. owner is typed any so change log owners can be
// passed directly.
func (r *Registry) Key(owner any) (string, bool) {
	o, ok := owner.(Owner)
	if !ok {
		return "", false
	}
	key, ok := r.keys[o]
	return key, ok
}

// Lookup returns the owner registered under key.
func (r *Registry) Lookup(key string) (Owner, bool) {
	o, ok := r.owners[key]
	return o, ok
}

// Keys returns every registered key in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.owners))
	for k := range r.owners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered owners.
func (r *Registry) Len() int {
	return len(r.owners)
}

// Ref returns the registry's shared reference to a registered owner, for use
// as an object property payload. The reference is borrowed; the registry
// keeps it until the owner is unregistered.
func (r *Registry) Ref(o Owner) (*value.Ref, error) {
	key, ok := r.keys[o]
	if !ok {
		return nil, fmt.Errorf("ref %s: %w", o.Name(), ErrUnknownOwner)
	}
	return r.LookupRef(key)
}

// RefKey implements wire.RefCodec.
func (r *Registry) RefKey(ref *value.Ref) (string, error) {
	key, ok := r.Key(ref.Target())
	if !ok {
		return "", fmt.Errorf("reference target %v: %w", ref.Target(), ErrUnknownOwner)
	}
	return key, nil
}

// LookupRef implements wire.RefCodec.
func (r *Registry) LookupRef(key string) (*value.Ref, error) {
	if ref, ok := r.refs[key]; ok {
		return ref, nil
	}
	o, ok := r.owners[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, ErrUnknownOwner)
	}
	ref := value.NewRef(o, nil)
	r.refs[key] = ref
	return ref, nil
}
