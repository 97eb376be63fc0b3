package schemafile

import (
	"github.com/pkg/errors"

	"github.com/rawbytedev/binmap"
)

// Kind is a compiled record kind together with its derived accessors.
type Kind struct {
	Schema    *binmap.Schema
	accessors []binmap.Accessor
	byName    map[string]binmap.Accessor
}

func newKind(s *binmap.Schema) *Kind {
	return &Kind{Schema: s, byName: make(map[string]binmap.Accessor)}
}

func (k *Kind) add(a binmap.Accessor) error {
	if _, ok := k.Schema.Lookup(a.Name()); ok {
		return errors.Errorf("accessor %s shadows a field", a.Name())
	}
	if _, ok := k.byName[a.Name()]; ok {
		return errors.Errorf("duplicate accessor %s", a.Name())
	}
	k.byName[a.Name()] = a
	k.accessors = append(k.accessors, a)
	return nil
}

// Name returns the record kind name.
func (k *Kind) Name() string { return k.Schema.Name() }

// Accessors returns the derived accessors in the order they were added.
func (k *Kind) Accessors() []binmap.Accessor { return append([]binmap.Accessor(nil), k.accessors...) }

// Accessor returns the derived accessor called name.
func (k *Kind) Accessor(name string) (binmap.Accessor, bool) {
	a, ok := k.byName[name]
	return a, ok
}

// Get reads a data field or derived accessor by name.
func (k *Kind) Get(r *binmap.Record, name string) (any, error) {
	if a, ok := k.byName[name]; ok {
		return a.Get(r)
	}
	return r.Get(name)
}

// Set writes a data field or derived accessor by name.
func (k *Kind) Set(r *binmap.Record, name string, v any) error {
	if a, ok := k.byName[name]; ok {
		return a.Set(r, v)
	}
	return r.Set(name, v)
}
