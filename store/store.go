package store

import (
	"fmt"
	"strings"

	"github.com/jacentio/dyndiff/document"
	"github.com/jacentio/dyndiff/expression"
)

// Store compiles item changes into DynamoDB write requests.
type Store struct {
	config   Config
	registry *Registry
}

// New creates a new Store instance.
func New(config Config) *Store {
	config.validate()
	return &Store{
		config: config,
	}
}

// NewWithRegistry creates a new Store instance with a table registry.
func NewWithRegistry(config Config, registry *Registry) *Store {
	config.validate()
	return &Store{
		config:   config,
		registry: registry,
	}
}

// SetRegistry sets the table registry.
func (s *Store) SetRegistry(registry *Registry) {
	s.registry = registry
}

// Registry returns the table registry, or nil if not set.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Table returns the effective spec of a table: its registered spec with the
// config filling whatever it leaves unset.
func (s *Store) Table(name string) TableSpec {
	spec := TableSpec{Name: name}
	if s.registry != nil {
		if registered, ok := s.registry.Table(name); ok {
			spec = registered
		}
	}
	if len(spec.KeyAttributes) == 0 {
		spec.KeyAttributes = s.config.KeyAttributes
	}
	if spec.VersionPath == "" {
		spec.VersionPath = s.config.VersionPath
	}
	if spec.VersionPath == "" {
		spec.Unversioned = true
	}
	return spec
}

// UpdateInput describes the change of one item.
type UpdateInput struct {
	Table string

	// Original is the stored item, or null when the item is new.
	Original document.Node

	// Modified is the desired item. It must carry the key unless Original does.
	Modified document.Node

	// CurrentVersion stands in for a version Original does not carry, e.g. when
	// only part of the item was read.
	CurrentVersion any
}

// Update compiles the change from in.Original to in.Modified.
//
// Key attributes identify the item and are left out of the update. On a
// versioned table the request carries the version lock, and a Modified item
// that still holds the stored version is written with the next one. On an
// unversioned table an update without changes fails with ErrNoChanges.
func (s *Store) Update(in UpdateInput) (*Request, error) {
	spec := s.Table(in.Table)
	if err := checkItem(in.Original, "original"); err != nil {
		return nil, err
	}
	if err := checkItem(in.Modified, "modified"); err != nil {
		return nil, err
	}
	key, err := keyOf(spec.KeyAttributes, in.Modified, in.Original)
	if err != nil {
		return nil, err
	}
	original := withoutKey(in.Original, spec.KeyAttributes)
	modified := withoutKey(in.Modified, spec.KeyAttributes)

	var expr expression.Expression
	if spec.Unversioned {
		expr, err = expression.Update(expression.UpdateInput{
			Original:    original,
			Modified:    modified,
			Orphans:     s.config.Orphans,
			AliasPrefix: s.config.AliasPrefix,
		})
	} else {
		modified = bumpable(original, modified, spec.VersionPath)
		expr, err = expression.Versioned(expression.VersionedInput{
			Original:       original,
			Modified:       modified,
			Orphans:        s.config.Orphans,
			VersionPath:    spec.VersionPath,
			CurrentVersion: in.CurrentVersion,
			Condition:      s.config.Condition,
			ExpectedPrefix: &s.config.ExpectedPrefix,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", spec.Name, err)
	}
	if expr.Empty() {
		return nil, ErrNoChanges
	}
	return s.request(spec.Name, key, expr), nil
}

// LockInput describes a version bump of one item.
type LockInput struct {
	Table string

	// Key identifies the item. When nil it is read from Original.
	Key PK

	// Original is the stored item, or null.
	Original document.Node

	// NewVersion is written as is. Without it the current version is incremented.
	NewVersion any

	// CurrentVersion stands in for a version Original does not carry.
	CurrentVersion any
}

// Lock builds a request that only moves the version of an item, guarded by the
// version lock. Use it to claim an item inside a transaction.
func (s *Store) Lock(in LockInput) (*Request, error) {
	spec := s.Table(in.Table)
	if spec.Unversioned {
		return nil, fmt.Errorf("%w: %s", ErrNotVersioned, spec.Name)
	}
	if err := checkItem(in.Original, "original"); err != nil {
		return nil, err
	}
	key := in.Key
	if key == nil {
		var err error
		if key, err = keyOf(spec.KeyAttributes, in.Original); err != nil {
			return nil, err
		}
	}
	expr, err := expression.VersionLock(expression.VersionLockInput{
		Original:       withoutKey(in.Original, spec.KeyAttributes),
		VersionPath:    spec.VersionPath,
		NewVersion:     in.NewVersion,
		CurrentVersion: in.CurrentVersion,
		Condition:      s.config.Condition,
		ExpectedPrefix: &s.config.ExpectedPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", spec.Name, err)
	}
	return s.request(spec.Name, key, expr), nil
}

func (s *Store) request(table string, key PK, expr expression.Expression) *Request {
	return &Request{
		Table:        table,
		Key:          key,
		Expression:   expr,
		FirstWrite:   strings.HasPrefix(expr.ConditionExpression, "attribute_not_exists"),
		ReturnValues: s.config.ReturnValues,
	}
}

// bumpable clears the version of modified when it equals the stored one, so
// that the compiled update increments it.
func bumpable(original, modified document.Node, versionPath string) document.Node {
	p, err := document.ParsePath(versionPath)
	if err != nil || len(p) == 0 {
		return modified
	}
	stored, ok := original.Lookup(p)
	if !ok || stored.IsNull() {
		return modified
	}
	if v, ok := modified.Lookup(p); !ok || !v.Equal(stored) {
		return modified
	}
	cleared, err := modified.With(p, document.Null())
	if err != nil {
		return modified
	}
	return cleared
}

func checkItem(n document.Node, name string) error {
	switch n.Kind() {
	case document.KindNull, document.KindMap:
		return nil
	}
	return fmt.Errorf("%w: %s item must be a map, got %s", expression.ErrInvalidArguments, name, n.Kind())
}
