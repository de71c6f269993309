package store

// TableSpec describes how items of one table are keyed and versioned.
type TableSpec struct {
	// Name is the DynamoDB table name (e.g., "orders").
	Name string

	// KeyAttributes names the partition key and, if any, the sort key.
	// Empty means Config.KeyAttributes.
	KeyAttributes []string

	// VersionPath overrides Config.VersionPath (e.g., "$.meta.revision").
	VersionPath string

	// Unversioned disables version locking for this table.
	Unversioned bool

	// ReplicaTable is where the stream handler copies changes of this table.
	// Empty means changes are not replicated.
	ReplicaTable string
}

// Registry holds the known table specs.
type Registry struct {
	tables []TableSpec
	byName map[string]TableSpec
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: []TableSpec{},
		byName: make(map[string]TableSpec),
	}
}

// Register adds a table spec to the registry. A later spec for the same table
// replaces the earlier one in lookups.
func (r *Registry) Register(spec TableSpec) {
	r.tables = append(r.tables, spec)
	r.byName[spec.Name] = spec
}

// Table returns the spec registered for name.
func (r *Registry) Table(name string) (TableSpec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// AllTables returns all registered specs in registration order.
func (r *Registry) AllTables() []TableSpec {
	return r.tables
}

// Replicated returns the current spec of every table that names a replica,
// in order of first registration.
func (r *Registry) Replicated() []TableSpec {
	var out []TableSpec
	seen := make(map[string]bool)
	for _, spec := range r.tables {
		if seen[spec.Name] {
			continue
		}
		seen[spec.Name] = true
		if current := r.byName[spec.Name]; current.ReplicaTable != "" {
			out = append(out, current)
		}
	}
	return out
}
