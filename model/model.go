// Package model defines the boundary between the fabrica engine and the
// persistence layer that owns the actual model types.
//
// The engine never talks to a database, an ORM, or a struct registry
// directly. It resolves factory definitions into ordered field values and
// hands them to a Layer, which constructs instances, persists them, and
// answers reverse-relation metadata questions. Any system that can implement
// the three Layer methods can be populated by fabrica factories.
//
// Two implementations ship with the module: memmodel (in-memory tables,
// useful for unit tests and prototyping) and sqlmodel (INSERT-based
// persistence over database/sql).
package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Field is a single named value of an instance, in definition order.
type Field struct {
	Name  string
	Value any
}

// Instance is a constructed model object. Instances start transient;
// a Layer assigns their identity on Save.
type Instance interface {
	// ModelName returns the name of the model type this instance belongs to.
	ModelName() string

	// ID returns the stable identity assigned on persistence,
	// or nil while the instance is transient.
	ID() any

	// Get returns the value of the named field.
	Get(field string) (any, bool)

	// Fields returns the instance's field values in construction order.
	Fields() []Field

	// Related returns the child instances attached under the given
	// relation name, in generation order.
	Related(relation string) []Instance

	// AttachRelated appends child instances under the given relation name.
	AttachRelated(relation string, children ...Instance)
}

// Get returns the value of the named field asserted to type T.
// The second return value reports whether the field exists and
// holds a value of that type.
func Get[T any](inst Instance, field string) (T, bool) {
	v, ok := inst.Get(field)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Layer is the persistence boundary implemented by model backends.
//
// New must not persist. Save must assign the instance identity exactly once.
// Both may be called from multiple goroutines when the backend permits it.
type Layer interface {
	// New constructs an unpersisted instance of the named model with the
	// given field values.
	New(model string, fields []Field) (Instance, error)

	// Save persists the instance and assigns its stable identity.
	// Errors are returned to callers verbatim.
	Save(ctx context.Context, inst Instance) error

	// Relation resolves a reverse relation declared on the given model.
	// It returns a RelationNotFoundError if the model does not declare it.
	Relation(model, relation string) (*Relation, error)
}

// Relation describes a reverse relation declared on a parent model:
// following Name from a parent instance yields Type instances whose
// Field refers back to the parent.
type Relation struct {
	Name  string // relation name on the parent model, e.g. "comments"
	Type  string // child model name, e.g. "Comment"
	Field string // foreign-key field on the child, e.g. "post"
}

// Type describes a model known to a layer.
type Type struct {
	// Name is the model type name, e.g. "Post".
	Name string

	// Table optionally overrides the storage name derived from Name.
	// Only storage-backed layers consult it.
	Table string

	// Relations lists the reverse relations declared on the model.
	Relations []Relation
}

// Relation returns the reverse relation with the given name.
func (t Type) Relation(name string) (*Relation, bool) {
	for i := range t.Relations {
		if t.Relations[i].Name == name {
			return &t.Relations[i], true
		}
	}
	return nil, false
}

// ErrRelationNotFound is returned when a reverse relation is not declared
// on the model it was requested for.
var ErrRelationNotFound = errors.New("fabrica: relation not found")

// RelationNotFoundError reports a reverse relation missing from a model.
type RelationNotFoundError struct {
	model    string
	relation string
}

// Error returns the error string.
func (e *RelationNotFoundError) Error() string {
	return fmt.Sprintf("fabrica: relation %q not found on model %q", e.relation, e.model)
}

// Is reports whether the target error matches RelationNotFoundError.
// This allows errors.Is(err, ErrRelationNotFound) to return true.
func (e *RelationNotFoundError) Is(err error) bool {
	return err == ErrRelationNotFound
}

// Model returns the model the relation was requested on.
func (e *RelationNotFoundError) Model() string {
	return e.model
}

// Relation returns the relation name that was requested.
func (e *RelationNotFoundError) Relation() string {
	return e.relation
}

// NewRelationNotFoundError returns a new RelationNotFoundError for the
// given model and relation name.
func NewRelationNotFoundError(model, relation string) *RelationNotFoundError {
	return &RelationNotFoundError{model: model, relation: relation}
}

// IsRelationNotFound returns true if the error is a RelationNotFoundError.
func IsRelationNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *RelationNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrRelationNotFound)
}

// Record is the Instance implementation used by the bundled layers.
// It keeps field values in construction order next to a name index.
type Record struct {
	model   string
	id      any
	fields  []Field
	index   map[string]int
	related map[string][]Instance
}

// NewRecord returns a transient record of the named model with the given
// field values. Field names are assumed unique; on duplicates the last
// value wins for lookups while the original order is preserved.
func NewRecord(model string, fields []Field) *Record {
	r := &Record{
		model:  model,
		fields: slices.Clone(fields),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range r.fields {
		r.index[f.Name] = i
	}
	return r
}

// ModelName returns the name of the model type this record belongs to.
func (r *Record) ModelName() string {
	return r.model
}

// ID returns the identity assigned on persistence, or nil while transient.
func (r *Record) ID() any {
	return r.id
}

// SetID assigns the record identity. Layers call it once on Save.
func (r *Record) SetID(id any) {
	r.id = id
}

// Get returns the value of the named field.
func (r *Record) Get(field string) (any, bool) {
	i, ok := r.index[field]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// SetField replaces the value of the named field, appending a new field
// when the record does not have it. The engine never mutates records;
// layers use it when reconstructing instances.
func (r *Record) SetField(name string, v any) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Fields returns a copy of the record's field values in construction order.
func (r *Record) Fields() []Field {
	return slices.Clone(r.fields)
}

// Related returns the children attached under the given relation name,
// in generation order.
func (r *Record) Related(relation string) []Instance {
	return r.related[relation]
}

// AttachRelated appends children under the given relation name.
func (r *Record) AttachRelated(relation string, children ...Instance) {
	if r.related == nil {
		r.related = make(map[string][]Instance)
	}
	r.related[relation] = append(r.related[relation], children...)
}

// String returns a short description for logs and test failures.
func (r *Record) String() string {
	if r.id == nil {
		return fmt.Sprintf("%s(transient)", r.model)
	}
	return fmt.Sprintf("%s(id=%v)", r.model, r.id)
}

var _ Instance = (*Record)(nil)
