package fabrica

import (
	"errors"
	"fmt"

	"github.com/syssam/fabrica/model"
)

// Standard sentinel errors for common operations.
var (
	// ErrUnknownField is returned when an override names a field that the
	// factory definition does not declare.
	ErrUnknownField = errors.New("fabrica: unknown field")

	// ErrFactoryNotFound is returned when a factory lookup fails, either by
	// identifier or by target model.
	ErrFactoryNotFound = errors.New("fabrica: factory not found")

	// ErrRelationNotFound is returned when a has request names a relation
	// the model layer does not declare. It is shared with package model,
	// where layers construct the error.
	ErrRelationNotFound = model.ErrRelationNotFound

	// ErrInvalidDefinition is returned when a factory definition cannot be
	// evaluated: no model name, no fields, or a malformed reference.
	ErrInvalidDefinition = errors.New("fabrica: invalid definition")

	// ErrInvalidOverride is returned when an override cannot apply to the
	// field it names, e.g. sub-overrides against a plain scalar field.
	ErrInvalidOverride = errors.New("fabrica: invalid override")
)

// RelationNotFoundError reports a reverse relation missing from a model.
// Model layers construct it; it is aliased here so the whole error taxonomy
// is importable from one package.
type RelationNotFoundError = model.RelationNotFoundError

// IsRelationNotFound returns true if the error is a RelationNotFoundError.
func IsRelationNotFound(err error) bool {
	return model.IsRelationNotFound(err)
}

// UnknownFieldError represents an override naming a field absent from the
// factory's base definition. Unknown overrides are never silently ignored.
type UnknownFieldError struct {
	factory string
	field   string
}

// Error returns the error string.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("fabrica: unknown field %q in overrides for factory %q", e.field, e.factory)
}

// Is reports whether the target error matches UnknownFieldError.
// This allows errors.Is(err, ErrUnknownField) to return true.
func (e *UnknownFieldError) Is(err error) bool {
	return err == ErrUnknownField
}

// Factory returns the identifier of the factory being resolved.
func (e *UnknownFieldError) Factory() string {
	return e.factory
}

// Field returns the unknown field name.
func (e *UnknownFieldError) Field() string {
	return e.field
}

// NewUnknownFieldError returns a new UnknownFieldError for the given
// factory and field name.
func NewUnknownFieldError(factory, field string) *UnknownFieldError {
	return &UnknownFieldError{factory: factory, field: field}
}

// IsUnknownField returns true if the error is an UnknownFieldError.
func IsUnknownField(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownFieldError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownField)
}

// FactoryNotFoundError represents a failed factory lookup. Lookups fail
// lazily at first use, never at registration time.
type FactoryNotFoundError struct {
	identifier string
	model      string
}

// Error returns the error string.
func (e *FactoryNotFoundError) Error() string {
	if e.model != "" {
		return fmt.Sprintf("fabrica: no factory registered for model %q", e.model)
	}
	return fmt.Sprintf("fabrica: factory %q not found", e.identifier)
}

// Is reports whether the target error matches FactoryNotFoundError.
// This allows errors.Is(err, ErrFactoryNotFound) to return true.
func (e *FactoryNotFoundError) Is(err error) bool {
	return err == ErrFactoryNotFound
}

// Identifier returns the identifier that was looked up, if any.
func (e *FactoryNotFoundError) Identifier() string {
	return e.identifier
}

// Model returns the model name the lookup was keyed by, if any.
func (e *FactoryNotFoundError) Model() string {
	return e.model
}

// NewFactoryNotFoundError returns a new FactoryNotFoundError for the given
// registry identifier.
func NewFactoryNotFoundError(identifier string) *FactoryNotFoundError {
	return &FactoryNotFoundError{identifier: identifier}
}

// NewFactoryNotFoundErrorForModel returns a new FactoryNotFoundError for a
// lookup keyed by target model name.
func NewFactoryNotFoundErrorForModel(model string) *FactoryNotFoundError {
	return &FactoryNotFoundError{model: model}
}

// IsFactoryNotFound returns true if the error is a FactoryNotFoundError.
func IsFactoryNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *FactoryNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrFactoryNotFound)
}

// DefinitionError represents a factory definition that cannot be evaluated.
type DefinitionError struct {
	Factory string // Factory identifier or model name
	Field   string // Offending field, if any
	Message string // What is wrong with the definition
	Err     error  // Underlying error, if any
}

// Error returns the error string.
func (e *DefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("fabrica: invalid definition for factory %q: field %q: %s", e.Factory, e.Field, e.Message)
	}
	return fmt.Sprintf("fabrica: invalid definition for factory %q: %s", e.Factory, e.Message)
}

// Unwrap returns the underlying error.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches DefinitionError.
// This allows errors.Is(err, ErrInvalidDefinition) to return true.
func (e *DefinitionError) Is(err error) bool {
	return err == ErrInvalidDefinition
}

// NewDefinitionError returns a new DefinitionError for the given factory.
func NewDefinitionError(factory, field, message string) *DefinitionError {
	return &DefinitionError{Factory: factory, Field: field, Message: message}
}

// IsDefinitionError returns true if the error is a DefinitionError.
func IsDefinitionError(err error) bool {
	if err == nil {
		return false
	}
	var e *DefinitionError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidDefinition)
}

// InvalidOverrideError represents an override that cannot apply to the
// field it names.
type InvalidOverrideError struct {
	Field   string // Field the override targets
	Message string // Why the override cannot apply
}

// Error returns the error string.
func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("fabrica: invalid override for field %q: %s", e.Field, e.Message)
}

// Is reports whether the target error matches InvalidOverrideError.
// This allows errors.Is(err, ErrInvalidOverride) to return true.
func (e *InvalidOverrideError) Is(err error) bool {
	return err == ErrInvalidOverride
}

// NewInvalidOverrideError returns a new InvalidOverrideError for the given field.
func NewInvalidOverrideError(field, message string) *InvalidOverrideError {
	return &InvalidOverrideError{Field: field, Message: message}
}

// IsInvalidOverride returns true if the error is an InvalidOverrideError.
func IsInvalidOverride(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidOverrideError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidOverride)
}
