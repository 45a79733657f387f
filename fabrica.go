package fabrica

import (
	"fmt"

	"github.com/syssam/fabrica/faker"
)

// Op is the resolution mode of a build pass. The op cascades through the
// whole object graph: nested factories and has-expanded children are built
// with the same op as the instance that triggered them.
type Op int

const (
	// OpMake resolves the graph without persisting anything.
	OpMake Op = iota
	// OpCreate persists every resolved instance, dependencies first.
	OpCreate
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpMake:
		return "make"
	case OpCreate:
		return "create"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// PathSeparator separates segments in override keys. An override key
// containing it targets a field of a nested factory: "author__name"
// overrides the "name" field of the factory referenced by "author".
const PathSeparator = "__"

// Overrides carries caller-supplied field values applied on top of a
// factory definition during a single build pass.
//
// Keys name definition fields directly, or nested-factory fields through
// PathSeparator paths of any depth. Values may be plain scalars,
// model.Instance values (used as-is, suppressing nested construction),
// Factory values or registry identifiers via a map for a nested field,
// zero-argument functions (evaluated at build time), or nested maps
// (Overrides or map[string]any) holding sub-overrides for a nested factory.
type Overrides map[string]any

// Factory is a blueprint for instances of one model type.
//
// Implementations embed Base and override Model and Definition:
//
//	type PostFactory struct {
//	    fabrica.Base
//	}
//
//	func (PostFactory) Model() string { return "Post" }
//
//	func (PostFactory) Definition(gen *faker.Faker) []fabrica.Field {
//	    return []fabrica.Field{
//	        fabrica.Value("title", gen.Sentence(4)),
//	        fabrica.Lazy("body", func() any { return gen.Paragraphs(2) }),
//	        fabrica.Ref("author", UserFactory{}),
//	    }
//	}
type Factory interface {
	// Model returns the name of the model type the factory produces.
	Model() string

	// Definition returns the factory's base field mapping. It is invoked
	// exactly once per resolution pass, so values drawn from gen are fresh
	// on every build. gen is the provider owned by the resolving unit.
	Definition(gen *faker.Faker) []Field

	// Mixin returns reusable definition fragments evaluated before the
	// factory's own fields. Later fields win on name collision.
	Mixin() []Mixin

	// ConfigureProvider returns the value provider used when this factory
	// resolves, or nil to accept the client default.
	ConfigureProvider() *faker.Faker
}

// Mixin is a reusable definition fragment shared between factories,
// e.g. a timestamp pair every model carries.
type Mixin interface {
	Definition(gen *faker.Faker) []Field
}

// Base is the default implementation for the Factory interface.
// It should be embedded in all factory definitions.
type Base struct{}

// Model returns an empty model name by default.
func (Base) Model() string { return "" }

// Definition returns no fields by default. A factory providing neither its
// own fields nor mixin fields fails at resolution time with a DefinitionError.
func (Base) Definition(*faker.Faker) []Field { return nil }

// Mixin returns no fragments by default.
func (Base) Mixin() []Mixin { return nil }

// ConfigureProvider accepts the client default provider.
func (Base) ConfigureProvider() *faker.Faker { return nil }

var _ Factory = Base{}

// fieldKind tags the variant a definition field holds.
type fieldKind uint8

const (
	kindValue fieldKind = iota
	kindLazy
	kindRef
)

func (k fieldKind) String() string {
	switch k {
	case kindValue:
		return "value"
	case kindLazy:
		return "lazy"
	case kindRef:
		return "ref"
	default:
		return fmt.Sprintf("fieldKind(%d)", uint8(k))
	}
}

// Field is one named entry of a factory definition. Definitions are ordered:
// fields resolve, and instances receive values, in declaration order.
type Field struct {
	name string
	kind fieldKind
	val  any        // kindValue
	fn   func() any // kindLazy
	ref  any        // kindRef: Factory value or registry identifier string
}

// Name returns the field name.
func (f Field) Name() string {
	return f.name
}

// Value returns a field holding a literal. Strings are always literals;
// factory references are declared with Ref.
func Value(name string, v any) Field {
	return Field{name: name, kind: kindValue, val: v}
}

// Lazy returns a field whose value is produced by fn at build time, once
// per resolution pass. fn may return a scalar, a model.Instance, or a
// Factory value; the result is dispatched the same way a literal would be.
func Lazy(name string, fn func() any) Field {
	return Field{name: name, kind: kindLazy, fn: fn}
}

// Ref returns a field holding a nested factory reference. The target is
// either a Factory value or a registry identifier string such as
// "blog.UserFactory"; string targets resolve lazily at build time.
func Ref(name string, target any) Field {
	return Field{name: name, kind: kindRef, ref: target}
}
