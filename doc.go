// Package fabrica builds and optionally persists object graphs for tests,
// from declarative per-model factory definitions.
//
// Factories describe what a realistic instance of a model looks like; the
// engine resolves those descriptions into concrete instances, recursively
// following nested factory references, merging caller overrides, and
// expanding reverse relations. Persistence is delegated entirely to a model
// layer: fabrica is not an ORM and never interprets storage errors.
//
// # Defining Factories
//
// A factory embeds Base and declares its model and field mapping. Values
// come from the provider handed to Definition, from literals, from lazy
// functions, or from references to other factories:
//
//	type UserFactory struct {
//	    fabrica.Base
//	}
//
//	func (UserFactory) Model() string { return "User" }
//
//	func (UserFactory) Definition(gen *faker.Faker) []fabrica.Field {
//	    return []fabrica.Field{
//	        fabrica.Value("name", gen.Name()),
//	        fabrica.Value("email", gen.Email()),
//	    }
//	}
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
//
// Definition runs once per resolution pass, so every build draws fresh
// values. Reusable fragments shared between factories are declared through
// Mixin; the factory's own fields win on name collision.
//
// # Registration
//
// Factories register explicitly under opaque string identifiers,
// conventionally "<app>.<FactoryName>":
//
//	func init() {
//	    fabrica.Register("blog.UserFactory", UserFactory{})
//	    fabrica.Register("blog.PostFactory", PostFactory{})
//	}
//
// String references such as fabrica.Ref("author", "blog.UserFactory")
// resolve lazily at build time, which keeps mutually dependent factories
// declarable in any order. A failed lookup surfaces a FactoryNotFoundError
// on first use.
//
// # Building Instances
//
// A Client binds factories to a model layer. Make resolves a transient
// graph; Create persists it bottom-up, dependencies before dependents:
//
//	client := fabrica.NewClient(layer)
//	post, err := client.Factory(PostFactory{}).Create(ctx)
//
// Overrides replace definition values per build. Keys address fields of the
// factory directly, or fields of nested factories through double-underscore
// paths; sibling path keys merge into one sub-mapping before application:
//
//	post, err := client.Factory(PostFactory{}).Create(ctx, fabrica.Overrides{
//	    "title":        "Release notes",
//	    "author__name": "Ada",
//	})
//
// A direct override for a field always wins over its definition value. An
// override naming a field the definition does not declare fails with an
// UnknownFieldError.
//
// # Related Objects
//
// Reverse relations expand through Has and HasMany, which derive a new
// builder; children are generated after the parent, bound to it by a forced
// foreign-key override, in the same op as the parent:
//
//	post, err := client.Factory(PostFactory{}).
//	    HasMany("comments", 3).
//	    Create(ctx)
//	comments := post.Related("comments")
//
// # Model Layers
//
// The engine talks to storage through the model.Layer interface. The
// bundled layers cover in-memory tables (model/memmodel) and INSERT-based
// SQL persistence (model/sqlmodel); anything implementing the three Layer
// methods can be populated by factories.
//
// # Sub-packages
//
//   - model: layer boundary, instances, relation metadata, stats/debug wrappers
//   - model/memmodel: in-memory layer for unit tests and prototyping
//   - model/sqlmodel: database/sql layer with dialect-aware INSERTs
//   - faker: randomized value provider backing definitions
//   - fixture: factory sets and YAML dataset seeding for test suites
//   - contrib/mixin: ready-made definition fragments (timestamps, soft delete, tenancy)
package fabrica
