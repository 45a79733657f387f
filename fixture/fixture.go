// Package fixture integrates factories with test suites.
//
// A Set binds a group of factories to a client and hands out builders by
// target model name, so suite setup can declare once which factories it
// uses and tests can ask for them by the model they need:
//
//	set, err := fixture.NewSet(client,
//	    blog.PostFactory{},
//	    "blog.CommentFactory",
//	)
//	post, err := set.MustFor("Post").Create(ctx)
//
// A Dataset is a declarative seeding plan, usually loaded from YAML, that
// creates whole object graphs through registered factories.
package fixture

import (
	"fmt"
	"slices"

	"github.com/syssam/fabrica"
)

// Set indexes bound factory builders by their target model.
type Set struct {
	client   *fabrica.Client
	builders map[string]*fabrica.Builder
	models   []string
}

// NewSet binds the referenced factories to the client. References are
// Factory values or registry identifier strings; identifiers resolve
// against the client's registry. When two references target the same
// model, the later one wins.
func NewSet(c *fabrica.Client, refs ...any) (*Set, error) {
	s := &Set{
		client:   c,
		builders: make(map[string]*fabrica.Builder, len(refs)),
	}
	for _, ref := range refs {
		var f fabrica.Factory
		switch t := ref.(type) {
		case fabrica.Factory:
			f = t
		case string:
			var err error
			f, err = c.Registry().Lookup(t)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("fixture: invalid factory reference type %T", ref)
		}
		m := f.Model()
		if m == "" {
			return nil, fmt.Errorf("fixture: factory %T has no model name", f)
		}
		if _, dup := s.builders[m]; !dup {
			s.models = append(s.models, m)
		}
		s.builders[m] = c.Factory(f)
	}
	slices.Sort(s.models)
	return s, nil
}

// For returns the builder for the factory targeting the given model.
func (s *Set) For(model string) (*fabrica.Builder, error) {
	b, ok := s.builders[model]
	if !ok {
		return nil, fabrica.NewFactoryNotFoundErrorForModel(model)
	}
	return b, nil
}

// MustFor is like For but panics when the set has no factory for the
// model. Missing factories in suite setup are programming errors.
func (s *Set) MustFor(model string) *fabrica.Builder {
	b, err := s.For(model)
	if err != nil {
		panic(err)
	}
	return b
}

// Models returns the model names covered by the set, sorted.
func (s *Set) Models() []string {
	return slices.Clone(s.models)
}
