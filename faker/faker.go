// Package faker provides the randomized value provider consumed by factory
// definitions.
//
// The engine hands every bound factory its own provider instance, so values
// drawn inside a Definition never share random state with other factories.
// Factories that need a customized provider (fixed seed, custom source)
// return one from ConfigureProvider; everyone else receives the client
// default.
//
// The generator surface is github.com/brianvoe/gofakeit promoted wholesale:
// gen.Name(), gen.Email(), gen.Sentence(5), gen.Number(1, 100), gen.Date()
// and the rest are all available directly on *Faker.
package faker

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// Faker generates randomized field values for factory definitions.
type Faker struct {
	*gofakeit.Faker
}

// New returns a randomly seeded provider.
func New() *Faker {
	return &Faker{gofakeit.New(0)}
}

// NewSeeded returns a provider with a fixed seed. Two providers with the
// same seed produce identical value sequences, which makes factory output
// reproducible across runs.
func NewSeeded(seed int64) *Faker {
	return &Faker{gofakeit.New(seed)}
}

// Slug returns a lowercase hyphen-separated phrase, e.g. "quaint-velvet-ocean".
func (f *Faker) Slug() string {
	words := []string{f.Word(), f.Word(), f.Word()}
	return strings.ToLower(strings.Join(words, "-"))
}

// Paragraphs returns n paragraphs of lorem-style prose separated by blank lines.
func (f *Faker) Paragraphs(n int) string {
	return f.Paragraph(n, 3, 12, "\n\n")
}
