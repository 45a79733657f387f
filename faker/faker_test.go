package faker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fabrica/faker"
)

// TestNewSeeded tests that equal seeds reproduce equal value sequences.
func TestNewSeeded(t *testing.T) {
	t.Parallel()

	a := faker.NewSeeded(42)
	b := faker.NewSeeded(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Name(), b.Name())
		assert.Equal(t, a.Email(), b.Email())
	}

	c := faker.NewSeeded(43)
	drawn := faker.NewSeeded(42)
	same := true
	for i := 0; i < 5; i++ {
		if drawn.Name() != c.Name() {
			same = false
		}
	}
	assert.False(t, same, "distinct seeds should diverge")
}

// TestNew tests that the default provider generates values.
func TestNew(t *testing.T) {
	t.Parallel()

	gen := faker.New()
	require.NotNil(t, gen)
	assert.NotEmpty(t, gen.Name())
	assert.NotEmpty(t, gen.Email())
}

// TestSlug tests the slug shape.
func TestSlug(t *testing.T) {
	t.Parallel()

	slug := faker.NewSeeded(7).Slug()
	parts := strings.Split(slug, "-")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotEmpty(t, p)
		assert.Equal(t, strings.ToLower(p), p)
	}
}

// TestParagraphs tests paragraph count and separation.
func TestParagraphs(t *testing.T) {
	t.Parallel()

	text := faker.NewSeeded(7).Paragraphs(2)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "\n\n")
	assert.Len(t, strings.Split(text, "\n\n"), 2)
}
